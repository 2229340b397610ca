package presenter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"weatherdesk/internal/models"
)

// forecastTimeLayout matches the provider's dt_txt field
const forecastTimeLayout = "2006-01-02 15:04:05"

var errTooFewPoints = errors.New("forecast chart needs at least two timestamped entries")

// RenderForecastChart draws the forecast temperatures as a PNG line chart.
// Entries whose time does not parse are left out.
func RenderForecastChart(w io.Writer, entries []models.ForecastEntry) error {
	var xValues []time.Time
	var yValues []float64
	for _, e := range entries {
		ts, err := time.Parse(forecastTimeLayout, e.Time)
		if err != nil {
			continue
		}
		xValues = append(xValues, ts)
		yValues = append(yValues, float64(e.Temperature))
	}
	if len(xValues) < 2 {
		return errTooFewPoints
	}

	graph := chart.Chart{
		Title: "Temperature Forecast",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  800,
		Height: 320,
		XAxis: chart.XAxis{
			Name:           "Time (UTC)",
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2 15:04"),
		},
		YAxis: chart.YAxis{
			Name: "°C",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Temperature",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 230, G: 126, B: 34, A: 255},
					StrokeWidth: 2,
					DotColor:    drawing.Color{R: 230, G: 126, B: 34, A: 255},
					DotWidth:    3,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render forecast chart: %w", err)
	}
	return nil
}

// WriteForecastChart renders the chart to path, creating parent directories
func WriteForecastChart(path string, entries []models.ForecastEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	if err := RenderForecastChart(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
