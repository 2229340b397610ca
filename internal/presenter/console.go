package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"weatherdesk/internal/logger"
	"weatherdesk/internal/models"
	"weatherdesk/internal/state"
)

// Console renders state changes as plain text. It only reads the model.
type Console struct {
	model     *state.Model
	chartPath string
	log       *logger.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console presenter. An empty chartPath disables chart output.
func NewConsole(model *state.Model, out io.Writer, chartPath string) *Console {
	return &Console{
		model:     model,
		out:       out,
		chartPath: chartPath,
		log:       logger.Component("presenter"),
	}
}

// Run renders events from sub until ctx is done, then closes sub.
// Subscribe before the first fetch so its results are not missed.
func (c *Console) Run(ctx context.Context, sub *state.Subscription) {
	defer sub.Close()
	for {
		select {
		case ev := <-sub.C():
			c.Render(ev.Topic)
		case <-ctx.Done():
			return
		}
	}
}

// Render writes the current value of one topic
func (c *Console) Render(topic state.Topic) {
	var b strings.Builder

	switch topic {
	case state.TopicCurrent:
		writeCurrent(&b, c.model.Current())
	case state.TopicForecast:
		forecast := c.model.Forecast()
		writeForecast(&b, forecast)
		c.writeChart(forecast)
	case state.TopicAirQuality:
		writeAirQuality(&b, c.model.AirQuality())
	case state.TopicCredentials:
		if c.model.HasAPIKey() {
			b.WriteString("API key: present\n")
		} else {
			b.WriteString("API key: missing, enter `:key <your-openweathermap-key>`\n")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, b.String())
}

func (c *Console) writeChart(forecast []models.ForecastEntry) {
	if c.chartPath == "" {
		return
	}
	if err := WriteForecastChart(c.chartPath, forecast); err != nil {
		c.log.Warn("Forecast chart not written", logger.Fields{"path": c.chartPath, "reason": err.Error()})
		return
	}
	c.log.Debug("Forecast chart written", logger.Fields{"path": c.chartPath})
}

func writeCurrent(b *strings.Builder, cur models.CurrentConditions) {
	fmt.Fprintf(b, "== %s ==\n", cur.City)
	fmt.Fprintf(b, "%d°C  %s (%s)\n", cur.Temperature, cur.Description, cur.Icon)
	fmt.Fprintf(b, "Humidity %d%%  Pressure %d hPa  Wind %.1f m/s\n", cur.Humidity, cur.Pressure, cur.WindSpeed)
}

func writeForecast(b *strings.Builder, forecast []models.ForecastEntry) {
	fmt.Fprintf(b, "-- Forecast (%d entries) --\n", len(forecast))
	for _, e := range forecast {
		fmt.Fprintf(b, "%s  %3d°C  %s\n", e.Time, e.Temperature, e.Description)
	}
}

func writeAirQuality(b *strings.Builder, aq models.AirQuality) {
	fmt.Fprintf(b, "-- Air quality: %d (%s) --\n", aq.Index, aq.Category)
	values := aq.Pollutants.AsMap()
	parts := make([]string, 0, len(models.PollutantKeys))
	for _, k := range models.PollutantKeys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, values[k]))
	}
	b.WriteString(strings.Join(parts, " "))
	b.WriteString("\n")
}
