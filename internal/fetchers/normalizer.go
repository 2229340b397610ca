package fetchers

import (
	"errors"
	"math"

	"github.com/tidwall/gjson"

	"weatherdesk/internal/models"
)

var (
	// ErrNotJSONObject is returned when a response body is not a JSON object
	ErrNotJSONObject = errors.New("response body is not a JSON object")

	// ErrEmptyAirQuality is returned when the air pollution list has no entries
	ErrEmptyAirQuality = errors.New("air pollution response has no entries")
)

// Decoding is lenient: a field that is missing or has the wrong JSON type
// reads as its zero value instead of failing the whole response.

func parseObject(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrNotJSONObject
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, ErrNotJSONObject
	}
	return root, nil
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func num(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Num
}

// integer accepts only integral numbers that fit in 32 bits
func integer(r gjson.Result) int {
	n := num(r)
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

// roundTemp rounds halves toward positive infinity, floor(t+0.5), so 31.5 → 32
// and -2.5 → -2. This differs from math.Round, which gives -3 for -2.5.
// Negative halves rounding up is intended.
func roundTemp(t float64) int {
	return int(math.Floor(t + 0.5))
}

// firstWeather returns description and icon of weather[0], if any
func firstWeather(r gjson.Result) (string, string) {
	w := r.Get("weather.0")
	if !w.IsObject() {
		return "", ""
	}
	return str(w.Get("description")), str(w.Get("icon"))
}

// ParseCurrent decodes a /weather response body
func ParseCurrent(body []byte) (models.CurrentConditions, error) {
	root, err := parseObject(body)
	if err != nil {
		return models.CurrentConditions{}, err
	}

	desc, icon := firstWeather(root)
	return models.CurrentConditions{
		City:        str(root.Get("name")),
		Temperature: roundTemp(num(root.Get("main.temp"))),
		Description: desc,
		Icon:        icon,
		Humidity:    integer(root.Get("main.humidity")),
		Pressure:    integer(root.Get("main.pressure")),
		WindSpeed:   num(root.Get("wind.speed")),
		Coord: models.Coordinates{
			Lat: num(root.Get("coord.lat")),
			Lon: num(root.Get("coord.lon")),
		},
	}, nil
}

// ParseForecast decodes a /forecast response body. Every element of list
// produces one entry, in order; a missing list yields an empty forecast.
func ParseForecast(body []byte) ([]models.ForecastEntry, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}

	list := root.Get("list")
	if !list.IsArray() {
		return []models.ForecastEntry{}, nil
	}

	items := list.Array()
	entries := make([]models.ForecastEntry, 0, len(items))
	for _, item := range items {
		desc, icon := firstWeather(item)
		entries = append(entries, models.ForecastEntry{
			Time:        str(item.Get("dt_txt")),
			Temperature: roundTemp(num(item.Get("main.temp"))),
			Icon:        icon,
			Description: desc,
		})
	}
	return entries, nil
}

// ParseAirQuality decodes an /air_pollution response body using list[0]
func ParseAirQuality(body []byte) (models.AirQuality, error) {
	root, err := parseObject(body)
	if err != nil {
		return models.AirQuality{}, err
	}

	list := root.Get("list")
	if !list.IsArray() || len(list.Array()) == 0 {
		return models.AirQuality{}, ErrEmptyAirQuality
	}

	entry := list.Get("0")
	index := integer(entry.Get("main.aqi"))
	c := entry.Get("components")

	return models.AirQuality{
		Index:    index,
		Category: models.AQICategory(index),
		Pollutants: models.Pollutants{
			CO:   num(c.Get("co")),
			NO:   num(c.Get("no")),
			NO2:  num(c.Get("no2")),
			O3:   num(c.Get("o3")),
			SO2:  num(c.Get("so2")),
			PM25: num(c.Get("pm2_5")),
			PM10: num(c.Get("pm10")),
			NH3:  num(c.Get("nh3")),
		},
	}, nil
}
