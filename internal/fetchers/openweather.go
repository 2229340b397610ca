package fetchers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"weatherdesk/internal/logger"
	"weatherdesk/internal/models"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Options configures the OpenWeatherMap fetcher
type Options struct {
	BaseURL string
	// Zero means requests never time out
	Timeout time.Duration
	// Outbound token bucket; requests wait for a token and are never rejected
	RateLimit rate.Limit
	Burst     int
}

// OpenWeatherFetcher issues the current weather, forecast and air pollution requests
type OpenWeatherFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewOpenWeatherFetcher creates a fetcher. Failed requests are not retried.
func NewOpenWeatherFetcher(opts Options) *OpenWeatherFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Inf
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}

	f := &OpenWeatherFetcher{
		limiter: rate.NewLimiter(opts.RateLimit, opts.Burst),
		log:     logger.Component("fetchers"),
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if err := f.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit wait canceled: %w", err)
		}
		return nil
	})
	f.client = client

	return f
}

// get performs a GET and returns the body regardless of HTTP status;
// the provider reports API errors as JSON that the caller decodes leniently.
func (f *OpenWeatherFetcher) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}

	f.log.Debug("Response received", logger.Fields{
		"path":    path,
		"status":  resp.StatusCode(),
		"bytes":   len(resp.Body()),
		"elapsed": resp.Time().String(),
	})
	return resp.Body(), nil
}

// FetchCurrent fetches current conditions for a city
func (f *OpenWeatherFetcher) FetchCurrent(ctx context.Context, city, apiKey string) (models.CurrentConditions, error) {
	body, err := f.get(ctx, "/weather", cityParams(city, apiKey))
	if err != nil {
		return models.CurrentConditions{}, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	current, err := ParseCurrent(body)
	if err != nil {
		return models.CurrentConditions{}, fmt.Errorf("failed to parse current weather: %w", err)
	}
	return current, nil
}

// FetchForecast fetches the 3-hourly forecast for a city
func (f *OpenWeatherFetcher) FetchForecast(ctx context.Context, city, apiKey string) ([]models.ForecastEntry, error) {
	body, err := f.get(ctx, "/forecast", cityParams(city, apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	forecast, err := ParseForecast(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse forecast: %w", err)
	}
	return forecast, nil
}

// FetchAirQuality fetches air pollution data for a position.
// It returns ErrEmptyAirQuality when the provider has no reading.
func (f *OpenWeatherFetcher) FetchAirQuality(ctx context.Context, coord models.Coordinates, apiKey string) (models.AirQuality, error) {
	body, err := f.get(ctx, "/air_pollution", map[string]string{
		"lat":   strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(coord.Lon, 'f', -1, 64),
		"appid": apiKey,
	})
	if err != nil {
		return models.AirQuality{}, fmt.Errorf("failed to fetch air quality: %w", err)
	}

	aq, err := ParseAirQuality(body)
	if err != nil {
		return models.AirQuality{}, fmt.Errorf("failed to parse air quality: %w", err)
	}
	return aq, nil
}

func cityParams(city, apiKey string) map[string]string {
	return map[string]string{
		"q":     city,
		"units": "metric",
		"appid": apiKey,
	}
}
