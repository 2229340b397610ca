package weather

import (
	"context"
	"errors"
	"strings"
	"sync"

	"weatherdesk/internal/fetchers"
	"weatherdesk/internal/logger"
	"weatherdesk/internal/models"
	"weatherdesk/internal/state"
)

// Source provides the three provider requests
type Source interface {
	FetchCurrent(ctx context.Context, city, apiKey string) (models.CurrentConditions, error)
	FetchForecast(ctx context.Context, city, apiKey string) ([]models.ForecastEntry, error)
	FetchAirQuality(ctx context.Context, coord models.Coordinates, apiKey string) (models.AirQuality, error)
}

// SettingsStore persists the API key and the last queried city
type SettingsStore interface {
	Load(fallbackCity string) models.AppSettings
	SaveAPIKey(key string) (bool, error)
	SaveLastCity(city string) error
}

// Client runs fetch cycles and is the only writer of the state model.
//
// Cycles are never cancelled. When two overlap, their branches race and
// whichever response lands last wins for each group.
type Client struct {
	source Source
	store  SettingsStore
	model  *state.Model
	log    *logger.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewClient wires a client to its source, settings store and state model
func NewClient(source Source, store SettingsStore, model *state.Model) *Client {
	return &Client{
		source: source,
		store:  store,
		model:  model,
		log:    logger.Component("weather"),
	}
}

// LoadSettings reads persisted settings, seeds credentials and returns them
func (c *Client) LoadSettings(fallbackCity string) models.AppSettings {
	s := c.store.Load(fallbackCity)

	c.mu.Lock()
	c.apiKey = s.APIKey
	c.mu.Unlock()

	c.model.SetCredentials(s.HasAPIKey())
	return s
}

// SaveAPIKey stores a new key and marks credentials present.
// Blank keys are ignored and report false.
func (c *Client) SaveAPIKey(key string) bool {
	saved, err := c.store.SaveAPIKey(key)
	if !saved && err == nil {
		c.log.Debug("Blank API key ignored")
		return false
	}
	if err != nil {
		// The key still applies to this session.
		c.log.Error("Failed to persist API key", err)
	}

	c.mu.Lock()
	c.apiKey = strings.TrimSpace(key)
	c.mu.Unlock()

	c.model.SetCredentials(true)
	return true
}

func (c *Client) currentKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Fetch starts a fetch cycle for city and returns immediately. Without an
// API key it does nothing and returns a cycle that is already done.
func (c *Client) Fetch(city string) *Cycle {
	key := c.currentKey()
	if key == "" {
		c.log.Warn("No API key, fetch skipped", logger.Fields{"city": city})
		return skippedCycle(city)
	}

	cycle := newCycle(city)
	c.log.Info("Fetch started", logger.Fields{"city": city, "cycle": cycle.ID})

	if err := c.store.SaveLastCity(city); err != nil {
		c.log.Error("Failed to persist last city", err, logger.Fields{"city": city})
	}

	// Requests outlive any caller; there is no cancellation.
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.runCurrent(ctx, cycle, key)
	}()
	go func() {
		defer wg.Done()
		c.runForecast(ctx, cycle, key)
	}()
	go func() {
		wg.Wait()
		close(cycle.done)
	}()

	return cycle
}

// runCurrent fetches current conditions and then chains the air quality request
func (c *Client) runCurrent(ctx context.Context, cycle *Cycle, key string) {
	current, err := c.source.FetchCurrent(ctx, cycle.City, key)
	if err != nil {
		c.log.Error("Current weather fetch failed", err, logger.Fields{"city": cycle.City, "cycle": cycle.ID})
		cycle.record(func(r *CycleResult) { r.Current = BranchResult{Outcome: OutcomeFailed, Err: err} })
		return
	}

	c.model.SetCurrent(cycle.ID, current)
	cycle.record(func(r *CycleResult) { r.Current = BranchResult{Outcome: OutcomeReady} })

	c.log.Info("Current weather updated", logger.Fields{
		"cycle":       cycle.ID,
		"city":        current.City,
		"temperature": current.Temperature,
		"description": current.Description,
		"humidity":    current.Humidity,
		"pressure":    current.Pressure,
		"windSpeed":   current.WindSpeed,
		"icon":        current.Icon,
	})

	c.runAirQuality(ctx, cycle, current.Coord, key)
}

func (c *Client) runForecast(ctx context.Context, cycle *Cycle, key string) {
	forecast, err := c.source.FetchForecast(ctx, cycle.City, key)
	if err != nil {
		c.log.Error("Forecast fetch failed", err, logger.Fields{"city": cycle.City, "cycle": cycle.ID})
		cycle.record(func(r *CycleResult) { r.Forecast = BranchResult{Outcome: OutcomeFailed, Err: err} })
		return
	}

	c.model.SetForecast(cycle.ID, forecast)
	cycle.record(func(r *CycleResult) { r.Forecast = BranchResult{Outcome: OutcomeReady} })

	c.log.Info("Forecast updated", logger.Fields{"cycle": cycle.ID, "entries": len(forecast)})
}

func (c *Client) runAirQuality(ctx context.Context, cycle *Cycle, coord models.Coordinates, key string) {
	aq, err := c.source.FetchAirQuality(ctx, coord, key)
	switch {
	case errors.Is(err, fetchers.ErrEmptyAirQuality):
		c.log.Info("No air quality reading, keeping previous value", logger.Fields{"cycle": cycle.ID})
		cycle.record(func(r *CycleResult) { r.AirQuality = BranchResult{Outcome: OutcomeSkipped} })
		return
	case err != nil:
		c.log.Error("Air quality fetch failed", err, logger.Fields{
			"cycle": cycle.ID,
			"lat":   coord.Lat,
			"lon":   coord.Lon,
		})
		cycle.record(func(r *CycleResult) { r.AirQuality = BranchResult{Outcome: OutcomeFailed, Err: err} })
		return
	}

	c.model.SetAirQuality(cycle.ID, aq)
	cycle.record(func(r *CycleResult) { r.AirQuality = BranchResult{Outcome: OutcomeReady} })

	c.log.Info("Air quality updated", logger.Fields{"cycle": cycle.ID, "aqi": aq.Index, "category": aq.Category})

	if c.log.Enabled(logger.DEBUG) {
		fields := logger.Fields{"cycle": cycle.ID}
		for k, v := range aq.Pollutants.AsMap() {
			fields[k] = v
		}
		c.log.Debug("Pollutant concentrations", fields)
	}
}
