package state

import (
	"sync"
	"time"

	"weatherdesk/internal/models"
)

// Topic identifies an independently observable group of fields
type Topic int

const (
	TopicCurrent Topic = iota
	TopicForecast
	TopicAirQuality
	TopicCredentials
)

// AllTopics lists every topic in declaration order
var AllTopics = []Topic{TopicCurrent, TopicForecast, TopicAirQuality, TopicCredentials}

func (t Topic) String() string {
	switch t {
	case TopicCurrent:
		return "current"
	case TopicForecast:
		return "forecast"
	case TopicAirQuality:
		return "airQuality"
	case TopicCredentials:
		return "credentials"
	default:
		return "unknown"
	}
}

// Event is published after a group has been written
type Event struct {
	Topic Topic
	// CycleID of the fetch that produced the write, empty for credential changes
	CycleID string
	At      time.Time
}

// Snapshot is a consistent read of every exposed field
type Snapshot struct {
	City        string                 `json:"city"`
	Temperature int                    `json:"temperature"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
	Humidity    int                    `json:"humidity"`
	Pressure    int                    `json:"pressure"`
	WindSpeed   float64                `json:"windSpeed"`
	AQI         int                    `json:"aqi"`
	AQICategory string                 `json:"aqiCategory"`
	Pollutants  map[string]float64     `json:"pollutants"`
	Forecast    []models.ForecastEntry `json:"forecast"`
	HasAPIKey   bool                   `json:"hasApiKey"`
}

// Model is the application session's weather state. The weather client
// writes it; presenters read it and subscribe to change events.
type Model struct {
	mu         sync.RWMutex
	current    models.CurrentConditions
	forecast   []models.ForecastEntry
	airQuality models.AirQuality
	hasAPIKey  bool

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		forecast: []models.ForecastEntry{},
		subs:     make(map[*Subscription]struct{}),
	}
}

// SetCurrent replaces the current conditions and notifies TopicCurrent
func (m *Model) SetCurrent(cycleID string, c models.CurrentConditions) {
	m.mu.Lock()
	m.current = c
	m.mu.Unlock()

	m.publish(TopicCurrent, cycleID)
}

// SetForecast replaces the whole forecast and notifies TopicForecast
func (m *Model) SetForecast(cycleID string, entries []models.ForecastEntry) {
	cp := make([]models.ForecastEntry, len(entries))
	copy(cp, entries)

	m.mu.Lock()
	m.forecast = cp
	m.mu.Unlock()

	m.publish(TopicForecast, cycleID)
}

// SetAirQuality replaces the air quality and notifies TopicAirQuality
func (m *Model) SetAirQuality(cycleID string, aq models.AirQuality) {
	m.mu.Lock()
	m.airQuality = aq
	m.mu.Unlock()

	m.publish(TopicAirQuality, cycleID)
}

// SetCredentials records whether an API key is present and notifies TopicCredentials
func (m *Model) SetCredentials(present bool) {
	m.mu.Lock()
	m.hasAPIKey = present
	m.mu.Unlock()

	m.publish(TopicCredentials, "")
}

// Current returns the current conditions
func (m *Model) Current() models.CurrentConditions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Forecast returns a copy of the forecast
func (m *Model) Forecast() []models.ForecastEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make([]models.ForecastEntry, len(m.forecast))
	copy(cp, m.forecast)
	return cp
}

// AirQuality returns the air quality
func (m *Model) AirQuality() models.AirQuality {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.airQuality
}

// HasAPIKey reports whether credentials are present
func (m *Model) HasAPIKey() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasAPIKey
}

// Snapshot returns every exposed field under a single read lock
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	forecast := make([]models.ForecastEntry, len(m.forecast))
	copy(forecast, m.forecast)

	var pollutants map[string]float64
	if m.airQuality.Category != "" {
		pollutants = m.airQuality.Pollutants.AsMap()
	} else {
		pollutants = map[string]float64{}
	}

	return Snapshot{
		City:        m.current.City,
		Temperature: m.current.Temperature,
		Description: m.current.Description,
		Icon:        m.current.Icon,
		Humidity:    m.current.Humidity,
		Pressure:    m.current.Pressure,
		WindSpeed:   m.current.WindSpeed,
		AQI:         m.airQuality.Index,
		AQICategory: m.airQuality.Category,
		Pollutants:  pollutants,
		Forecast:    forecast,
		HasAPIKey:   m.hasAPIKey,
	}
}
