package models

// Coordinates is a geographic position in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentConditions is a snapshot of the current weather for one city
type CurrentConditions struct {
	City        string      `json:"city"`
	Temperature int         `json:"temperature"` // °C, rounded
	Description string      `json:"description"`
	Icon        string      `json:"icon"`        // OpenWeatherMap icon code, e.g. "01d"
	Humidity    int         `json:"humidity"`    // %
	Pressure    int         `json:"pressure"`    // hPa
	WindSpeed   float64     `json:"windSpeed"`   // m/s
	Coord       Coordinates `json:"coordinates"` // used to request air quality
}

// ForecastEntry is a single forecast step as delivered by the provider
type ForecastEntry struct {
	Time        string `json:"time"`        // provider's dt_txt, e.g. "2024-05-01 12:00:00"
	Temperature int    `json:"temperature"` // °C, rounded
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// AppSettings is the persisted user configuration
type AppSettings struct {
	APIKey   string `json:"apiKey"`
	LastCity string `json:"lastCity"`
}

// HasAPIKey reports whether credentials are present
func (s AppSettings) HasAPIKey() bool {
	return s.APIKey != ""
}
