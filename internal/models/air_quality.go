package models

// AQI categories on the provider's 1-5 scale
const (
	AQIGood     = "Good"
	AQIFair     = "Fair"
	AQIModerate = "Moderate"
	AQIPoor     = "Poor"
	AQIVeryPoor = "Very Poor"
	AQIUnknown  = "Unknown"
)

// PollutantKeys lists the component keys in display order
var PollutantKeys = []string{"co", "no", "no2", "o3", "so2", "pm2_5", "pm10", "nh3"}

// Pollutants holds component concentrations in μg/m³
type Pollutants struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// AsMap returns the concentrations keyed by their wire names
func (p Pollutants) AsMap() map[string]float64 {
	return map[string]float64{
		"co":    p.CO,
		"no":    p.NO,
		"no2":   p.NO2,
		"o3":    p.O3,
		"so2":   p.SO2,
		"pm2_5": p.PM25,
		"pm10":  p.PM10,
		"nh3":   p.NH3,
	}
}

// AirQuality is the air pollution snapshot for a location
type AirQuality struct {
	Index      int        `json:"aqi"` // 1-5, 0 when unknown
	Category   string     `json:"aqiCategory"`
	Pollutants Pollutants `json:"pollutants"`
}

// AQICategory maps a provider AQI index to its category name
func AQICategory(index int) string {
	switch index {
	case 1:
		return AQIGood
	case 2:
		return AQIFair
	case 3:
		return AQIModerate
	case 4:
		return AQIPoor
	case 5:
		return AQIVeryPoor
	default:
		return AQIUnknown
	}
}
