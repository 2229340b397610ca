package fetchers

import (
	"errors"
	"fmt"
	"testing"

	"weatherdesk/internal/models"
)

const delhiCurrent = `{"name":"Delhi","main":{"temp":31.6,"humidity":40,"pressure":1008},"wind":{"speed":3.1},"weather":[{"description":"clear sky","icon":"01d"}],"coord":{"lat":28.6,"lon":77.2}}`

func TestParseCurrent(t *testing.T) {
	got, err := ParseCurrent([]byte(delhiCurrent))
	if err != nil {
		t.Fatalf("ParseCurrent failed: %v", err)
	}

	want := models.CurrentConditions{
		City:        "Delhi",
		Temperature: 32,
		Description: "clear sky",
		Icon:        "01d",
		Humidity:    40,
		Pressure:    1008,
		WindSpeed:   3.1,
		Coord:       models.Coordinates{Lat: 28.6, Lon: 77.2},
	}
	if got != want {
		t.Errorf("ParseCurrent mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParseCurrentRoundsTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		want int
	}{
		{31.6, 32},
		{31.4, 31},
		{31.5, 32},
		{0, 0},
		{-0.4, 0},
		{-0.5, 0},
		{-2.5, -2},
		{-3.5, -3},
		{-2.6, -3},
	}

	for _, tt := range tests {
		body := fmt.Sprintf(`{"main":{"temp":%v}}`, tt.temp)
		got, err := ParseCurrent([]byte(body))
		if err != nil {
			t.Fatalf("ParseCurrent(%s) failed: %v", body, err)
		}
		if got.Temperature != tt.want {
			t.Errorf("temp %v rounded to %d, want %d", tt.temp, got.Temperature, tt.want)
		}
	}
}

func TestParseCurrentLenient(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.CurrentConditions
	}{
		{
			name: "api error payload",
			body: `{"cod":"404","message":"city not found"}`,
			want: models.CurrentConditions{},
		},
		{
			name: "wrong types default to zero",
			body: `{"name":42,"main":{"temp":"hot","humidity":40.5,"pressure":"1008"},"wind":{"speed":null}}`,
			want: models.CurrentConditions{},
		},
		{
			name: "empty weather array",
			body: `{"name":"Oslo","weather":[]}`,
			want: models.CurrentConditions{City: "Oslo"},
		},
		{
			name: "missing coord",
			body: `{"name":"Oslo","main":{"temp":-3.2}}`,
			want: models.CurrentConditions{City: "Oslo", Temperature: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrent([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseCurrent failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRejectsNonObjects(t *testing.T) {
	bodies := []string{"", "not json", "<html>502</html>", "[1,2,3]", `"text"`, "{"}

	for _, body := range bodies {
		if _, err := ParseCurrent([]byte(body)); !errors.Is(err, ErrNotJSONObject) {
			t.Errorf("ParseCurrent(%q) error = %v, want ErrNotJSONObject", body, err)
		}
		if _, err := ParseForecast([]byte(body)); !errors.Is(err, ErrNotJSONObject) {
			t.Errorf("ParseForecast(%q) error = %v, want ErrNotJSONObject", body, err)
		}
		if _, err := ParseAirQuality([]byte(body)); !errors.Is(err, ErrNotJSONObject) {
			t.Errorf("ParseAirQuality(%q) error = %v, want ErrNotJSONObject", body, err)
		}
	}
}

func TestParseForecast(t *testing.T) {
	body := `{"list":[
		{"dt_txt":"2024-05-01 12:00:00","main":{"temp":30.4},"weather":[{"description":"few clouds","icon":"02d"}]},
		{"dt_txt":"2024-05-01 15:00:00","main":{"temp":33.5},"weather":[{"description":"clear sky","icon":"01d"}]},
		{"dt_txt":"2024-05-01 18:00:00","main":{"temp":28.9}},
		7
	]}`

	got, err := ParseForecast([]byte(body))
	if err != nil {
		t.Fatalf("ParseForecast failed: %v", err)
	}

	want := []models.ForecastEntry{
		{Time: "2024-05-01 12:00:00", Temperature: 30, Icon: "02d", Description: "few clouds"},
		{Time: "2024-05-01 15:00:00", Temperature: 34, Icon: "01d", Description: "clear sky"},
		{Time: "2024-05-01 18:00:00", Temperature: 29},
		{},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseForecastEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"list":[]}`, `{"list":"nope"}`} {
		got, err := ParseForecast([]byte(body))
		if err != nil {
			t.Fatalf("ParseForecast(%s) failed: %v", body, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ParseForecast(%s) = %v, want empty non-nil slice", body, got)
		}
	}
}

func TestParseAirQuality(t *testing.T) {
	body := `{"coord":{"lon":77.2,"lat":28.6},"list":[{"main":{"aqi":4},"components":{"co":1201.64,"no":0.5,"no2":41.13,"o3":68.66,"so2":25.51,"pm2_5":78.5,"pm10":120.2,"nh3":12.1},"dt":1714560000}]}`

	got, err := ParseAirQuality([]byte(body))
	if err != nil {
		t.Fatalf("ParseAirQuality failed: %v", err)
	}

	want := models.AirQuality{
		Index:    4,
		Category: "Poor",
		Pollutants: models.Pollutants{
			CO: 1201.64, NO: 0.5, NO2: 41.13, O3: 68.66,
			SO2: 25.51, PM25: 78.5, PM10: 120.2, NH3: 12.1,
		},
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseAirQualityMissingPollutant(t *testing.T) {
	body := `{"list":[{"main":{"aqi":2},"components":{"co":200.3,"pm10":9}}]}`

	got, err := ParseAirQuality([]byte(body))
	if err != nil {
		t.Fatalf("ParseAirQuality failed: %v", err)
	}
	if got.Pollutants.NH3 != 0.0 {
		t.Errorf("Expected nh3 to default to 0, got %v", got.Pollutants.NH3)
	}
	if got.Pollutants.CO != 200.3 || got.Pollutants.PM10 != 9 {
		t.Errorf("Unexpected pollutants %+v", got.Pollutants)
	}
	if got.Category != "Fair" {
		t.Errorf("Expected category Fair, got %s", got.Category)
	}
}

func TestParseAirQualityUnknownIndex(t *testing.T) {
	for _, body := range []string{
		`{"list":[{"main":{"aqi":0}}]}`,
		`{"list":[{"main":{"aqi":9}}]}`,
		`{"list":[{"main":{}}]}`,
		`{"list":[{}]}`,
	} {
		got, err := ParseAirQuality([]byte(body))
		if err != nil {
			t.Fatalf("ParseAirQuality(%s) failed: %v", body, err)
		}
		if got.Category != "Unknown" {
			t.Errorf("ParseAirQuality(%s) category = %s, want Unknown", body, got.Category)
		}
	}
}

func TestParseAirQualityEmptyList(t *testing.T) {
	for _, body := range []string{`{"list":[]}`, `{}`} {
		if _, err := ParseAirQuality([]byte(body)); !errors.Is(err, ErrEmptyAirQuality) {
			t.Errorf("ParseAirQuality(%s) error = %v, want ErrEmptyAirQuality", body, err)
		}
	}
}
