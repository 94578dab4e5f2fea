package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"
)

// weatherCacheTTL bounds how often the same location/date pair hits the
// provider; call sheet screens poll weather freely.
const weatherCacheTTL = 15 * time.Minute

// conditionNames maps the provider's fixed numeric weather codes (WMO
// vocabulary) to display text.  Unrecognized codes render as "Unknown".
var conditionNames = map[int]string{
	0:  "Clear",
	1:  "Mostly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Freezing Fog",
	51: "Light Drizzle",
	53: "Drizzle",
	55: "Heavy Drizzle",
	61: "Light Rain",
	63: "Rain",
	65: "Heavy Rain",
	71: "Light Snow",
	73: "Snow",
	75: "Heavy Snow",
	80: "Rain Showers",
	81: "Heavy Rain Showers",
	82: "Violent Rain Showers",
	95: "Thunderstorm",
	96: "Thunderstorm with Hail",
	99: "Severe Thunderstorm",
}

// ConditionName resolves a numeric weather code to its display text.
func ConditionName(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Unknown"
}

// Forecast is the day-level weather summary shown on a call sheet.
type Forecast struct {
	Date      string    `json:"date"` // "YYYY-MM-DD"
	HighTempC float64   `json:"high_temp_c"`
	LowTempC  float64   `json:"low_temp_c"`
	Condition string    `json:"condition"`
	Humidity  int       `json:"humidity"`
	WindSpeed float64   `json:"wind_speed_kph"`
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
}

// WeatherClient fetches daily forecasts from a JSON weather API and caches
// them per (lat, lon, date) for a short interval.  Malformed or missing
// response fields degrade to zero values rather than failing the fetch.
type WeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
}

// NewWeatherClient constructs a weather client.  A nil httpClient falls
// back to a client with a 15 second timeout.
func NewWeatherClient(baseURL, apiKey string, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &WeatherClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      gocache.New(weatherCacheTTL, 2*weatherCacheTTL),
	}
}

// weatherResponse is the provider's daily forecast shape.
type weatherResponse struct {
	Daily struct {
		WeatherCode []int     `json:"weathercode"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		Humidity    []int     `json:"relative_humidity_2m_max"`
		WindSpeed   []float64 `json:"windspeed_10m_max"`
		Sunrise     []string  `json:"sunrise"`
		Sunset      []string  `json:"sunset"`
	} `json:"daily"`
}

// Forecast returns the forecast for a coordinate on a calendar date.
// Results are cached for weatherCacheTTL; repeated lookups for the same
// call sheet do not hit the provider.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lon float64, date time.Time) (*Forecast, error) {
	day := date.Format("2006-01-02")
	key := fmt.Sprintf("%.4f,%.4f,%s", lat, lon, day)
	if cached, ok := c.cache.Get(key); ok {
		fc := cached.(Forecast)
		return &fc, nil
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("start_date", day)
	q.Set("end_date", day)
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min,relative_humidity_2m_max,windspeed_10m_max,sunrise,sunset")
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	endpoint := c.baseURL + "/v1/forecast?" + q.Encode()

	var payload weatherResponse
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("weather provider returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Unrecoverable(fmt.Errorf("weather provider returned %d", resp.StatusCode))
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return retry.Unrecoverable(fmt.Errorf("decode weather response: %w", err))
		}
		return nil
	}, retry.Attempts(transportAttempts), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	fc := Forecast{Date: day, Condition: "Unknown"}
	d := payload.Daily
	if len(d.WeatherCode) > 0 {
		fc.Condition = ConditionName(d.WeatherCode[0])
	}
	if len(d.TempMax) > 0 {
		fc.HighTempC = d.TempMax[0]
	}
	if len(d.TempMin) > 0 {
		fc.LowTempC = d.TempMin[0]
	}
	if len(d.Humidity) > 0 {
		fc.Humidity = d.Humidity[0]
	}
	if len(d.WindSpeed) > 0 {
		fc.WindSpeed = d.WindSpeed[0]
	}
	if len(d.Sunrise) > 0 {
		fc.Sunrise = parseProviderTime(d.Sunrise[0])
	}
	if len(d.Sunset) > 0 {
		fc.Sunset = parseProviderTime(d.Sunset[0])
	}
	// When the provider omits sun times, compute them locally.
	if fc.Sunrise.IsZero() || fc.Sunset.IsZero() {
		observer := astral.Observer{Latitude: lat, Longitude: lon}
		if sunrise, err := astral.Sunrise(observer, date); err == nil && fc.Sunrise.IsZero() {
			fc.Sunrise = sunrise
		}
		if sunset, err := astral.Sunset(observer, date); err == nil && fc.Sunset.IsZero() {
			fc.Sunset = sunset
		}
	}

	c.cache.Set(key, fc, gocache.DefaultExpiration)
	return &fc, nil
}

// parseProviderTime tolerates the provider's minute-resolution local
// timestamps as well as full RFC 3339; unparseable values degrade to zero.
func parseProviderTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
