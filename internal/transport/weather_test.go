package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shootDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestConditionName(t *testing.T) {
	assert.Equal(t, "Clear", ConditionName(0))
	assert.Equal(t, "Rain", ConditionName(63))
	assert.Equal(t, "Thunderstorm", ConditionName(95))
	assert.Equal(t, "Unknown", ConditionName(42))
	assert.Equal(t, "Unknown", ConditionName(-1))
}

func TestWeatherForecast(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://weather\.example\.com/v1/forecast`,
		httpmock.NewStringResponder(200, `{"daily":{
			"weathercode":[61],
			"temperature_2m_max":[14.2],
			"temperature_2m_min":[6.5],
			"relative_humidity_2m_max":[81],
			"windspeed_10m_max":[19.4],
			"sunrise":["2026-03-02T06:41"],
			"sunset":["2026-03-02T17:55"]}}`))

	c := NewWeatherClient("https://weather.example.com", "key", client)
	fc, err := c.Forecast(context.Background(), 34.0522, -118.2437, shootDate)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", fc.Date)
	assert.Equal(t, "Light Rain", fc.Condition)
	assert.InDelta(t, 14.2, fc.HighTempC, 0.001)
	assert.InDelta(t, 6.5, fc.LowTempC, 0.001)
	assert.Equal(t, 81, fc.Humidity)
	assert.InDelta(t, 19.4, fc.WindSpeed, 0.001)
	assert.Equal(t, 6, fc.Sunrise.Hour())
	assert.Equal(t, 41, fc.Sunrise.Minute())
}

// Missing fields degrade to zero values and an Unknown condition; sun
// times fall back to the local calculation.
func TestWeatherForecastDegradesMissingFields(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://weather\.example\.com/v1/forecast`,
		httpmock.NewStringResponder(200, `{"daily":{}}`))

	c := NewWeatherClient("https://weather.example.com", "key", client)
	fc, err := c.Forecast(context.Background(), 34.0522, -118.2437, shootDate)
	require.NoError(t, err)

	assert.Equal(t, "Unknown", fc.Condition)
	assert.Zero(t, fc.HighTempC)
	assert.Zero(t, fc.Humidity)
	// Computed locally from the coordinate.
	assert.False(t, fc.Sunrise.IsZero())
	assert.False(t, fc.Sunset.IsZero())
	assert.True(t, fc.Sunrise.Before(fc.Sunset))
}

func TestWeatherForecastCachesPerLocationAndDate(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://weather\.example\.com/v1/forecast`,
		httpmock.NewStringResponder(200, `{"daily":{"weathercode":[0]}}`))

	c := NewWeatherClient("https://weather.example.com", "key", client)
	_, err := c.Forecast(context.Background(), 34.0522, -118.2437, shootDate)
	require.NoError(t, err)
	fc, err := c.Forecast(context.Background(), 34.0522, -118.2437, shootDate)
	require.NoError(t, err)

	assert.Equal(t, "Clear", fc.Condition)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	// A different date is a different cache entry.
	_, err = c.Forecast(context.Background(), 34.0522, -118.2437, shootDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestWeatherForecastServerError(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://weather\.example\.com/v1/forecast`,
		httpmock.NewStringResponder(500, "upstream down"))

	c := NewWeatherClient("https://weather.example.com", "key", client)
	_, err := c.Forecast(context.Background(), 34.0522, -118.2437, shootDate)
	require.Error(t, err)
	assert.Equal(t, transportAttempts, httpmock.GetTotalCallCount())
}
