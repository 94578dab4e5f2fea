package transport

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeEmptyAddressSkipsNetwork(t *testing.T) {
	client := newMockedClient(t)

	c := NewGeocodeClient("https://geo.example.com", client)
	_, err := c.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestGeocode(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://geo\.example\.com/search`,
		httpmock.NewStringResponder(200, `[{"lat":"34.0522","lon":"-118.2437"}]`))

	c := NewGeocodeClient("https://geo.example.com", client)
	coord, err := c.Geocode(context.Background(), "200 N Spring St, Los Angeles")
	require.NoError(t, err)
	assert.InDelta(t, 34.0522, coord.Latitude, 0.0001)
	assert.InDelta(t, -118.2437, coord.Longitude, 0.0001)
}

func TestGeocodeNoResults(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://geo\.example\.com/search`,
		httpmock.NewStringResponder(200, `[]`))

	c := NewGeocodeClient("https://geo.example.com", client)
	_, err := c.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}
