package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrEmptyAddress is returned before any network call when the address to
// geocode is blank.
var ErrEmptyAddress = errors.New("address is empty")

// ErrAddressNotFound is returned when the provider yields zero results.
var ErrAddressNotFound = errors.New("address not found")

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodeClient resolves street addresses against a Nominatim-style
// search API.
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodeClient constructs a geocoding client.  A nil httpClient falls
// back to a client with a 15 second timeout.
func NewGeocodeClient(baseURL string, httpClient *http.Client) *GeocodeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &GeocodeClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a coordinate.  A blank address fails
// immediately with ErrEmptyAddress; zero provider results yield
// ErrAddressNotFound.
func (c *GeocodeClient) Geocode(ctx context.Context, address string) (Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinate{}, ErrEmptyAddress
	}

	endpoint := c.baseURL + "/search?format=json&limit=1&q=" + url.QueryEscape(address)
	var results []geocodeResult
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
			return fmt.Errorf("geocoder returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Unrecoverable(fmt.Errorf("geocoder returned %d", resp.StatusCode))
		}
		if err := json.Unmarshal(body, &results); err != nil {
			return retry.Unrecoverable(fmt.Errorf("decode geocoder response: %w", err))
		}
		return nil
	}, retry.Attempts(transportAttempts), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return Coordinate{}, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocode %q: bad latitude %q", address, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocode %q: bad longitude %q", address, results[0].Lon)
	}
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}
