package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimProvider implements geocode.Reverser on top of the OpenStreetMap
// Nominatim reverse endpoint.
type NominatimProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

// NewNominatimProvider creates a reverse geocoder. Nominatim's usage policy
// requires an identifying User-Agent.
func NewNominatimProvider(client *http.Client, baseURL, userAgent string) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	return &NominatimProvider{
		name:    "nominatim",
		baseURL: strings.TrimRight(baseURL, "/") + "/reverse",
		httpCfg: HTTPClientConfig{
			Client:    client,
			UserAgent: userAgent,
		},
	}
}

func (p *NominatimProvider) Name() string {
	return p.name
}

func (p *NominatimProvider) Reverse(ctx context.Context, coords geo.Coordinates) (geocode.Address, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("zoom", "10")
		values.Set("addressdetails", "1")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, buildRequest)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Address *geocode.Address `json:"address"`
		Error   string           `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return geocode.Address{}, fmt.Errorf("nominatim: decode response: %w", err)
	}

	if payload.Address == nil {
		if payload.Error != "" {
			return geocode.Address{}, fmt.Errorf("%w: %s", geocode.ErrNoAddress, payload.Error)
		}
		return geocode.Address{}, geocode.ErrNoAddress
	}

	return *payload.Address, nil
}
