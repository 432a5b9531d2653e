package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
)

// GoogleGeocoderProvider implements geocode.Reverser with the Google Maps
// Geocoding API. It is used instead of Nominatim when an API key is set.
type GoogleGeocoderProvider struct {
	name    string
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoderProvider configures the geocoder package with apiKey.
// The key is process-global in that package.
func NewGoogleGeocoderProvider(apiKey string) *GoogleGeocoderProvider {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoderProvider{
		name:    "google",
		reverse: geocoder.GeocodingReverse,
	}
}

func (p *GoogleGeocoderProvider) Name() string {
	return p.name
}

func (p *GoogleGeocoderProvider) Reverse(ctx context.Context, coords geo.Coordinates) (geocode.Address, error) {
	type result struct {
		addresses []geocoder.Address
		err       error
	}

	// The geocoder package has no context support, so the lookup runs in
	// its own goroutine and is abandoned if ctx ends first.
	done := make(chan result, 1)
	go func() {
		addresses, err := p.reverse(geocoder.Location{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		})
		done <- result{addresses, err}
	}()

	select {
	case <-ctx.Done():
		return geocode.Address{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return geocode.Address{}, fmt.Errorf("google geocoder: %w", r.err)
		}
		if len(r.addresses) == 0 {
			return geocode.Address{}, geocode.ErrNoAddress
		}
		return geocode.Address{City: r.addresses[0].City}, nil
	}
}
