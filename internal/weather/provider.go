package weather

import (
	"context"
	"errors"

	"github.com/i474232898/weather-widget/internal/geo"
)

// ErrMissingPayload is returned when a provider answered but the response
// did not carry current conditions.
var ErrMissingPayload = errors.New("weather data missing from response")

// Source abstracts a current-conditions provider (e.g. Open-Meteo).
type Source interface {
	Name() string
	CurrentWeather(ctx context.Context, coords geo.Coordinates) (Current, error)
}
