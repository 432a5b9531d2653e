package geocode

import (
	"context"
	"errors"

	"github.com/i474232898/weather-widget/internal/common"
	"github.com/i474232898/weather-widget/internal/geo"
)

// ErrNoAddress is returned when the lookup succeeded but yielded no address.
var ErrNoAddress = errors.New("no address for coordinates")

// Address holds the settlement-level fields of a reverse geocoding result.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Hamlet  string `json:"hamlet"`
}

// Place returns the most specific settlement name present, preferring city
// over town over village over hamlet. It is empty when none is set.
func (a Address) Place() string {
	return common.FirstNonEmpty(a.City, a.Town, a.Village, a.Hamlet)
}

// Reverser turns coordinates into an address.
type Reverser interface {
	Name() string
	Reverse(ctx context.Context, coords geo.Coordinates) (Address, error)
}
