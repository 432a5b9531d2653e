package widget

import (
	"context"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
)

// ResolveLocation writes "Near <place>" into the location label. When the
// lookup fails or yields no settlement name the label falls back to the
// coordinates with two decimals. It never fails.
func ResolveLocation(ctx context.Context, v *View, reverser geocode.Reverser, coords geo.Coordinates) {
	if v.LocationLabel == nil {
		return
	}

	if reverser != nil {
		addr, err := reverser.Reverse(ctx, coords)
		if err != nil {
			logger := logging.GetFromContext(ctx)
			logger.Warn().Err(err).Str("geocoder", reverser.Name()).Msg("reverse geocoding failed")
		} else if place := addr.Place(); place != "" {
			v.LocationLabel.SetText(fmt.Sprintf("Near %s", place))
			return
		}
	}

	v.LocationLabel.SetText(fmt.Sprintf("Near %s", coords))
}
