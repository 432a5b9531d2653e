package widget

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Placeholder is shown wherever a value is unknown.
const Placeholder = "--"

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// FormatBearing renders a wind direction as the nearest of eight compass
// points followed by the rounded degrees, e.g. "NE (44°)". NaN and infinite
// input yield Placeholder.
func FormatBearing(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return Placeholder
	}

	normalized := math.Mod(degrees, 360)
	if normalized < 0 {
		normalized += 360
	}
	index := int(roundHalfUp(normalized/45)) % len(compassPoints)

	return fmt.Sprintf("%s (%d°)", compassPoints[index], int64(roundHalfUp(degrees)))
}

// roundHalfUp rounds to the nearest integer, ties toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// timeLayouts are tried in order. Open-Meteo reports local wall time without
// an offset when timezone=auto.
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// FormatUpdatedTime renders a timestamp as a short time of day, e.g.
// "2:45 PM". Empty or unparsable input yields Placeholder; parse failures
// are logged and never returned.
func FormatUpdatedTime(ctx context.Context, timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return Placeholder
	}

	t, err := parseTimestamp(timestamp)
	if err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Warn().Err(err).Str("timestamp", timestamp).Msg("unable to format time")
		return Placeholder
	}

	return t.Format("3:04 PM")
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// 13 digits and up are epoch milliseconds.
		if len(strings.TrimPrefix(s, "-")) >= 13 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
