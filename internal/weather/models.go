package weather

import "math"

// Current is the provider's snapshot of present conditions.
type Current struct {
	Temperature float64 // °C
	WeatherCode Code
	WindSpeed   float64 // km/h

	// WindDirection is in degrees. It is NaN when the provider omitted the
	// field or sent something that is not a number.
	WindDirection float64

	// Time is the provider's observation time, passed through unparsed.
	Time string
}

// HasWindDirection reports whether WindDirection holds a usable value.
func (c Current) HasWindDirection() bool {
	return !math.IsNaN(c.WindDirection)
}
