package weather

import "fmt"

// Code is a WMO weather interpretation code as reported by Open-Meteo.
type Code int

var descriptions = map[Code]string{
	0:  "☀️ Clear",
	1:  "🌤️ Mainly clear",
	2:  "⛅ Partly cloudy",
	3:  "☁️ Cloudy",
	45: "🌫️ Fog",
	48: "🌫️ Depositing rime fog",
	51: "🌦️ Light drizzle",
	53: "🌦️ Moderate drizzle",
	55: "🌦️ Dense drizzle",
	56: "🌧️ Freezing drizzle",
	57: "🌧️ Dense freezing drizzle",
	61: "🌧️ Slight rain",
	63: "🌧️ Moderate rain",
	65: "🌧️ Heavy rain",
	66: "🌧️ Freezing rain",
	67: "🌧️ Heavy freezing rain",
	71: "❄️ Slight snow",
	73: "❄️ Moderate snow",
	75: "❄️ Heavy snow",
	80: "🌦️ Rain showers",
	81: "🌦️ Moderate rain showers",
	82: "🌧️ Violent rain showers",
	85: "❄️ Snow showers",
	86: "❄️ Heavy snow showers",
	95: "⛈️ Thunderstorm",
	96: "⛈️ Thunderstorm with hail",
	99: "⛈️ Severe thunderstorm",
}

// Description returns the emoji and label for the code, or "Weather code n"
// for codes outside the table.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return fmt.Sprintf("Weather code %d", int(c))
}

// Known reports whether the code has a fixed description.
func (c Code) Known() bool {
	_, ok := descriptions[c]
	return ok
}
