package weather

import (
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestDescriptionForKnownCodes(t *testing.T) {
	is := is.New(t)

	is.Equal(len(descriptions), 27)
	for code, want := range descriptions {
		is.Equal(code.Description(), want)
		is.True(code.Known())
	}

	is.Equal(Code(3).Description(), "☁️ Cloudy")
	is.Equal(Code(99).Description(), "⛈️ Severe thunderstorm")
}

func TestDescriptionForUnmappedCodes(t *testing.T) {
	is := is.New(t)

	for n := -5; n < 120; n++ {
		c := Code(n)
		if c.Known() {
			continue
		}
		is.Equal(c.Description(), fmt.Sprintf("Weather code %d", n))
	}
}
