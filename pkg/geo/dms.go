package geo

import (
	"fmt"
	"math"
)

// DMS is an unsigned degree/minute/second angle with its hemisphere.
type DMS struct {
	Degrees    int
	Minutes    int
	Seconds    float64
	Hemisphere byte
}

func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.2f\"%c", d.Degrees, d.Minutes, d.Seconds, d.Hemisphere)
}

// FromDMS converts degrees, minutes and seconds to decimal degrees.
// Hemisphere "S" or "W" makes the result negative.
func FromDMS(deg, min, sec float64, hemisphere string) float64 {
	v := math.Abs(deg) + min/60 + sec/3600
	if hemisphere == "S" || hemisphere == "W" {
		v = -v
	}
	return v
}

// ToDMS splits a decimal angle. Seconds are rounded to hundredths and carried
// so the result never shows 60 seconds or 60 minutes.
func ToDMS(decimal float64, latitude bool) DMS {
	d := DMS{Hemisphere: hemisphere(decimal, latitude)}

	centis := int64(math.Round(math.Abs(decimal) * 3600 * 100))
	d.Degrees = int(centis / (3600 * 100))
	centis -= int64(d.Degrees) * 3600 * 100
	d.Minutes = int(centis / (60 * 100))
	centis -= int64(d.Minutes) * 60 * 100
	d.Seconds = float64(centis) / 100
	return d
}

func hemisphere(decimal float64, latitude bool) byte {
	switch {
	case latitude && decimal >= 0:
		return 'N'
	case latitude:
		return 'S'
	case decimal >= 0:
		return 'E'
	default:
		return 'W'
	}
}

// FormatDMS renders p as degree/minute/second latitude and longitude.
func FormatDMS(p Point) string {
	return ToDMS(p.Lat, true).String() + ", " + ToDMS(p.Lon, false).String()
}
