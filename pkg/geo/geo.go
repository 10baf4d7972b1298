package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// EarthRadius is the mean earth radius in meters used for distances.
const EarthRadius = 6371000.0

// ErrInvalidPoint is returned when a coordinate is out of range or malformed.
var ErrInvalidPoint = eris.New("geo: invalid point")

// Point is a WGS84 position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether p is a real position on the globe.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}

// ParsePoint parses "LAT,LON" in decimal degrees.
func ParsePoint(s string) (Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, eris.Wrapf(ErrInvalidPoint, "geo: expected LAT,LON, got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, eris.Wrapf(ErrInvalidPoint, "geo: latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, eris.Wrapf(ErrInvalidPoint, "geo: longitude %q", lonStr)
	}

	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, eris.Wrapf(ErrInvalidPoint, "geo: %s out of range", p)
	}
	return p, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	phi1, phi2 := radians(a.Lat), radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from one point to another,
// in degrees clockwise from true north, in [0, 360).
func Bearing(from, to Point) float64 {
	dLambda := radians(to.Lon - from.Lon)
	phi1, phi2 := radians(from.Lat), radians(to.Lat)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return normalize(degrees(math.Atan2(y, x)))
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

var compass = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// Cardinal names the 16-point compass direction closest to bearing.
func Cardinal(bearing float64) string {
	i := int(math.Round(normalize(bearing)/22.5)) % len(compass)
	return compass[i]
}
