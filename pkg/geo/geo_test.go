package geo_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/quidome/whereshot-go/pkg/geo"
)

var (
	tokyoTower = geo.Point{Lat: 35.6586, Lon: 139.7454}
	skytree    = geo.Point{Lat: 35.7101, Lon: 139.8107}
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, geo.Distance(tokyoTower, tokyoTower), 1e-9)
	// About 8.2 km between the two towers.
	assert.InDelta(t, 8220, geo.Distance(tokyoTower, skytree), 100)
	// One degree of latitude.
	assert.InDelta(t, 111195, geo.Distance(geo.Point{}, geo.Point{Lat: 1}), 1)
	assert.InDelta(t, geo.Distance(tokyoTower, skytree), geo.Distance(skytree, tokyoTower), 1e-6)
}

func TestBearing(t *testing.T) {
	origin := geo.Point{}
	testCases := []struct {
		name     string
		to       geo.Point
		want     float64
		cardinal string
	}{
		{name: "north", to: geo.Point{Lat: 1}, want: 0, cardinal: "N"},
		{name: "east", to: geo.Point{Lon: 1}, want: 90, cardinal: "E"},
		{name: "south", to: geo.Point{Lat: -1}, want: 180, cardinal: "S"},
		{name: "west", to: geo.Point{Lon: -1}, want: 270, cardinal: "W"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := geo.Bearing(origin, tc.to)
			assert.InDelta(t, tc.want, b, 1e-9)
			assert.Equal(t, tc.cardinal, geo.Cardinal(b))
		})
	}

	// Skytree lies north-east of Tokyo Tower.
	assert.Equal(t, "NE", geo.Cardinal(geo.Bearing(tokyoTower, skytree)))
}

func TestCardinal(t *testing.T) {
	testCases := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{11.24, "N"},
		{11.26, "NNE"},
		{45, "NE"},
		{202.5, "SSW"},
		{348.75, "N"},
		{348.74, "NNW"},
		{360, "N"},
		{-90, "W"},
		{720 + 135, "SE"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, geo.Cardinal(tc.bearing), "bearing %v", tc.bearing)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := geo.ParsePoint(" 35.6586 , 139.7454 ")
	require.NoError(t, err)
	assert.Equal(t, tokyoTower, p)

	for _, in := range []string{"", "35.6", "abc,1", "1,abc", "91,0", "0,181"} {
		_, err := geo.ParsePoint(in)
		assert.True(t, errors.Is(err, geo.ErrInvalidPoint), "input %q: %v", in, err)
	}
}

func TestDMS(t *testing.T) {
	d := geo.ToDMS(35.6586, true)
	assert.Equal(t, 35, d.Degrees)
	assert.Equal(t, 39, d.Minutes)
	assert.InDelta(t, 30.96, d.Seconds, 1e-9)
	assert.Equal(t, `35°39'30.96"N`, d.String())

	assert.Equal(t, `0°30'0.00"W`, geo.ToDMS(-0.5, false).String())
	// 59.999 seconds round up and carry into the minute.
	assert.Equal(t, `10°1'0.00"E`, geo.ToDMS(10+59.999/3600, false).String())

	assert.InDelta(t, 35.6586, geo.FromDMS(35, 39, 30.96, "N"), 1e-9)
	assert.InDelta(t, -139.7454, geo.FromDMS(139, 44, 43.44, "W"), 1e-9)
	assert.InDelta(t, -33.5, geo.FromDMS(-33, 30, 0, "S"), 1e-9)

	assert.Equal(t, `35°39'30.96"N, 139°44'43.44"E`, geo.FormatDMS(tokyoTower))
}

func TestEWKBRoundTrip(t *testing.T) {
	alt := 333.0

	data, err := geo.EncodeEWKB(tokyoTower, &alt)
	require.NoError(t, err)
	p, gotAlt, err := geo.DecodeEWKB(data)
	require.NoError(t, err)
	assert.InDelta(t, tokyoTower.Lat, p.Lat, 1e-12)
	assert.InDelta(t, tokyoTower.Lon, p.Lon, 1e-12)
	require.NotNil(t, gotAlt)
	assert.InDelta(t, alt, *gotAlt, 1e-12)

	data, err = geo.EncodeEWKB(skytree, nil)
	require.NoError(t, err)
	_, gotAlt, err = geo.DecodeEWKB(data)
	require.NoError(t, err)
	assert.Nil(t, gotAlt)

	_, _, err = geo.DecodeEWKB([]byte{0x01})
	assert.Error(t, err)
}

func TestFeatureGeoJSON(t *testing.T) {
	f := geo.Feature("IMG_0001.jpg", tokyoTower, nil, map[string]interface{}{"confidence": 0.9})
	data, err := json.Marshal(geo.FeatureCollection([]*geojson.Feature{f}))
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	// GeoJSON orders longitude first.
	assert.Equal(t, []float64{tokyoTower.Lon, tokyoTower.Lat}, decoded.Features[0].Geometry.Coordinates)
	assert.Equal(t, 0.9, decoded.Features[0].Properties["confidence"])
}
