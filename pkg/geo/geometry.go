package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// SRID of WGS84 longitude/latitude.
const SRID = 4326

// Geometry returns p as a go-geom point, with altitude as Z when known.
func Geometry(p Point, altitude *float64) *geom.Point {
	if altitude != nil {
		return geom.NewPointFlat(geom.XYZ, []float64{p.Lon, p.Lat, *altitude}).SetSRID(SRID)
	}
	return geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(SRID)
}

// Feature wraps a point as a GeoJSON feature with the given properties.
func Feature(id string, p Point, altitude *float64, props map[string]interface{}) *geojson.Feature {
	return &geojson.Feature{
		ID:         id,
		Geometry:   Geometry(p, altitude),
		Properties: props,
	}
}

// FeatureCollection bundles features for output.
func FeatureCollection(features []*geojson.Feature) *geojson.FeatureCollection {
	if features == nil {
		features = []*geojson.Feature{}
	}
	return &geojson.FeatureCollection{Features: features}
}

// EncodeEWKB encodes a point as little-endian EWKB for storage.
func EncodeEWKB(p Point, altitude *float64) ([]byte, error) {
	data, err := ewkb.Marshal(Geometry(p, altitude), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode EWKB")
	}
	return data, nil
}

// DecodeEWKB reverses EncodeEWKB. The altitude is nil for 2D points.
func DecodeEWKB(data []byte) (Point, *float64, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return Point{}, nil, eris.Wrap(err, "geo: decode EWKB")
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return Point{}, nil, eris.Wrapf(ErrInvalidPoint, "geo: EWKB holds %T, not a point", g)
	}

	p := Point{Lat: pt.Y(), Lon: pt.X()}
	if pt.Layout().ZIndex() == -1 {
		return p, nil, nil
	}
	alt := pt.Z()
	return p, &alt, nil
}
