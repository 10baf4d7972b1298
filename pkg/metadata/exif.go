package metadata

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"

	"github.com/quidome/whereshot-go/pkg/geo"
)

func init() {
	exif.RegisterParsers(mknote.All...)
	exif.RegisterParsers(offsetParser{})
}

// exifLayout is the EXIF DateTime format. It carries no zone.
const exifLayout = "2006:01:02 15:04:05"

// Zone offsets of DateTime and DateTimeOriginal, e.g. "+09:00".
const (
	OffsetTime         exif.FieldName = "OffsetTime"
	OffsetTimeOriginal exif.FieldName = "OffsetTimeOriginal"
)

var offsetFields = map[uint16]exif.FieldName{
	0x9010: OffsetTime,
	0x9011: OffsetTimeOriginal,
}

// offsetParser loads the offset tags from the Exif sub-IFD. They postdate the
// goexif field table, which drops unknown tags.
type offsetParser struct{}

func (offsetParser) Parse(x *exif.Exif) error {
	tag, err := x.Get(exif.ExifIFDPointer)
	if err != nil {
		return nil
	}
	off, err := tag.Int64(0)
	if err != nil {
		return nil
	}

	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil
	}
	dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		return nil
	}
	x.LoadTags(dir, offsetFields, false)
	return nil
}

// EXIF extracts metadata from JPEG or TIFF streams.
type EXIF struct {
	Location *time.Location
}

func (e EXIF) Extract(path string, r io.Reader) (*Record, error) {
	x, err := exif.Decode(r)
	if err != nil {
		// Non-critical errors still return the fields that were decoded.
		if x == nil || exif.IsCriticalError(err) {
			zap.L().Debug("metadata: no EXIF data", zap.String("path", path), zap.Error(err))
			return nil, nil
		}
		zap.L().Debug("metadata: partial EXIF data", zap.String("path", path), zap.Error(err))
	}

	loc := e.Location
	if loc == nil {
		loc = time.Local
	}

	rec := &Record{
		Original:  exifTime(x, exif.DateTimeOriginal, loc),
		Digitized: exifTime(x, exif.DateTimeDigitized, loc),
		Modified:  exifTime(x, exif.DateTime, loc),
		Offset:    exifString(x, OffsetTimeOriginal),
		Camera: Camera{
			Make:  exifString(x, exif.Make),
			Model: exifString(x, exif.Model),
			Lens:  exifString(x, exif.LensModel),
		},
		GPS: exifGPS(x),
	}
	if rec.Offset == "" {
		rec.Offset = exifString(x, OffsetTime)
	}

	if rec.empty() {
		return nil, nil
	}
	return rec, nil
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func exifTime(x *exif.Exif, name exif.FieldName, loc *time.Location) *time.Time {
	s := exifString(x, name)
	if s == "" {
		return nil
	}
	// Cameras without a clock write "0000:00:00 00:00:00", which fails here.
	t, err := time.ParseInLocation(exifLayout, s, loc)
	if err != nil {
		return nil
	}
	return &t
}

func exifGPS(x *exif.Exif) *GPS {
	lat, lon, err := x.LatLong()
	if err != nil {
		return nil
	}
	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return nil
	}

	gps := &GPS{Point: p}
	if tag, err := x.Get(exif.GPSAltitude); err == nil {
		if rat, err := tag.Rat(0); err == nil {
			alt, _ := rat.Float64()
			// Reference 1 means below sea level.
			if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
				if v, err := ref.Int(0); err == nil && v == 1 {
					alt = -alt
				}
			}
			gps.Altitude = &alt
		}
	}
	return gps
}
