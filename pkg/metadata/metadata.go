package metadata

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/quidome/whereshot-go/pkg/geo"
)

// GPS is the recorded position of the camera.
type GPS struct {
	Point geo.Point `json:"point"`
	// Altitude in meters relative to sea level, nil if not recorded.
	Altitude *float64 `json:"altitude,omitempty"`
}

// Camera identifies the device that produced the file.
type Camera struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Lens  string `json:"lens,omitempty"`
}

// Record is the metadata recovered from one file. Nil timestamps were not
// present or could not be parsed.
type Record struct {
	Original  *time.Time `json:"original,omitempty"`
	Digitized *time.Time `json:"digitized,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`
	Offset    string     `json:"offset,omitempty"`

	GPS    *GPS   `json:"gps,omitempty"`
	Camera Camera `json:"camera"`
}

func (r *Record) empty() bool {
	return r.Original == nil && r.Digitized == nil && r.Modified == nil &&
		r.GPS == nil && r.Camera == (Camera{})
}

// Extractor reads embedded metadata from a media stream.
//
// Implementations return (nil, nil) when the stream carries no metadata they
// understand. Errors are reserved for failures reading the stream itself.
type Extractor interface {
	Extract(path string, r io.Reader) (*Record, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(path string, r io.Reader) (*Record, error)

func (f ExtractorFunc) Extract(path string, r io.Reader) (*Record, error) {
	return f(path, r)
}

// Options configures the default extractors.
type Options struct {
	// Location is used for EXIF timestamps, which carry no zone.
	// If nil, time.Local is used.
	Location *time.Location
}

// VideoExtensions are dispatched to the MP4 extractor by Default.
var VideoExtensions = []string{".mp4", ".mov", ".m4v", ".3gp"}

// Default returns an Extractor that reads videos as MP4 and everything else
// as EXIF, chosen by file extension.
func Default(opts Options) Extractor {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	photo := EXIF{Location: loc}
	video := MP4{Location: loc}

	return ExtractorFunc(func(path string, r io.Reader) (*Record, error) {
		ext := strings.ToLower(filepath.Ext(path))
		for _, v := range VideoExtensions {
			if ext == v {
				return video.Extract(path, r)
			}
		}
		return photo.Extract(path, r)
	})
}
