package analyze

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/geo"
	"github.com/quidome/whereshot-go/pkg/metadata"
	"github.com/quidome/whereshot-go/pkg/scan"
)

// Options configures File and Batch.
type Options struct {
	// Location is used for timestamps that carry no zone (EXIF and filenames).
	// If nil, time.Local is used.
	Location *time.Location

	// Metadata extracts embedded metadata.
	// If nil, metadata.Default is used.
	Metadata metadata.Extractor

	// Estimator reconciles the evidence.
	// If nil, an English estimator in Location is used.
	Estimator *estimate.Estimator

	// From, when set, adds the distance and bearing from this point to the
	// recorded GPS position.
	From *geo.Point

	// Hash adds the SHA-256 of the file contents to the report.
	Hash bool

	// Concurrency bounds Batch. Values below 1 mean 1.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Metadata == nil {
		o.Metadata = metadata.Default(metadata.Options{Location: o.Location})
	}
	if o.Estimator == nil {
		o.Estimator = estimate.New(estimate.Options{Location: o.Location})
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

// Direction is the great-circle relation from a reference point to the
// photo's position.
type Direction struct {
	From     geo.Point `json:"from"`
	Distance float64   `json:"distance_m"`
	Bearing  float64   `json:"bearing_deg"`
	Cardinal string    `json:"cardinal"`
}

// Report is everything learned about one file.
type Report struct {
	Path    string    `json:"path"`
	Kind    scan.Kind `json:"kind,omitempty"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	SHA256  string    `json:"sha256,omitempty"`

	// Metadata is nil when the file carries none.
	Metadata  *metadata.Record `json:"metadata,omitempty"`
	Estimate  *estimate.Result `json:"estimate,omitempty"`
	Direction *Direction       `json:"direction,omitempty"`

	// DuplicateOf names an identical file in the same batch whose estimate
	// is at least as early. Only set when hashing.
	DuplicateOf string `json:"duplicate_of,omitempty"`

	// Error is set by Batch when the file could not be analyzed.
	Error string `json:"error,omitempty"`
}

// Position returns the recorded GPS position, if any.
func (r *Report) Position() (*metadata.GPS, bool) {
	if r.Metadata == nil || r.Metadata.GPS == nil {
		return nil, false
	}
	return r.Metadata.GPS, true
}

var classifier = scan.NewClassifier(scan.DefaultOptions())

// File analyzes the file at name.
//
// Missing or unreadable metadata is not an error; it only reduces the
// evidence available to the estimator.
func File(fsys fs.FS, name string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	name = path.Clean(name)

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: stat %s", name)
	}
	if info.IsDir() {
		return nil, eris.Wrapf(fs.ErrInvalid, "analyze: %s is a directory", name)
	}

	rep := &Report{
		Path:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if kind, ok := classifier.Kind(name); ok {
		rep.Kind = kind
	}

	rep.Metadata, err = readMetadata(fsys, name, opts.Metadata)
	if err != nil {
		return nil, err
	}

	if opts.Hash {
		if rep.SHA256, err = hashFile(fsys, name); err != nil {
			return nil, err
		}
	}

	rep.Estimate, err = opts.Estimator.Estimate(evidence(name, info.ModTime(), rep.Metadata))
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: estimate %s", name)
	}

	if gps, ok := rep.Position(); ok && opts.From != nil {
		bearing := geo.Bearing(*opts.From, gps.Point)
		rep.Direction = &Direction{
			From:     *opts.From,
			Distance: geo.Distance(*opts.From, gps.Point),
			Bearing:  bearing,
			Cardinal: geo.Cardinal(bearing),
		}
	}

	zap.L().Debug("analyzed file",
		zap.String("path", name),
		zap.Int("sources", len(rep.Estimate.Sources)),
		zap.Float64("confidence", rep.Estimate.Confidence),
	)
	return rep, nil
}

func readMetadata(fsys fs.FS, name string, x metadata.Extractor) (*metadata.Record, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: open %s", name)
	}
	defer f.Close()

	rec, err := x.Extract(name, f)
	if err != nil {
		zap.L().Debug("metadata extraction failed", zap.String("path", name), zap.Error(err))
		return nil, nil
	}
	return rec, nil
}

func hashFile(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", eris.Wrapf(err, "analyze: open %s", name)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", eris.Wrapf(err, "analyze: hash %s", name)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// evidence maps what was read from the file onto estimator inputs. A zero
// modification time means the filesystem did not report one.
func evidence(name string, mtime time.Time, rec *metadata.Record) estimate.Evidence {
	ev := estimate.Evidence{Filename: path.Base(name)}
	if !mtime.IsZero() {
		ev.ModTime = &mtime
	}
	if rec != nil {
		ev.Metadata = &estimate.Signals{
			Original:  rec.Original,
			Digitized: rec.Digitized,
			Modified:  rec.Modified,
			Offset:    rec.Offset,
		}
	}
	return ev
}
