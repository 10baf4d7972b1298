package estimate

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quidome/whereshot-go/pkg/filename"
)

// ErrNoEvidence is returned when Estimate is called without a metadata record,
// a filename or a modification time. It signals an integration bug in the
// caller, not uncertain data.
var ErrNoEvidence = eris.New("estimate: no evidence supplied")

// SourceKind describes where a candidate timestamp came from.
type SourceKind string

const (
	KindOriginal  SourceKind = "metadata_original"
	KindDigitized SourceKind = "metadata_digitized"
	KindModified  SourceKind = "metadata_modified"
	KindFilename  SourceKind = "filename_pattern"
	KindMtime     SourceKind = "filesystem_mtime"
)

// Fixed reliability priors per source kind. Filename candidates take the
// reliability of the pattern that matched.
const (
	ReliabilityOriginal  = 0.95
	ReliabilityDigitized = 0.85
	ReliabilityModified  = 0.65
	ReliabilityMtime     = 0.3
)

// Candidate is one piece of evidence about when a photo was taken.
type Candidate struct {
	Kind        SourceKind      `json:"kind"`
	Time        time.Time       `json:"time"`
	Reliability float64         `json:"reliability"`
	HasTime     bool            `json:"has_time"`
	Description string          `json:"description"`
	Format      filename.Format `json:"format,omitempty"`
	MatchedText string          `json:"matched_text,omitempty"`
}

// Signals are the timestamps recovered from embedded metadata.
// A nil field was not present in the file.
type Signals struct {
	Original  *time.Time `json:"original,omitempty"`
	Digitized *time.Time `json:"digitized,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`

	// Offset is the recorded UTC offset, kept for display only.
	Offset string `json:"offset,omitempty"`
}

// Evidence is everything known about one file.
type Evidence struct {
	// Metadata is nil when no metadata record could be read.
	Metadata *Signals
	// Filename is the base name of the file, without directories.
	Filename string
	// ModTime is the filesystem modification time.
	ModTime *time.Time
}

// Options configures an Estimator.
type Options struct {
	// Language selects the language of descriptions and warnings.
	// The zero value means English.
	Language language.Tag

	// Location is used for instants parsed from filenames.
	// If nil, time.Local is used.
	Location *time.Location

	// Now returns the evaluation time for plausibility checks.
	// If nil, time.Now is used.
	Now func() time.Time
}

// Estimator reconciles timestamp evidence into a single estimate.
//
// An Estimator only holds configuration; it is safe for concurrent use.
type Estimator struct {
	lang language.Tag
	loc  *time.Location
	now  func() time.Time
}

// New returns an Estimator configured by opts.
func New(opts Options) *Estimator {
	e := &Estimator{
		lang: resolveLanguage(opts.Language),
		loc:  opts.Location,
		now:  opts.Now,
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Estimate runs a default Estimator over ev.
func Estimate(ev Evidence) (*Result, error) {
	return New(Options{}).Estimate(ev)
}

// Language returns the resolved message language.
func (e *Estimator) Language() language.Tag {
	return e.lang
}

// Estimate collects candidates from ev and reconciles them.
//
// Uncertain or contradictory evidence never produces an error; it is reported
// through the result's confidence and warnings.
func (e *Estimator) Estimate(ev Evidence) (*Result, error) {
	if ev.Metadata == nil && ev.Filename == "" && ev.ModTime == nil {
		return nil, ErrNoEvidence
	}

	now := e.now()
	matches := filename.Extract(ev.Filename, filename.Options{Location: e.loc, Now: now})

	candidates := e.collect(ev.Metadata, matches, ev.ModTime, now)
	result := e.Reconcile(candidates)
	if ev.Metadata != nil {
		result.Offset = ev.Metadata.Offset
	}
	return result, nil
}

// Collect builds the sorted candidate list from metadata signals, filename
// matches and the modification time. Metadata timestamps outside the plausible
// window are dropped.
func (e *Estimator) Collect(meta *Signals, matches []filename.Match, mtime *time.Time) []Candidate {
	return e.collect(meta, matches, mtime, e.now())
}

func (e *Estimator) collect(meta *Signals, matches []filename.Match, mtime *time.Time, now time.Time) []Candidate {
	p := newPrinter(e.lang)
	var out []Candidate

	if meta != nil {
		fields := []struct {
			kind        SourceKind
			t           *time.Time
			reliability float64
			key         string
		}{
			{KindOriginal, meta.Original, ReliabilityOriginal, keyDescOriginal},
			{KindDigitized, meta.Digitized, ReliabilityDigitized, keyDescDigitized},
			{KindModified, meta.Modified, ReliabilityModified, keyDescModified},
		}
		for _, f := range fields {
			if f.t == nil || !filename.Plausible(*f.t, now) {
				continue
			}
			out = append(out, Candidate{
				Kind:        f.kind,
				Time:        *f.t,
				Reliability: f.reliability,
				HasTime:     true,
				Description: p.Sprintf(f.key),
			})
		}
	}

	for _, m := range matches {
		out = append(out, Candidate{
			Kind:        KindFilename,
			Time:        m.Time,
			Reliability: m.Reliability,
			HasTime:     m.HasTime,
			Description: p.Sprintf(keyDescFilename, string(m.Format)),
			Format:      m.Format,
			MatchedText: m.MatchedText,
		})
	}

	if mtime != nil {
		out = append(out, Candidate{
			Kind:        KindMtime,
			Time:        *mtime,
			Reliability: ReliabilityMtime,
			HasTime:     true,
			Description: p.Sprintf(keyDescMtime),
		})
	}

	sortCandidates(out)
	return out
}

// sortCandidates orders time bearing candidates first, then by descending
// reliability. Equal candidates keep their collection order.
func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].HasTime != cs[j].HasTime {
			return cs[i].HasTime
		}
		return cs[i].Reliability > cs[j].Reliability
	})
}

// Label returns the candidate description with a precision suffix.
func (e *Estimator) Label(c Candidate) string {
	return label(newPrinter(e.lang), c)
}

func label(p *message.Printer, c Candidate) string {
	if c.HasTime {
		return p.Sprintf(keyWithTime, c.Description)
	}
	return p.Sprintf(keyDateOnlyLabel, c.Description)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
