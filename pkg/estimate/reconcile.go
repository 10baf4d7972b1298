package estimate

import (
	"math"
	"time"

	"golang.org/x/text/message"
)

const (
	// TimeTolerance is the allowed gap between two time bearing candidates.
	TimeTolerance = time.Hour
	// DateTolerance is the allowed gap when either candidate is date only.
	// Noon normalisation can put a date-only candidate half a day away from
	// a correct time bearing one.
	DateTolerance = 24 * time.Hour

	mediumAgreement = 0.7
)

// Consistency summarises how well all candidates agree.
type Consistency string

const (
	ConsistencyNone   Consistency = "none"
	ConsistencyHigh   Consistency = "high"
	ConsistencyMedium Consistency = "medium"
	ConsistencyLow    Consistency = "low"
)

// Method records which rule selected the best estimate.
type Method string

const (
	MethodNone        Method = "none"
	MethodOriginal    Method = "metadata_original"
	MethodConsensus   Method = "consensus"
	MethodReliability Method = "reliability"
)

// Conflict is a pair of candidates further apart than their tolerance.
type Conflict struct {
	First  Candidate `json:"first"`
	Second Candidate `json:"second"`
	// Difference is Second.Time minus First.Time.
	Difference time.Duration `json:"difference"`
	Formatted  string        `json:"difference_formatted"`
}

// Abs returns the absolute time difference of the pair.
func (c Conflict) Abs() time.Duration {
	return absDuration(c.Difference)
}

// Analysis describes pairwise agreement between candidates.
type Analysis struct {
	Consistency Consistency `json:"consistency"`
	Conflicts   []Conflict  `json:"conflicts"`
	// Agreement is the share of candidate pairs that do not conflict.
	Agreement   float64 `json:"agreement"`
	HasTimeInfo bool    `json:"has_time_info"`
}

// Result is the outcome of one estimation.
type Result struct {
	Sources  []Candidate `json:"sources"`
	Analysis Analysis    `json:"analysis"`

	// Estimated is nil when no candidate exists.
	Estimated *time.Time `json:"estimated"`
	Method    Method     `json:"method"`

	// Confidence is in [0, 1]. It composes independent boosts multiplicatively
	// and is a heuristic score, not a calibrated probability.
	Confidence float64   `json:"confidence"`
	Warnings   []Warning `json:"warnings"`

	// Offset is the metadata UTC offset, if any. No conversion is applied.
	Offset string `json:"offset,omitempty"`
}

// Reconcile analyses candidates, which must already be sorted the way Collect
// sorts them, and selects the best estimate.
func (e *Estimator) Reconcile(candidates []Candidate) *Result {
	p := newPrinter(e.lang)

	analysis := analyze(p, candidates)
	best, method, ok := selectBest(candidates, analysis)

	result := &Result{
		Sources:  candidates,
		Analysis: analysis,
		Method:   method,
		Warnings: warnings(p, candidates, analysis),
	}
	if ok {
		t := best.Time
		result.Estimated = &t
		result.Confidence = confidence(candidates, analysis, best)
	}
	return result
}

func tolerance(a, b Candidate) time.Duration {
	if a.HasTime && b.HasTime {
		return TimeTolerance
	}
	return DateTolerance
}

func analyze(p *message.Printer, cs []Candidate) Analysis {
	a := Analysis{Agreement: 1}
	if len(cs) == 0 {
		a.Consistency = ConsistencyNone
		return a
	}

	for _, c := range cs {
		if c.HasTime {
			a.HasTimeInfo = true
			break
		}
	}

	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			diff := cs[j].Time.Sub(cs[i].Time)
			if absDuration(diff) <= tolerance(cs[i], cs[j]) {
				continue
			}
			a.Conflicts = append(a.Conflicts, Conflict{
				First:      cs[i],
				Second:     cs[j],
				Difference: diff,
				Formatted:  formatDuration(p, diff),
			})
		}
	}

	pairs := len(cs) * (len(cs) - 1) / 2
	if pairs > 0 {
		a.Agreement = float64(pairs-len(a.Conflicts)) / float64(pairs)
	}

	switch {
	case len(a.Conflicts) == 0:
		a.Consistency = ConsistencyHigh
	case a.Agreement >= mediumAgreement:
		a.Consistency = ConsistencyMedium
	default:
		a.Consistency = ConsistencyLow
	}
	return a
}

func selectBest(cs []Candidate, a Analysis) (Candidate, Method, bool) {
	if len(cs) == 0 {
		return Candidate{}, MethodNone, false
	}

	// Solar cross-checks need a time of day, so date-only candidates are
	// only considered when nothing else exists.
	considered := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		if c.HasTime {
			considered = append(considered, c)
		}
	}
	if len(considered) == 0 {
		considered = cs
	}

	for _, c := range considered {
		if c.Kind == KindOriginal {
			return c, MethodOriginal, true
		}
	}

	if a.Consistency == ConsistencyHigh && len(considered) > 1 {
		if c, ok := consensus(considered); ok {
			return c, MethodConsensus, true
		}
	}

	return considered[0], MethodReliability, true
}

// consensus groups candidates first-fit: each joins the first group whose
// first member is within tolerance, not the closest group. The most reliable
// member of the largest group wins if that group has at least two members.
// Ties go to the later group and the later member.
func consensus(cs []Candidate) (Candidate, bool) {
	var groups [][]Candidate
	for _, c := range cs {
		joined := false
		for i, g := range groups {
			if absDuration(g[0].Time.Sub(c.Time)) <= tolerance(g[0], c) {
				groups[i] = append(g, c)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, []Candidate{c})
		}
	}

	var largest []Candidate
	for _, g := range groups {
		if len(g) >= len(largest) {
			largest = g
		}
	}
	if len(largest) < 2 {
		return Candidate{}, false
	}

	best := largest[0]
	for _, c := range largest[1:] {
		if c.Reliability >= best.Reliability {
			best = c
		}
	}
	return best, true
}

const (
	boostMultipleSources = 1.2
	boostOriginal        = 1.3
	boostTimeInfo        = 1.1
	boostFilenameTime    = 1.15
)

func confidence(cs []Candidate, a Analysis, best Candidate) float64 {
	if len(cs) == 0 {
		return 0
	}

	c := best.Reliability * a.Agreement
	if len(cs) > 1 {
		c *= boostMultipleSources
	}
	if hasKind(cs, KindOriginal) {
		c *= boostOriginal
	}
	if a.HasTimeInfo {
		c *= boostTimeInfo
	}
	if _, ok := filenameWithTime(cs); ok {
		c *= boostFilenameTime
	}
	return math.Min(c, 1)
}

func hasKind(cs []Candidate, kind SourceKind) bool {
	for _, c := range cs {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func filenameWithTime(cs []Candidate) (Candidate, bool) {
	for _, c := range cs {
		if c.Kind == KindFilename && c.HasTime {
			return c, true
		}
	}
	return Candidate{}, false
}
