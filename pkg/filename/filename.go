package filename

import (
	"sort"
	"strconv"
	"time"
)

const (
	// MinYear is the earliest year a recovered timestamp may fall in.
	MinYear = 1990
	// FutureSkew is how far past the evaluation time a timestamp may lie.
	FutureSkew = 7 * 24 * time.Hour
	// SameInstant is the distance under which two matches are the same evidence.
	SameInstant = time.Minute
)

// Match is one timestamp recovered from a filename.
type Match struct {
	Time        time.Time `json:"time"`
	Format      Format    `json:"format"`
	Reliability float64   `json:"reliability"`
	HasTime     bool      `json:"has_time"`
	MatchedText string    `json:"matched_text"`
}

// Options configures Extract.
type Options struct {
	// Location is used to build instants, since filenames carry no timezone.
	// If nil, time.Local is used.
	Location *time.Location

	// Now is the evaluation time for the plausibility window.
	// If zero, time.Now() is used.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Extract returns every plausible timestamp embedded in name, one per distinct
// instant, sorted by descending reliability. A name without a date yields nil.
func Extract(name string, opts Options) []Match {
	loc := opts.location()
	now := opts.now()

	var matches []Match
	for _, p := range catalogue {
		for _, idx := range p.findAll(name) {
			groups := submatches(name, idx)
			t, ok := p.build(groups, loc)
			if !ok || !Plausible(t, now) {
				continue
			}
			matches = append(matches, Match{
				Time:        t,
				Format:      p.Format,
				Reliability: p.Reliability,
				HasTime:     p.Layout.HasTime(),
				MatchedText: name[idx[0]:idx[1]],
			})
		}
	}

	return dedupe(matches)
}

// Plausible reports whether t can be a real capture time when evaluated at now:
// its year lies in [MinYear, now.Year()+1] and it is at most FutureSkew ahead of now.
func Plausible(t, now time.Time) bool {
	year := t.Year()
	if year < MinYear || year > now.Year()+1 {
		return false
	}
	return !t.After(now.Add(FutureSkew))
}

func submatches(s string, idx []int) []string {
	groups := make([]string, 0, len(idx)/2-1)
	for i := 2; i+1 < len(idx); i += 2 {
		if idx[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, s[idx[i]:idx[i+1]])
	}
	return groups
}

func (p Pattern) build(groups []string, loc *time.Location) (time.Time, bool) {
	switch p.Layout {
	case LayoutUnixSeconds:
		n, ok := atoi64(group(groups, 0))
		if !ok {
			return time.Time{}, false
		}
		return time.Unix(n, 0).In(loc), true
	case LayoutUnixMillis:
		n, ok := atoi64(group(groups, 0))
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(n).In(loc), true
	}

	fields := [6]int{}
	for i := range fields {
		s := group(groups, i)
		if s == "" {
			// Missing hour, minute or second default to zero.
			if i < 3 {
				return time.Time{}, false
			}
			continue
		}
		n, ok := atoi(s)
		if !ok {
			return time.Time{}, false
		}
		fields[i] = n
	}
	if p.Layout == LayoutDate {
		fields[3], fields[4], fields[5] = 12, 0, 0
	}

	return calendarDate(fields, loc)
}

// calendarDate builds an instant and rejects values time.Date would normalise,
// such as month 13 or 25 o'clock.
func calendarDate(f [6]int, loc *time.Location) (time.Time, bool) {
	y, mo, d, h, mi, s := f[0], f[1], f[2], f[3], f[4], f[5]
	if mo < 1 || mo > 12 || d < 1 || h > 23 || mi > 59 || s > 59 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, h, mi, s, 0, loc)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func dedupe(matches []Match) []Match {
	if len(matches) == 0 {
		return nil
	}

	unique := make([]Match, 0, len(matches))
	for _, m := range matches {
		existing := -1
		for i, u := range unique {
			if absDuration(u.Time.Sub(m.Time)) < SameInstant {
				existing = i
				break
			}
		}
		switch {
		case existing < 0:
			unique = append(unique, m)
		case m.Reliability > unique[existing].Reliability:
			unique[existing] = m
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Reliability > unique[j].Reliability
	})
	return unique
}

func group(groups []string, i int) string {
	if i >= len(groups) {
		return ""
	}
	return groups[i]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func atoi64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
