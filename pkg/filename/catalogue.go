package filename

import (
	"regexp"
	"strings"
)

// Format identifies the filename convention a match was recognised by.
type Format string

const (
	FormatDateTime          Format = "YYYY-MM-DD HH:MM:SS"
	FormatCompactSeparated  Format = "YYYYMMDD_HHMMSS"
	FormatCompact           Format = "YYYYMMDDHHMMSS"
	FormatIMG               Format = "IMG_YYYYMMDD_HHMMSS"
	FormatDSC               Format = "DSC_YYYYMMDD_HHMMSS"
	FormatVID               Format = "VID_YYYYMMDD_HHMMSS"
	FormatPXL               Format = "PXL_YYYYMMDD_HHMMSSmmm"
	FormatPhoto             Format = "PHOTO_YYYY_MM_DD_HH_MM_SS"
	FormatScreenshot        Format = "Screenshot_YYYY-MM-DD-HH-MM-SS"
	FormatDateHourMinute    Format = "YYYY-MM-DD HH:MM"
	FormatCompactHourMinute Format = "YYYYMMDD_HHMM"
	FormatISO               Format = "ISO_DATETIME"
	FormatDotted            Format = "YYYY-MM-DD HH.MM.SS"
	FormatKanji             Format = "YYYY-MM-DD HH時MM分SS秒"
	FormatDate              Format = "YYYY-MM-DD"
	FormatCompactDate       Format = "YYYYMMDD"
	FormatWhatsApp          Format = "WhatsApp"
	FormatUnix              Format = "Unix_timestamp"
	FormatUnixMillis        Format = "Unix_timestamp_ms"
)

// Layout describes how the capture groups of a pattern map onto an instant.
type Layout int

const (
	// LayoutDateTime captures year, month, day, hour, minute, second.
	LayoutDateTime Layout = iota
	// LayoutDateHourMinute captures year, month, day, hour, minute.
	LayoutDateHourMinute
	// LayoutDate captures year, month, day; the time of day is set to noon.
	LayoutDate
	// LayoutUnixSeconds captures a 10 digit epoch in seconds.
	LayoutUnixSeconds
	// LayoutUnixMillis captures a 13 digit epoch in milliseconds.
	LayoutUnixMillis
)

// HasTime reports whether instants built with this layout carry a time of day.
func (l Layout) HasTime() bool {
	return l != LayoutDate
}

// Pattern is one entry of the filename catalogue.
type Pattern struct {
	Format      Format
	Layout      Layout
	Reliability float64

	expr *regexp.Regexp
	// notFollowedBy rejects a match when the next byte is one of these.
	notFollowedBy string
}

// String returns the regular expression source of the pattern.
func (p Pattern) String() string {
	return p.expr.String()
}

const (
	digits             = "0123456789"
	digitsOrSeparators = "_-" + digits
)

func pattern(format Format, layout Layout, reliability float64, expr string) Pattern {
	return Pattern{
		Format:      format,
		Layout:      layout,
		Reliability: reliability,
		expr:        regexp.MustCompile(`(?i)` + expr),
	}
}

func (p Pattern) guarded(chars string) Pattern {
	p.notFollowedBy = chars
	return p
}

// Time bearing entries come first. Order only affects iteration, not the result set.
var catalogue = []Pattern{
	pattern(FormatDateTime, LayoutDateTime, 0.95, `(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})[_\sT\-](\d{1,2})[_:\-](\d{1,2})[_:\-](\d{1,2})`),
	pattern(FormatCompactSeparated, LayoutDateTime, 0.95, `(\d{4})(\d{2})(\d{2})[_\-\s](\d{2})(\d{2})(\d{2})`),
	pattern(FormatCompact, LayoutDateTime, 0.9, `(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})`),
	pattern(FormatIMG, LayoutDateTime, 0.95, `IMG[_\-\s](\d{4})(\d{2})(\d{2})[_\-\s](\d{2})(\d{2})(\d{2})`),
	pattern(FormatDSC, LayoutDateTime, 0.95, `DSC[_\-\s](\d{4})(\d{2})(\d{2})[_\-\s](\d{2})(\d{2})(\d{2})`),
	pattern(FormatPXL, LayoutDateTime, 0.95, `PXL_(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})\d{3}`),
	pattern(FormatPhoto, LayoutDateTime, 0.9, `PHOTO[_\-\s](\d{4})[_\-](\d{1,2})[_\-](\d{1,2})[_\-\s](\d{1,2})[_\-](\d{1,2})[_\-](\d{1,2})`),
	pattern(FormatScreenshot, LayoutDateTime, 0.9, `Screenshot[_\-\s](\d{4})[_\-](\d{1,2})[_\-](\d{1,2})[_\-\s](\d{1,2})[_\-](\d{1,2})[_\-](\d{1,2})`),
	pattern(FormatDateHourMinute, LayoutDateHourMinute, 0.85, `(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})[_\sT\-](\d{1,2})[_:\-](\d{1,2})`),
	pattern(FormatCompactHourMinute, LayoutDateHourMinute, 0.85, `(\d{4})(\d{2})(\d{2})[_\-\s](\d{2})(\d{2})`).guarded(digits),
	pattern(FormatVID, LayoutDateTime, 0.95, `VID[_\-\s](\d{4})(\d{2})(\d{2})[_\-\s](\d{2})(\d{2})(\d{2})`),
	pattern(FormatISO, LayoutDateTime, 0.95, `(\d{4})[_\-](\d{2})[_\-](\d{2})T(\d{2}):(\d{2}):(\d{2})`),
	pattern(FormatDotted, LayoutDateTime, 0.9, `(\d{4})-(\d{2})-(\d{2})[ _](\d{2})\.(\d{2})\.(\d{2})`),
	pattern(FormatKanji, LayoutDateTime, 0.9, `(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})[_\s](\d{1,2})[時h](\d{1,2})[分m](\d{1,2})[秒s]`),

	pattern(FormatDate, LayoutDate, 0.7, `(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})`).guarded(digitsOrSeparators),
	pattern(FormatCompactDate, LayoutDate, 0.7, `(\d{4})(\d{2})(\d{2})`).guarded(digitsOrSeparators),
	pattern(FormatWhatsApp, LayoutDate, 0.6, `IMG[_\-](\d{4})(\d{2})(\d{2})[_\-]WA`),

	pattern(FormatUnix, LayoutUnixSeconds, 0.8, `(\d{10})`).guarded(digits),
	pattern(FormatUnixMillis, LayoutUnixMillis, 0.8, `(\d{13})`).guarded(digits),
}

// Catalogue returns a copy of the ordered pattern table.
func Catalogue() []Pattern {
	out := make([]Pattern, len(catalogue))
	copy(out, catalogue)
	return out
}

// findAll returns submatch indexes of every match of p in s.
//
// A guarded match that is followed by a forbidden byte is rejected and the
// search resumes one byte after where it started, the way a negative lookahead
// would let the engine move on to the next start position.
func (p Pattern) findAll(s string) [][]int {
	var out [][]int
	for start := 0; start < len(s); {
		loc := p.expr.FindStringSubmatchIndex(s[start:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += start
			}
		}

		if p.notFollowedBy != "" && loc[1] < len(s) && strings.IndexByte(p.notFollowedBy, s[loc[1]]) >= 0 {
			start = loc[0] + 1
			continue
		}

		out = append(out, loc)
		if loc[1] > loc[0] {
			start = loc[1]
		} else {
			start = loc[1] + 1
		}
	}
	return out
}
