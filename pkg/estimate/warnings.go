package estimate

import "golang.org/x/text/message"

// Severity grades a warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// WarningKind identifies a warning independent of its localized message.
type WarningKind string

const (
	WarningNoDatetime   WarningKind = "no_datetime"
	WarningInconsistent WarningKind = "inconsistent"
	WarningConflict     WarningKind = "conflict"
	WarningNoOriginal   WarningKind = "no_exif_original"
	WarningMtimeOnly    WarningKind = "file_modified_only"
	WarningDateOnly     WarningKind = "no_time_info"
	WarningFilenameTime WarningKind = "filename_time_extracted"
)

// Warning is a human facing note about the quality of an estimate.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
}

func warnings(p *message.Printer, cs []Candidate, a Analysis) []Warning {
	if len(cs) == 0 {
		return []Warning{{Kind: WarningNoDatetime, Message: p.Sprintf(keyNoDatetime), Severity: SeverityError}}
	}

	var out []Warning
	add := func(kind WarningKind, sev Severity, msg string) {
		out = append(out, Warning{Kind: kind, Message: msg, Severity: sev})
	}

	if a.Consistency == ConsistencyLow {
		add(WarningInconsistent, SeverityWarning, p.Sprintf(keyInconsistent))
	}

	for _, c := range a.Conflicts {
		add(WarningConflict, SeverityWarning, p.Sprintf(keyConflict, c.First.Description, c.Second.Description, c.Formatted))
	}

	if !hasKind(cs, KindOriginal) {
		add(WarningNoOriginal, SeverityInfo, p.Sprintf(keyNoOriginal))
	}

	if len(cs) == 1 && cs[0].Kind == KindMtime {
		add(WarningMtimeOnly, SeverityWarning, p.Sprintf(keyMtimeOnly))
	}

	if !a.HasTimeInfo {
		add(WarningDateOnly, SeverityInfo, p.Sprintf(keyDateOnly))
	}

	if c, ok := filenameWithTime(cs); ok {
		add(WarningFilenameTime, SeverityInfo, p.Sprintf(keyFilenameTime, c.MatchedText))
	}

	return out
}
