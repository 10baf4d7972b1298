package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/quidome/whereshot-go/pkg/analyze"
	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/geo"
	"github.com/quidome/whereshot-go/pkg/store"
)

const timeLayout = "2006-01-02 15:04:05"

// renderer writes human readable reports.
type renderer struct {
	w  io.Writer
	es *estimate.Estimator

	heading *color.Color
	dim     *color.Color
	grades  map[estimate.Grade]*color.Color
	levels  map[estimate.Severity]*color.Color
	failure *color.Color
}

func newRenderer(w io.Writer, es *estimate.Estimator, enabled bool) *renderer {
	r := &renderer{
		w:       w,
		es:      es,
		heading: color.New(color.Bold),
		dim:     color.New(color.FgHiBlack),
		grades: map[estimate.Grade]*color.Color{
			estimate.GradeHigh:   color.New(color.FgGreen),
			estimate.GradeMedium: color.New(color.FgYellow),
			estimate.GradeLow:    color.New(color.FgRed),
		},
		levels: map[estimate.Severity]*color.Color{
			estimate.SeverityError:   color.New(color.FgRed),
			estimate.SeverityWarning: color.New(color.FgYellow),
			estimate.SeverityInfo:    color.New(color.FgCyan),
		},
		failure: color.New(color.FgRed, color.Bold),
	}
	if !enabled {
		for _, c := range r.all() {
			c.DisableColor()
		}
	}
	return r
}

func (r *renderer) all() []*color.Color {
	out := []*color.Color{r.heading, r.dim, r.failure}
	for _, c := range r.grades {
		out = append(out, c)
	}
	for _, c := range r.levels {
		out = append(out, c)
	}
	return out
}

var icons = map[estimate.Severity]string{
	estimate.SeverityError:   "✖",
	estimate.SeverityWarning: "⚠",
	estimate.SeverityInfo:    "ℹ",
}

func formatTime(t *time.Time, offset string) string {
	if t == nil {
		return "-"
	}
	s := t.Format(timeLayout)
	if offset != "" {
		s += " " + offset
	}
	return s
}

func (r *renderer) percent(v float64) string {
	g := estimate.GradeOf(v)
	return r.grades[g].Sprintf("%d%% (%s)", estimate.Percent(v), g)
}

// Report prints the full report for one file.
func (r *renderer) Report(rep *analyze.Report) {
	r.heading.Fprintln(r.w, rep.Path)
	if rep.Error != "" {
		fmt.Fprintf(r.w, "  %s\n", r.failure.Sprint(rep.Error))
		return
	}

	res := rep.Estimate
	fmt.Fprintf(r.w, "  Estimated:   %s %s\n", formatTime(res.Estimated, res.Offset), r.dim.Sprintf("[%s]", res.Method))
	if res.Estimated != nil {
		fmt.Fprintf(r.w, "  Confidence:  %s\n", r.percent(res.Confidence))
	}
	fmt.Fprintf(r.w, "  Consistency: %s\n", res.Analysis.Consistency)

	if len(res.Sources) > 0 {
		fmt.Fprintln(r.w, "  Sources:")
		for _, c := range res.Sources {
			t := c.Time
			fmt.Fprintf(r.w, "    - %s: %s  %s\n", r.es.Label(c), formatTime(&t, ""), r.percent(c.Reliability))
		}
	}

	if gps, ok := rep.Position(); ok {
		loc := geo.FormatDMS(gps.Point)
		if gps.Altitude != nil {
			loc += fmt.Sprintf(" (altitude %.0f m)", *gps.Altitude)
		}
		fmt.Fprintf(r.w, "  Location:    %s\n", loc)
		fmt.Fprintf(r.w, "               %s\n", r.dim.Sprint(gps.Point.String()))
	}
	if d := rep.Direction; d != nil {
		fmt.Fprintf(r.w, "  Direction:   %s %s of %s (%.1f°)\n", formatDistance(d.Distance), d.Cardinal, d.From, d.Bearing)
	}

	if cam := rep.Metadata; cam != nil {
		name := strings.TrimSpace(cam.Camera.Make + " " + cam.Camera.Model)
		if name != "" {
			fmt.Fprintf(r.w, "  Camera:      %s\n", name)
		}
		if cam.Camera.Lens != "" {
			fmt.Fprintf(r.w, "  Lens:        %s\n", cam.Camera.Lens)
		}
	}
	if rep.SHA256 != "" {
		fmt.Fprintf(r.w, "  SHA-256:     %s\n", r.dim.Sprint(rep.SHA256))
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(r.w, "  Warnings:")
		for _, w := range res.Warnings {
			fmt.Fprintf(r.w, "    %s\n", r.levels[w.Severity].Sprintf("%s %s", icons[w.Severity], w.Message))
		}
	}
}

// Line prints a one line summary of a report.
func (r *renderer) Line(rep *analyze.Report) {
	if rep.Error != "" {
		fmt.Fprintf(r.w, "%s\t%s\n", rep.Path, r.failure.Sprint(rep.Error))
		return
	}
	res := rep.Estimate
	if res.Estimated == nil {
		fmt.Fprintf(r.w, "%s\t-\t%s\n", rep.Path, r.levels[estimate.SeverityError].Sprint(res.Method))
		return
	}
	line := fmt.Sprintf("%s\t%s\t%s\t%s", rep.Path, formatTime(res.Estimated, res.Offset), r.percent(res.Confidence), res.Method)
	if rep.DuplicateOf != "" {
		line += "\t" + r.dim.Sprintf("duplicate of %s", rep.DuplicateOf)
	}
	fmt.Fprintln(r.w, line)
}

// Run prints one stored run.
func (r *renderer) Run(run store.Run) {
	failed := fmt.Sprint(run.Failed)
	if run.Failed > 0 {
		failed = r.failure.Sprint(failed)
	}
	fmt.Fprintf(r.w, "%s\t%s\t%s\t%d files\t%s failed\n",
		run.ID, run.CreatedAt.Local().Format(timeLayout), run.Root, run.Files, failed)
}

// Result prints one stored result.
func (r *renderer) Result(res store.Result) {
	if res.Error != "" {
		fmt.Fprintf(r.w, "%s\t%s\n", res.Path, r.failure.Sprint(res.Error))
		return
	}
	where := "-"
	if res.Position != nil {
		where = res.Position.String()
	}
	fmt.Fprintf(r.w, "%s\t%s\t%s\t%s\t%s\n", res.Path, formatTime(res.Estimated, ""), r.percent(res.Confidence), res.Method, where)
}

func formatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return fmt.Sprintf("%.1f km", m/1000)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
