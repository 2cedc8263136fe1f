package linediff

import (
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the layout of file timestamps in patch headers.
const TimeFormat = "2006-01-02 15:04:05.000000000 -0700"

// Default file labels of a patch.
const (
	DefaultExpectedLabel = "expected"
	DefaultActualLabel   = "actual"
)

// PatchOptions configures the unified patch renderer.
type PatchOptions struct {
	// ExpectedLabel and ActualLabel name the two sides in the "---" and
	// "+++" headers. Empty labels fall back to "expected" and "actual".
	ExpectedLabel string
	ActualLabel   string

	// ExpectedTime and ActualTime, when non-zero, are appended to the
	// labels after a tab using TimeFormat.
	ExpectedTime time.Time
	ActualTime   time.Time

	// LineOffset is added to every line number in hunk headers.
	LineOffset int
}

// DefaultPatchOptions returns PatchOptions with default settings.
func DefaultPatchOptions() PatchOptions {
	return PatchOptions{
		ExpectedLabel: DefaultExpectedLabel,
		ActualLabel:   DefaultActualLabel,
	}
}

// Patch renders the comparison as a unified diff:
//
//	--- expected
//	+++ actual
//	@@ -1,3 +1,3 @@
//	 a
//	-b
//	+x
//	 c
//
// A line without a trailing newline is followed by the row
// "\ No newline at end of file". Applying the patch to the expected text
// reproduces the actual text. An identical comparison renders as the empty
// string, like diff -u.
func (r Result) Patch(opts PatchOptions) string {
	if r.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- ")
	sb.WriteString(fileLabel(opts.ExpectedLabel, DefaultExpectedLabel, opts.ExpectedTime))
	sb.WriteString("\n+++ ")
	sb.WriteString(fileLabel(opts.ActualLabel, DefaultActualLabel, opts.ActualTime))
	sb.WriteByte('\n')

	for _, h := range r.hunks {
		sb.WriteString(hunkHeader(h, opts.LineOffset))
		sb.WriteByte('\n')
		for _, e := range h.Edits {
			switch e.Op {
			case Equal:
				sb.WriteByte(' ')
			case Delete:
				sb.WriteByte('-')
			case Insert:
				sb.WriteByte('+')
			}
			line := e.Line()
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
			if !line.Newline {
				sb.WriteString(noNewlineMarker)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func fileLabel(label, fallback string, t time.Time) string {
	if label == "" {
		label = fallback
	}
	if t.IsZero() {
		return label
	}
	return label + "\t" + t.Format(TimeFormat)
}

// hunkHeader formats the "@@ -s,l +s,l @@" line of a hunk.
func hunkHeader(h Hunk, offset int) string {
	return "@@ -" + hunkRange(h.ExpectedStart, h.ExpectedLen, offset) +
		" +" + hunkRange(h.ActualStart, h.ActualLen, offset) + " @@"
}

// hunkRange formats one side of a hunk header. Starts are 1-based, except
// that an empty side reports the number of lines preceding it, so an empty
// file is "0,0".
func hunkRange(start, length, offset int) string {
	if length > 0 {
		start++
	}
	return strconv.Itoa(start+offset) + "," + strconv.Itoa(length)
}
