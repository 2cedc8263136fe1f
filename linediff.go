// Package linediff compares two texts line by line and describes the
// differences for humans and for tools.
//
// A comparison splits both texts into lines, computes an edit script with
// patience diff, and groups the changes into hunks with surrounding context.
// The resulting Result can be rendered as an annotated report with line
// numbers and optional colour, or as a unified patch that patch(1) applies:
//
//	r := linediff.Compare(want, got, linediff.DefaultOptions())
//	if !r.IsEmpty() {
//		fmt.Print(r.Annotated(linediff.AnnotateOptions{}))
//	}
//
// Lines compare exactly: two lines are equal only when both their content and
// the presence of a trailing newline match. CRLF line endings are read as LF.
//
// The histogram algorithm is provided by github.com/dacharyc/diffx and the
// Myers algorithm by github.com/sergi/go-diff.
package linediff

// Options configures a comparison.
type Options struct {
	// ContextLines is the number of unchanged lines shown around each change.
	// Negative values are treated as 0.
	ContextLines int

	// Algorithm selects the diff engine. The zero value selects Patience.
	Algorithm Algorithm
}

// DefaultOptions returns Options with default settings.
func DefaultOptions() Options {
	return Options{
		ContextLines: DefaultContextLines,
		Algorithm:    Patience,
	}
}

// Stats summarises a comparison.
type Stats struct {
	ExpectedLines int  // lines in the expected text
	ActualLines   int  // lines in the actual text
	Hunks         int  // number of hunks
	Insertions    int  // lines only in the actual text
	Deletions     int  // lines only in the expected text
	ExpectedEmpty bool // expected text has no lines
	ActualEmpty   bool // actual text has no lines
}

// Result is the outcome of a comparison. It is immutable and safe to share
// between goroutines.
type Result struct {
	edits []Edit
	hunks []Hunk
	stats Stats
}

// Compare compares two texts. It never fails.
func Compare(expected, actual string, opts Options) Result {
	return compareLines(SplitLines(expected), SplitLines(actual), opts)
}

// CompareLines compares two sequences of already split lines. Every element is
// treated as a newline-terminated line.
func CompareLines(expected, actual []string, opts Options) Result {
	return compareLines(LinesFromStrings(expected), LinesFromStrings(actual), opts)
}

func compareLines(expected, actual []Line, opts Options) Result {
	edits := diffLines(expected, actual, opts.Algorithm)
	hunks := BuildHunks(edits, opts.ContextLines)
	ins, del := countOps(edits)
	return Result{
		edits: edits,
		hunks: hunks,
		stats: Stats{
			ExpectedLines: len(expected),
			ActualLines:   len(actual),
			Hunks:         len(hunks),
			Insertions:    ins,
			Deletions:     del,
			ExpectedEmpty: len(expected) == 0,
			ActualEmpty:   len(actual) == 0,
		},
	}
}

// IsEmpty reports whether the texts were identical.
func (r Result) IsEmpty() bool {
	return len(r.hunks) == 0
}

// Hunks returns a copy of the hunks of the comparison.
func (r Result) Hunks() []Hunk {
	if len(r.hunks) == 0 {
		return nil
	}
	out := make([]Hunk, len(r.hunks))
	for i, h := range r.hunks {
		h.Edits = append([]Edit(nil), h.Edits...)
		out[i] = h
	}
	return out
}

// Edits returns a copy of the complete edit script the hunks were built from.
func (r Result) Edits() []Edit {
	if len(r.edits) == 0 {
		return nil
	}
	return append([]Edit(nil), r.edits...)
}

// Stats returns summary counts for the comparison.
func (r Result) Stats() Stats {
	return r.stats
}
