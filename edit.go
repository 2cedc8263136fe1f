package linediff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dacharyc/diffx"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op represents the kind of a single edit.
type Op int

const (
	// Equal indicates the line is present on both sides.
	Equal Op = iota
	// Insert indicates the line exists only on the actual side.
	Insert
	// Delete indicates the line exists only on the expected side.
	Delete
)

// String returns a human-readable representation of the operation.
func (o Op) String() string {
	switch o {
	case Equal:
		return "Equal"
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Edit is one step of an edit script.
//
// Expected is set for Equal and Delete edits, Actual for Equal and Insert
// edits. The unused side is the zero Line.
type Edit struct {
	Op       Op
	Expected Line
	Actual   Line
}

// Line returns the line an edit shows: the actual line for inserts and the
// expected line otherwise.
func (e Edit) Line() Line {
	if e.Op == Insert {
		return e.Actual
	}
	return e.Expected
}

// Algorithm selects the engine used to compute an edit script.
type Algorithm string

const (
	// Patience anchors on lines that are unique on both sides and falls back
	// to a minimal LCS alignment between anchors.
	Patience Algorithm = "patience"
	// Histogram uses diffx's histogram diff over the whole input.
	Histogram Algorithm = "histogram"
	// Myers uses diff-match-patch in line mode.
	Myers Algorithm = "myers"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithms lists the supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{Patience, Histogram, Myers}
}

// ParseAlgorithm converts a name such as "patience" into an Algorithm.
// Matching is case-insensitive; the empty string selects Patience.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", Patience:
		return Patience, nil
	case Histogram:
		return Histogram, nil
	case Myers:
		return Myers, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// script accumulates edits by position, reading lines from both sides.
type script struct {
	expected []Line
	actual   []Line
	edits    []Edit
}

func newScript(expected, actual []Line) *script {
	return &script{
		expected: expected,
		actual:   actual,
		edits:    make([]Edit, 0, max(len(expected), len(actual))),
	}
}

func (s *script) equal(i, j int) {
	s.edits = append(s.edits, Edit{Op: Equal, Expected: s.expected[i], Actual: s.actual[j]})
}

func (s *script) delete(i int) {
	s.edits = append(s.edits, Edit{Op: Delete, Expected: s.expected[i]})
}

func (s *script) insert(j int) {
	s.edits = append(s.edits, Edit{Op: Insert, Actual: s.actual[j]})
}

// applyOps appends diffx operations covering a[:n] and b[:m]. It fails
// without touching the script unless the operations walk both sides in
// order without gaps.
func (s *script) applyOps(ops []diffx.DiffOp, n, m int) error {
	i, j := 0, 0
	for k, op := range ops {
		if op.AStart != i || op.BStart != j {
			return fmt.Errorf("op %d starts at %d,%d, want %d,%d", k, op.AStart, op.BStart, i, j)
		}
		switch op.Type {
		case diffx.Equal:
			if op.AEnd-op.AStart != op.BEnd-op.BStart {
				return fmt.Errorf("op %d: equal ranges differ in length", k)
			}
		case diffx.Delete:
			if op.BEnd != op.BStart {
				return fmt.Errorf("op %d: delete consumes actual lines", k)
			}
		case diffx.Insert:
			if op.AEnd != op.AStart {
				return fmt.Errorf("op %d: insert consumes expected lines", k)
			}
		default:
			return fmt.Errorf("op %d: unknown type %v", k, op.Type)
		}
		i, j = op.AEnd, op.BEnd
	}
	if i != n || j != m {
		return fmt.Errorf("ops cover %d,%d of %d,%d lines", i, j, n, m)
	}

	for _, op := range ops {
		switch op.Type {
		case diffx.Equal:
			for k := 0; k < op.AEnd-op.AStart; k++ {
				s.equal(op.AStart+k, op.BStart+k)
			}
		case diffx.Delete:
			for i := op.AStart; i < op.AEnd; i++ {
				s.delete(i)
			}
		case diffx.Insert:
			for j := op.BStart; j < op.BEnd; j++ {
				s.insert(j)
			}
		}
	}
	return nil
}

// histogram diffs the whole input with diffx's histogram strategy.
// Boundary shifting is left to normalizeRuns.
func (s *script) histogram(a, b []int) {
	ops := diffx.DiffHistogram(idStrings(a), idStrings(b), diffx.WithPostprocessing(false))
	if err := s.applyOps(ops, len(a), len(b)); err != nil {
		s.myers(a, b, 0, 0)
	}
}

// myers diffs a against b with diff-match-patch in line mode. a and b start
// at aOff and bOff in the interned input.
//
// Each interned id is written as its own line so that the line-to-rune
// encoding of diff-match-patch sees exactly one entry per input line.
func (s *script) myers(a, b []int, aOff, bOff int) {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	r1, r2, lineArray := dmp.DiffLinesToRunes(idText(a), idText(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(r1, r2, false), lineArray)

	i, j := aOff, bOff
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < n; k++ {
				s.equal(i, j)
				i++
				j++
			}
		case diffmatchpatch.DiffDelete:
			for k := 0; k < n; k++ {
				s.delete(i)
				i++
			}
		case diffmatchpatch.DiffInsert:
			for k := 0; k < n; k++ {
				s.insert(j)
				j++
			}
		}
	}
}

func idText(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// diffLines computes an edit script with the chosen algorithm. The result
// always lists deletions before insertions inside a change.
func diffLines(expected, actual []Line, alg Algorithm) []Edit {
	in := newInterner()
	a := in.intern(expected)
	b := in.intern(actual)

	s := newScript(expected, actual)
	switch alg {
	case Histogram:
		s.histogram(a, b)
	case Myers:
		s.myers(a, b, 0, 0)
	default:
		p := &patience{a: a, b: b, out: s}
		p.diff(0, len(a), 0, len(b))
	}
	return normalizeRuns(s.edits)
}
