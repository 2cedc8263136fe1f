package linediff

import "fmt"

// validateEdits checks that edits describe a transformation of expected into
// actual and returns an error on the first violation.
func validateEdits(expected, actual []Line, edits []Edit) error {
	i, j := 0, 0
	for k, e := range edits {
		switch e.Op {
		case Equal:
			if !e.Expected.Equal(e.Actual) {
				return fmt.Errorf("edit[%d]: Equal requires Expected==Actual", k)
			}
		case Delete, Insert:
		default:
			return fmt.Errorf("edit[%d]: unknown op %d", k, e.Op)
		}

		if e.Op != Insert {
			if i >= len(expected) {
				return fmt.Errorf("edit[%d]: expected side exhausted", k)
			}
			if !e.Expected.Equal(expected[i]) {
				return fmt.Errorf("edit[%d]: expected line %d is %q, edit has %q", k, i, expected[i].Text, e.Expected.Text)
			}
			i++
		}
		if e.Op != Delete {
			if j >= len(actual) {
				return fmt.Errorf("edit[%d]: actual side exhausted", k)
			}
			if !e.Actual.Equal(actual[j]) {
				return fmt.Errorf("edit[%d]: actual line %d is %q, edit has %q", k, j, actual[j].Text, e.Actual.Text)
			}
			j++
		}

		if k > 0 && e.Op == Delete && edits[k-1].Op == Insert {
			return fmt.Errorf("edit[%d]: Delete follows Insert", k)
		}
	}
	if i != len(expected) {
		return fmt.Errorf("edits cover %d of %d expected lines", i, len(expected))
	}
	if j != len(actual) {
		return fmt.Errorf("edits cover %d of %d actual lines", j, len(actual))
	}
	return nil
}

// validateHunks checks the structure of hunks built with contextLines.
func validateHunks(hunks []Hunk, contextLines int) error {
	for hi, h := range hunks {
		if !hasChanges(h.Edits) {
			return fmt.Errorf("hunk[%d]: no changes", hi)
		}

		var expectedLen, actualLen int
		for _, e := range h.Edits {
			if e.Op != Insert {
				expectedLen++
			}
			if e.Op != Delete {
				actualLen++
			}
		}
		if expectedLen != h.ExpectedLen || actualLen != h.ActualLen {
			return fmt.Errorf("hunk[%d]: lengths %d,%d do not match edits %d,%d",
				hi, h.ExpectedLen, h.ActualLen, expectedLen, actualLen)
		}

		lead := 0
		for lead < len(h.Edits) && h.Edits[lead].Op == Equal {
			lead++
		}
		trail := 0
		for trail < len(h.Edits) && h.Edits[len(h.Edits)-1-trail].Op == Equal {
			trail++
		}
		if lead > contextLines || trail > contextLines {
			return fmt.Errorf("hunk[%d]: %d leading and %d trailing context lines exceed %d", hi, lead, trail, contextLines)
		}

		if hi == 0 {
			continue
		}
		prev := hunks[hi-1]
		if h.ExpectedStart <= prev.ExpectedStart+prev.ExpectedLen || h.ActualStart <= prev.ActualStart+prev.ActualLen {
			return fmt.Errorf("hunk[%d]: overlaps or touches hunk[%d]", hi, hi-1)
		}
		if h.ExpectedStart-(prev.ExpectedStart+prev.ExpectedLen) != h.ActualStart-(prev.ActualStart+prev.ActualLen) {
			return fmt.Errorf("hunk[%d]: gap after hunk[%d] differs between sides", hi, hi-1)
		}
	}
	return nil
}
