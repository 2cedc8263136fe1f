package linediff

// DefaultContextLines is the number of unchanged lines shown around a change.
const DefaultContextLines = 3

// Hunk is a contiguous window of an edit script containing at least one change.
//
// Starts are zero-based positions in the expected and actual sequences; lengths
// count the lines of each side covered by the hunk.
type Hunk struct {
	ExpectedStart int
	ExpectedLen   int
	ActualStart   int
	ActualLen     int
	Edits         []Edit
}

// Insertions returns the number of Insert edits in the hunk.
func (h Hunk) Insertions() int {
	n, _ := countOps(h.Edits)
	return n
}

// Deletions returns the number of Delete edits in the hunk.
func (h Hunk) Deletions() int {
	_, n := countOps(h.Edits)
	return n
}

// span is a half-open range of edit indices.
type span struct {
	start, end int
}

// BuildHunks groups the changes of an edit script into hunks.
//
// Each run of changes is surrounded by up to contextLines unchanged lines,
// clipped at the ends of the script. Runs separated by at most 2*contextLines
// unchanged lines share a hunk, so separate hunks never overlap or touch.
// A negative contextLines is treated as 0. A script without changes yields nil.
func BuildHunks(edits []Edit, contextLines int) []Hunk {
	if contextLines < 0 {
		contextLines = 0
	}

	groups := groupChanges(edits, contextLines)
	if len(groups) == 0 {
		return nil
	}

	hunks := make([]Hunk, 0, len(groups))
	g := 0
	expectedPos, actualPos := 0, 0
	var cur *Hunk
	for idx, e := range edits {
		if g < len(groups) && idx == groups[g].start {
			hunks = append(hunks, Hunk{ExpectedStart: expectedPos, ActualStart: actualPos})
			cur = &hunks[len(hunks)-1]
		}
		if cur != nil {
			cur.Edits = append(cur.Edits, e)
			if e.Op != Insert {
				cur.ExpectedLen++
			}
			if e.Op != Delete {
				cur.ActualLen++
			}
		}
		if e.Op != Insert {
			expectedPos++
		}
		if e.Op != Delete {
			actualPos++
		}
		if cur != nil && idx == groups[g].end-1 {
			cur = nil
			g++
		}
	}
	return hunks
}

// groupChanges returns the edit ranges covered by each hunk, context included.
func groupChanges(edits []Edit, contextLines int) []span {
	var groups []span
	i := 0
	for i < len(edits) {
		if edits[i].Op == Equal {
			i++
			continue
		}
		start := i
		for i < len(edits) && edits[i].Op != Equal {
			i++
		}
		run := span{start: start, end: i}

		if n := len(groups); n > 0 && run.start-groups[n-1].end <= 2*contextLines {
			groups[n-1].end = run.end
			continue
		}
		groups = append(groups, run)
	}

	for k := range groups {
		groups[k].start = max(0, groups[k].start-contextLines)
		groups[k].end = min(len(edits), groups[k].end+contextLines)
	}
	return groups
}
