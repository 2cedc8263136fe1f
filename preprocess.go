package linediff

import "strconv"

// lineKey identifies a line by the fields that take part in equality.
type lineKey struct {
	text    string
	newline bool
}

// interner assigns a small integer to every distinct line so that the engine
// compares ints instead of strings.
type interner struct {
	ids map[lineKey]int
}

func newInterner() *interner {
	return &interner{ids: make(map[lineKey]int)}
}

// intern returns the id of every line in lines, allocating new ids on first sight.
// Ids are shared between calls, so both sides of a comparison must go through
// the same interner.
func (in *interner) intern(lines []Line) []int {
	out := make([]int, len(lines))
	for i, l := range lines {
		k := lineKey{text: l.Text, newline: l.Newline}
		id, ok := in.ids[k]
		if !ok {
			id = len(in.ids)
			in.ids[k] = id
		}
		out[i] = id
	}
	return out
}

// idStrings renders ids as strings for libraries that diff []string.
// Distinct ids always produce distinct strings.
func idStrings(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}

// anchor is a pair of positions holding the same unique line.
type anchor struct {
	a, b int
}

// uniqueAnchors returns the lines that occur exactly once in a and exactly once
// in b, as position pairs ordered by their position in a.
func uniqueAnchors(a, b []int) []anchor {
	type occurrence struct {
		inA, inB int
		posB     int
	}
	seen := make(map[int]*occurrence, len(a))
	for _, id := range a {
		o := seen[id]
		if o == nil {
			o = &occurrence{}
			seen[id] = o
		}
		o.inA++
	}
	for j, id := range b {
		o := seen[id]
		if o == nil {
			// Lines missing from a can never anchor.
			continue
		}
		o.inB++
		o.posB = j
	}

	var anchors []anchor
	for i, id := range a {
		o := seen[id]
		if o.inA == 1 && o.inB == 1 {
			anchors = append(anchors, anchor{a: i, b: o.posB})
		}
	}
	return anchors
}
