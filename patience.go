package linediff

import (
	"sort"
)

// maxMinimalCells bounds the size of a gap that is aligned with the
// quadratic LCS table. Larger gaps go through diff-match-patch instead.
const maxMinimalCells = 1 << 22

// Diff computes an edit script turning expected into actual using patience diff.
//
// The algorithm is deterministic and total:
//  1. The common prefix and suffix of a range are matched directly.
//  2. Lines that occur exactly once on each side become anchor candidates; the
//     longest run of candidates appearing in the same order on both sides is
//     kept (found by patience sorting).
//  3. The gaps between anchors are diffed recursively.
//  4. A gap without unique lines is aligned with a longest common
//     subsequence, or with diff-match-patch when the gap is too large.
//
// Inside every change, deletions are listed before insertions.
func Diff(expected, actual []Line) []Edit {
	return diffLines(expected, actual, Patience)
}

type patience struct {
	a, b []int
	out  *script
}

// diff emits the edits for a[alo:ahi] against b[blo:bhi].
func (p *patience) diff(alo, ahi, blo, bhi int) {
	for alo < ahi && blo < bhi && p.a[alo] == p.b[blo] {
		p.out.equal(alo, blo)
		alo++
		blo++
	}
	suffix := 0
	for alo < ahi-suffix && blo < bhi-suffix && p.a[ahi-suffix-1] == p.b[bhi-suffix-1] {
		suffix++
	}
	ahi -= suffix
	bhi -= suffix

	switch {
	case alo == ahi:
		for j := blo; j < bhi; j++ {
			p.out.insert(j)
		}
	case blo == bhi:
		for i := alo; i < ahi; i++ {
			p.out.delete(i)
		}
	default:
		anchors := longestIncreasing(uniqueAnchors(p.a[alo:ahi], p.b[blo:bhi]))
		if len(anchors) == 0 {
			p.fallback(alo, ahi, blo, bhi)
			break
		}
		i, j := alo, blo
		for _, an := range anchors {
			p.diff(i, alo+an.a, j, blo+an.b)
			p.out.equal(alo+an.a, blo+an.b)
			i, j = alo+an.a+1, blo+an.b+1
		}
		p.diff(i, ahi, j, bhi)
	}

	for k := 0; k < suffix; k++ {
		p.out.equal(ahi+k, bhi+k)
	}
}

// fallback aligns a gap that has no unique anchors.
func (p *patience) fallback(alo, ahi, blo, bhi int) {
	n, m := ahi-alo, bhi-blo
	if n*m > maxMinimalCells {
		p.out.myers(p.a[alo:ahi], p.b[blo:bhi], alo, blo)
		return
	}

	// lcs[i*(m+1)+j] is the LCS length of a[alo+i:ahi] and b[blo+j:bhi].
	w := m + 1
	lcs := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case p.a[alo+i] == p.b[blo+j]:
				lcs[i*w+j] = lcs[(i+1)*w+j+1] + 1
			case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
				lcs[i*w+j] = lcs[(i+1)*w+j]
			default:
				lcs[i*w+j] = lcs[i*w+j+1]
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case p.a[alo+i] == p.b[blo+j]:
			p.out.equal(alo+i, blo+j)
			i++
			j++
		case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
			p.out.delete(alo + i)
			i++
		default:
			p.out.insert(blo + j)
			j++
		}
	}
	for ; i < n; i++ {
		p.out.delete(alo + i)
	}
	for ; j < m; j++ {
		p.out.insert(blo + j)
	}
}

// longestIncreasing returns the longest subsequence of anchors whose b
// positions strictly increase. Anchors must be ordered by a.
//
// Patience sorting: each anchor goes on the leftmost pile whose top has a
// larger b, remembering the top of the previous pile as its predecessor.
func longestIncreasing(anchors []anchor) []anchor {
	if len(anchors) == 0 {
		return nil
	}

	// tops[k] is the index of the anchor on top of pile k.
	tops := make([]int, 0, len(anchors))
	prev := make([]int, len(anchors))
	for idx, an := range anchors {
		k := sort.Search(len(tops), func(k int) bool {
			return anchors[tops[k]].b > an.b
		})
		if k > 0 {
			prev[idx] = tops[k-1]
		} else {
			prev[idx] = -1
		}
		if k == len(tops) {
			tops = append(tops, idx)
		} else {
			tops[k] = idx
		}
	}

	result := make([]anchor, len(tops))
	for k, idx := len(tops)-1, tops[len(tops)-1]; k >= 0; k-- {
		result[k] = anchors[idx]
		idx = prev[idx]
	}
	return result
}
