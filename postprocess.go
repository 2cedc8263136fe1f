package linediff

// normalizeRuns reorders every maximal run of non-Equal edits so that all
// deletions come before all insertions. The relative order of deletions, and
// of insertions, is preserved. Equal edits are never moved.
//
// For example, Insert(x) Delete(a) Insert(y) Delete(b) becomes
// Delete(a) Delete(b) Insert(x) Insert(y).
func normalizeRuns(edits []Edit) []Edit {
	if len(edits) == 0 {
		return nil
	}

	result := make([]Edit, 0, len(edits))
	i := 0
	for i < len(edits) {
		if edits[i].Op == Equal {
			result = append(result, edits[i])
			i++
			continue
		}

		start := i
		for i < len(edits) && edits[i].Op != Equal {
			i++
		}
		run := edits[start:i]
		result = appendOfType(result, run, Delete)
		result = appendOfType(result, run, Insert)
	}
	return result
}

// appendOfType appends the edits of run having the given op to dst.
func appendOfType(dst, run []Edit, op Op) []Edit {
	for _, e := range run {
		if e.Op == op {
			dst = append(dst, e)
		}
	}
	return dst
}

// countOps returns the number of insertions and deletions in edits.
func countOps(edits []Edit) (insertions, deletions int) {
	for _, e := range edits {
		switch e.Op {
		case Insert:
			insertions++
		case Delete:
			deletions++
		}
	}
	return insertions, deletions
}

// hasChanges reports whether edits contain any insertion or deletion.
func hasChanges(edits []Edit) bool {
	for _, e := range edits {
		if e.Op != Equal {
			return true
		}
	}
	return false
}
