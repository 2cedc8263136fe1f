package linediff

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summarize renders edits as "=a", "-b", "+c" for compact comparisons.
func summarize(edits []Edit) []string {
	out := make([]string, len(edits))
	for i, e := range edits {
		prefix := map[Op]string{Equal: "=", Delete: "-", Insert: "+"}[e.Op]
		out[i] = prefix + e.Line().Text
	}
	return out
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		actual   []string
		want     []string
	}{
		{
			name: "both empty",
			want: []string{},
		},
		{
			name:   "insert into empty",
			actual: []string{"a", "b"},
			want:   []string{"+a", "+b"},
		},
		{
			name:     "delete everything",
			expected: []string{"a", "b"},
			want:     []string{"-a", "-b"},
		},
		{
			name:     "identical",
			expected: []string{"foo", "bar"},
			actual:   []string{"foo", "bar"},
			want:     []string{"=foo", "=bar"},
		},
		{
			name:     "replace last line with duplicate",
			expected: []string{"foo", "bar"},
			actual:   []string{"foo", "foo"},
			want:     []string{"=foo", "-bar", "+foo"},
		},
		{
			name:     "replace middle line",
			expected: []string{"a", "b", "c"},
			actual:   []string{"a", "x", "c"},
			want:     []string{"=a", "-b", "+x", "=c"},
		},
		{
			name:     "moved unique line",
			expected: []string{"a", "b", "c", "d"},
			actual:   []string{"b", "c", "d", "a"},
			want:     []string{"-a", "=b", "=c", "=d", "+a"},
		},
		{
			// The common prefix and suffix keep the new function in one block.
			name:     "insertion between common prefix and suffix",
			expected: []string{"func a() {", "}", "", "func b() {", "}"},
			actual:   []string{"func a() {", "}", "", "func c() {", "}", "", "func b() {", "}"},
			want: []string{
				"=func a() {", "=}", "=", "+func c() {", "+}", "+", "=func b() {", "=}",
			},
		},
		{
			name:     "unique anchors split the gap",
			expected: []string{"{", "a", "}", "{", "b", "}"},
			actual:   []string{"{", "b", "}", "{", "a", "}"},
			want:     []string{"={", "-a", "+b", "=}", "={", "-b", "+a", "=}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := LinesFromStrings(tt.expected)
			actual := LinesFromStrings(tt.actual)
			got := Diff(expected, actual)
			require.NoError(t, validateEdits(expected, actual, got))
			if diff := cmp.Diff(tt.want, summarize(got)); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffTrailingNewline(t *testing.T) {
	expected := SplitLines("foo\nbar")
	actual := SplitLines("foo\nbar\n")
	got := Diff(expected, actual)

	require.NoError(t, validateEdits(expected, actual, got))
	assert.Equal(t, []string{"=foo", "-bar", "+bar"}, summarize(got))
	assert.False(t, got[1].Expected.Newline)
	assert.True(t, got[2].Actual.Newline)
}

func TestDiffGapWithoutUniqueLines(t *testing.T) {
	a := []string{"x", "y", "x", "y"}
	b := []string{"y", "x", "y", "x"}
	expected := LinesFromStrings(a)
	actual := LinesFromStrings(b)

	got := Diff(expected, actual)
	require.NoError(t, validateEdits(expected, actual, got))
	ins, del := countOps(got)
	assert.Equal(t, 1, ins)
	assert.Equal(t, 1, del)
}

func TestLongestIncreasing(t *testing.T) {
	tests := []struct {
		name    string
		anchors []anchor
		want    []anchor
	}{
		{name: "empty", anchors: nil, want: nil},
		{name: "single", anchors: []anchor{{0, 5}}, want: []anchor{{0, 5}}},
		{
			name:    "already increasing",
			anchors: []anchor{{0, 0}, {1, 1}, {2, 2}},
			want:    []anchor{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name:    "reversed keeps one",
			anchors: []anchor{{0, 2}, {1, 1}, {2, 0}},
			want:    []anchor{{2, 0}},
		},
		{
			name:    "classic",
			anchors: []anchor{{0, 3}, {1, 1}, {2, 4}, {3, 0}, {4, 2}, {5, 5}},
			want:    []anchor{{3, 0}, {4, 2}, {5, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, longestIncreasing(tt.anchors))
		})
	}
}

// randomLines returns n lines drawn from an alphabet of size k.
func randomLines(rng *rand.Rand, n, k int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", rng.Intn(k))
	}
	return out
}

// mutate applies a few random deletions, insertions and replacements.
func mutate(rng *rand.Rand, lines []string, k int) []string {
	out := append([]string(nil), lines...)
	for n := rng.Intn(6); n > 0; n-- {
		pos := 0
		if len(out) > 0 {
			pos = rng.Intn(len(out))
		}
		switch rng.Intn(3) {
		case 0:
			if len(out) > 0 {
				out = append(out[:pos], out[pos+1:]...)
			}
		case 1:
			out = append(out[:pos], append([]string{fmt.Sprintf("line %d", rng.Intn(k))}, out[pos:]...)...)
		default:
			if len(out) > 0 {
				out[pos] = fmt.Sprintf("new %d", rng.Intn(k))
			}
		}
	}
	return out
}

func TestAlgorithmsReconstructInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			for iter := 0; iter < 200; iter++ {
				k := 2 + rng.Intn(20)
				a := randomLines(rng, rng.Intn(40), k)
				b := mutate(rng, a, k)
				if rng.Intn(4) == 0 {
					b = randomLines(rng, rng.Intn(40), k)
				}

				expected := LinesFromStrings(a)
				actual := LinesFromStrings(b)
				edits := diffLines(expected, actual, alg)
				require.NoError(t, validateEdits(expected, actual, edits), "a=%q b=%q", a, b)

				hunks := BuildHunks(edits, 2)
				require.NoError(t, validateHunks(hunks, 2), "a=%q b=%q", a, b)
			}
		})
	}
}

func TestAlgorithmsIdentity(t *testing.T) {
	text := "package main\n\nfunc main() {\n}\n\nfunc main() {\n}"
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			lines := SplitLines(text)
			edits := diffLines(lines, lines, alg)
			assert.False(t, hasChanges(edits))
			assert.Len(t, edits, len(lines))
		})
	}
}

// lcsLength is a quadratic oracle for the length of the longest common subsequence.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func TestPatienceIsMinimalOnUniqueLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 100; iter++ {
		pool := rng.Perm(60)
		a := make([]string, 0, 30)
		for _, n := range pool[:30] {
			a = append(a, fmt.Sprintf("u%d", n))
		}
		b := make([]string, 0, 30)
		for _, n := range rng.Perm(60)[:30] {
			b = append(b, fmt.Sprintf("u%d", n))
		}

		edits := Diff(LinesFromStrings(a), LinesFromStrings(b))
		equal := len(edits)
		ins, del := countOps(edits)
		equal -= ins + del
		assert.Equal(t, lcsLength(a, b), equal, "a=%q b=%q", a, b)
	}
}

func TestPatienceLargeGapFallsBackToMyers(t *testing.T) {
	if testing.Short() {
		t.Skip("large input")
	}
	rng := rand.New(rand.NewSource(3))
	a := randomLines(rng, 2500, 2)
	b := randomLines(rng, 2500, 2)
	expected := LinesFromStrings(a)
	actual := LinesFromStrings(b)

	edits := Diff(expected, actual)
	require.NoError(t, validateEdits(expected, actual, edits))
}

func TestPatienceRepeatedLines(t *testing.T) {
	tests := []struct {
		name             string
		expected, actual string
	}{
		{
			name:     "gap with repeated lines only",
			expected: "a\nd\nd\nd\ne\nc\nc\nb\nc\ne\ne\nc\ne\na\na\nc\nc\ne\nb\nc\na\nb\nd",
			actual:   "d\nd\na\na\ne\nc\ne\na\nd\nd\na\nd\nb\nc\na\nd\na\ne\nd\nc\nb\na\n",
		},
		{
			name:     "alternating lines",
			expected: "x\ny\nx\ny\nx\ny\n",
			actual:   "y\nx\ny\nx\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := SplitLines(tt.expected)
			actual := SplitLines(tt.actual)
			var edits []Edit
			require.NotPanics(t, func() { edits = Diff(expected, actual) })
			require.NoError(t, validateEdits(expected, actual, edits))
		})
	}
}

func TestPatienceFallbackIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for iter := 0; iter < 200; iter++ {
		a := randomLines(rng, rng.Intn(30), 3)
		b := randomLines(rng, rng.Intn(30), 3)
		expected := LinesFromStrings(a)
		actual := LinesFromStrings(b)

		in := newInterner()
		s := newScript(expected, actual)
		p := &patience{a: in.intern(expected), b: in.intern(actual), out: s}
		p.fallback(0, len(a), 0, len(b))

		edits := normalizeRuns(s.edits)
		require.NoError(t, validateEdits(expected, actual, edits), "a=%q b=%q", a, b)
		ins, del := countOps(edits)
		assert.Equal(t, lcsLength(a, b), len(edits)-ins-del, "a=%q b=%q", a, b)
	}
}

func TestDiffIsDeterministic(t *testing.T) {
	a := LinesFromStrings(strings.Split("a b c a b c d e f", " "))
	b := LinesFromStrings(strings.Split("c a b x a b c f e", " "))
	first := Diff(a, b)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Diff(a, b))
	}
}
