package linediff

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareScenarios(t *testing.T) {
	tests := []struct {
		name      string
		expected  []string
		actual    []string
		wantEmpty bool
		wantHunks [][]string
	}{
		{
			name:      "replace with duplicate line",
			expected:  []string{"foo", "bar"},
			actual:    []string{"foo", "foo"},
			wantHunks: [][]string{{"=foo", "-bar", "+foo"}},
		},
		{
			name:      "identical",
			expected:  []string{"foo", "bar"},
			actual:    []string{"foo", "bar"},
			wantEmpty: true,
		},
		{
			name:      "middle line changed",
			expected:  []string{"a", "b", "c"},
			actual:    []string{"a", "x", "c"},
			wantHunks: [][]string{{"=a", "-b", "+x", "=c"}},
		},
		{
			name:      "empty expected",
			expected:  nil,
			actual:    []string{"a", "b"},
			wantHunks: [][]string{{"+a", "+b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CompareLines(tt.expected, tt.actual, DefaultOptions())
			assert.Equal(t, tt.wantEmpty, r.IsEmpty())

			var got [][]string
			for _, h := range r.Hunks() {
				got = append(got, summarize(h.Edits))
			}
			if diff := cmp.Diff(tt.wantHunks, got); diff != "" {
				t.Errorf("hunks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareWithoutContext(t *testing.T) {
	r := CompareLines([]string{"a", "b", "c"}, []string{"a", "x", "c"}, Options{})
	hunks := r.Hunks()
	require.Len(t, hunks, 1)
	assert.Equal(t, []string{"-b", "+x"}, summarize(hunks[0].Edits))
}

func TestCompareMissingTrailingNewline(t *testing.T) {
	r := Compare("foo\nbar", "foo\nbar\n", DefaultOptions())
	require.False(t, r.IsEmpty())

	patch := r.Patch(PatchOptions{})
	want := "--- expected\n" +
		"+++ actual\n" +
		"@@ -1,2 +1,2 @@\n" +
		" foo\n" +
		"-bar\n" +
		`\ No newline at end of file` + "\n" +
		"+bar\n"
	assert.Equal(t, want, patch)
}

func TestCompareIdentity(t *testing.T) {
	texts := []string{
		"",
		"a",
		"a\n",
		"a\r\nb\r\n",
		"\n\n\n",
		strings.Repeat("same\n", 50),
	}
	for _, text := range texts {
		for _, alg := range Algorithms() {
			r := Compare(text, text, Options{ContextLines: 3, Algorithm: alg})
			assert.True(t, r.IsEmpty(), "text %q with %s", text, alg)
			assert.Empty(t, r.Annotated(AnnotateOptions{Color: true}))
			assert.Empty(t, r.Patch(DefaultPatchOptions()))
		}
	}
}

func TestCompareCRLFMatchesLF(t *testing.T) {
	r := Compare("a\r\nb\r\n", "a\nb\n", DefaultOptions())
	assert.True(t, r.IsEmpty())
}

func TestStats(t *testing.T) {
	r := Compare("a\nb\nc\n", "a\nx\ny\nc\n", DefaultOptions())
	assert.Equal(t, Stats{
		ExpectedLines: 3,
		ActualLines:   4,
		Hunks:         1,
		Insertions:    2,
		Deletions:     1,
	}, r.Stats())

	empty := Compare("", "a\n", DefaultOptions())
	assert.True(t, empty.Stats().ExpectedEmpty)
	assert.False(t, empty.Stats().ActualEmpty)
}

func TestResultAccessorsReturnCopies(t *testing.T) {
	r := Compare("a\nb\n", "a\nc\n", DefaultOptions())

	hunks := r.Hunks()
	hunks[0].Edits[0].Expected.Text = "mutated"
	edits := r.Edits()
	edits[0].Op = Delete

	assert.Equal(t, "a", r.Hunks()[0].Edits[0].Expected.Text)
	assert.Equal(t, Equal, r.Edits()[0].Op)
}

func TestResultConcurrentRendering(t *testing.T) {
	r := Compare("a\nb\nc\n", "a\nx\nc\n", DefaultOptions())
	want := r.Annotated(AnnotateOptions{Color: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, r.Annotated(AnnotateOptions{Color: true}))
			assert.NotEmpty(t, r.Patch(DefaultPatchOptions()))
		}()
	}
	wg.Wait()
}

func TestCompareFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/git_show.patch")
	require.NoError(t, err)
	text := string(data)

	lines := strings.Split(text, "\n")
	edited := append([]string(nil), lines...)
	for i := 10; i < len(edited); i += 37 {
		edited[i] = "// edited " + edited[i]
	}
	actual := strings.Join(edited, "\n")

	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			r := Compare(text, actual, Options{ContextLines: 3, Algorithm: alg})
			require.False(t, r.IsEmpty())
			require.NoError(t, validateEdits(SplitLines(text), SplitLines(actual), r.Edits()))
			require.NoError(t, validateHunks(r.Hunks(), 3))

			patches, err := ParsePatch(r.Patch(DefaultPatchOptions()))
			require.NoError(t, err)
			require.Len(t, patches, 1)
			got, err := patches[0].Apply(text)
			require.NoError(t, err)
			assert.Equal(t, actual, got)
		})
	}
}
