package linediff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformedPatch is returned when a patch cannot be parsed.
	ErrMalformedPatch = errors.New("malformed patch")
	// ErrPatchMismatch is returned when a patch does not fit the text it is
	// applied to.
	ErrPatchMismatch = errors.New("patch does not apply")
)

// maxPatchLineSize bounds a single line of patch input.
const maxPatchLineSize = 16 * 1024 * 1024

// PatchHunk is a hunk read from a unified diff. Starts and lengths are the
// numbers written in the "@@" header, so starts are 1-based except for an
// empty side.
type PatchHunk struct {
	ExpectedStart int
	ExpectedLen   int
	ActualStart   int
	ActualLen     int
	Edits         []Edit
}

// FilePatch is the part of a unified diff that applies to one file.
type FilePatch struct {
	// ExpectedLabel and ActualLabel are the names from the "---" and "+++"
	// headers, without any timestamp.
	ExpectedLabel string
	ActualLabel   string
	Hunks         []PatchHunk
}

// ParsePatch parses a unified diff held in a string.
func ParsePatch(input string) ([]FilePatch, error) {
	return ReadPatch(strings.NewReader(input))
}

// ReadPatch reads a unified diff as produced by diff -u, git diff or
// Result.Patch. Input may hold several file sections; lines outside of hunks,
// such as git extended headers or commit messages, are skipped.
//
// Hunk bodies are read by the counts of their headers, so removed lines that
// look like "--- " headers are handled correctly. A header with a single
// number ("@@ -3 +3 @@") has a length of 1.
func ReadPatch(r io.Reader) ([]FilePatch, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxPatchLineSize)

	var (
		files    []FilePatch
		current  *FilePatch
		hunk     *PatchHunk
		oldLeft  int
		newLeft  int
		expected int // zero-based index of the next expected line
		actual   int // zero-based index of the next actual line
		lineNum  int
	)

	flushHunk := func() {
		if hunk != nil && current != nil {
			current.Hunks = append(current.Hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
		}
		current = nil
	}
	malformed := func(format string, args ...any) error {
		return fmt.Errorf("line %d: %w: %s", lineNum, ErrMalformedPatch, fmt.Sprintf(format, args...))
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.HasPrefix(line, `\`) {
			if hunk == nil || len(hunk.Edits) == 0 {
				return nil, malformed("no-newline marker outside of a hunk")
			}
			last := &hunk.Edits[len(hunk.Edits)-1]
			switch last.Op {
			case Equal:
				last.Expected.Newline = false
				last.Actual.Newline = false
			case Delete:
				last.Expected.Newline = false
			case Insert:
				last.Actual.Newline = false
			}
			continue
		}

		if hunk != nil && (oldLeft > 0 || newLeft > 0) {
			var op byte = ' '
			text := line
			if line != "" {
				op, text = line[0], line[1:]
			}
			switch op {
			case ' ':
				if oldLeft == 0 || newLeft == 0 {
					return nil, malformed("context line exceeds hunk length")
				}
				hunk.Edits = append(hunk.Edits, Edit{
					Op:       Equal,
					Expected: Line{Index: expected, Text: text, Newline: true},
					Actual:   Line{Index: actual, Text: text, Newline: true},
				})
				expected++
				actual++
				oldLeft--
				newLeft--
			case '-':
				if oldLeft == 0 {
					return nil, malformed("removed line exceeds hunk length")
				}
				hunk.Edits = append(hunk.Edits, Edit{
					Op:       Delete,
					Expected: Line{Index: expected, Text: text, Newline: true},
				})
				expected++
				oldLeft--
			case '+':
				if newLeft == 0 {
					return nil, malformed("added line exceeds hunk length")
				}
				hunk.Edits = append(hunk.Edits, Edit{
					Op:     Insert,
					Actual: Line{Index: actual, Text: text, Newline: true},
				})
				actual++
				newLeft--
			default:
				return nil, malformed("unexpected line in hunk: %q", line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			flushFile()
			current = &FilePatch{ExpectedLabel: headerLabel(line[4:])}
		case strings.HasPrefix(line, "+++ ") && current != nil:
			current.ActualLabel = headerLabel(line[4:])
		case strings.HasPrefix(line, "@@"):
			if current == nil {
				return nil, malformed("hunk without file header")
			}
			flushHunk()
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, malformed("%v", err)
			}
			hunk = &h
			oldLeft, newLeft = h.ExpectedLen, h.ActualLen
			expected = zeroBased(h.ExpectedStart, h.ExpectedLen)
			actual = zeroBased(h.ActualStart, h.ActualLen)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading patch: %w", err)
	}
	if hunk != nil && (oldLeft > 0 || newLeft > 0) {
		return nil, malformed("truncated hunk")
	}
	flushFile()

	return files, nil
}

// headerLabel strips the timestamp that may follow a file name after a tab.
func headerLabel(s string) string {
	if name, _, ok := strings.Cut(s, "\t"); ok {
		return name
	}
	return strings.TrimRight(s, " ")
}

// parseHunkHeader parses "@@ -s,l +s,l @@", allowing trailing section text
// and single-number ranges.
func parseHunkHeader(line string) (PatchHunk, error) {
	rest, ok := strings.CutPrefix(line, "@@ ")
	if !ok {
		return PatchHunk{}, fmt.Errorf("bad hunk header %q", line)
	}
	ranges, _, ok := strings.Cut(rest, " @@")
	if !ok {
		return PatchHunk{}, fmt.Errorf("bad hunk header %q", line)
	}
	fields := strings.Fields(ranges)
	if len(fields) != 2 || !strings.HasPrefix(fields[0], "-") || !strings.HasPrefix(fields[1], "+") {
		return PatchHunk{}, fmt.Errorf("bad hunk header %q", line)
	}

	var h PatchHunk
	var err error
	if h.ExpectedStart, h.ExpectedLen, err = parseRange(fields[0][1:]); err != nil {
		return PatchHunk{}, fmt.Errorf("bad hunk header %q: %w", line, err)
	}
	if h.ActualStart, h.ActualLen, err = parseRange(fields[1][1:]); err != nil {
		return PatchHunk{}, fmt.Errorf("bad hunk header %q: %w", line, err)
	}
	return h, nil
}

func parseRange(s string) (start, length int, err error) {
	startStr, lenStr, hasLen := strings.Cut(s, ",")
	if start, err = strconv.Atoi(startStr); err != nil {
		return 0, 0, err
	}
	length = 1
	if hasLen {
		if length, err = strconv.Atoi(lenStr); err != nil {
			return 0, 0, err
		}
	}
	if start < 0 || length < 0 {
		return 0, 0, fmt.Errorf("negative range %q", s)
	}
	return start, length, nil
}

// zeroBased converts a header start into the index of its first line.
func zeroBased(start, length int) int {
	if length == 0 || start == 0 {
		return start
	}
	return start - 1
}

// Apply applies the patch to text and returns the patched text.
//
// Hunks are applied strictly: every context and removed line must be found at
// the position stated by its hunk header, including its trailing newline,
// otherwise an error wrapping ErrPatchMismatch is returned.
func (p FilePatch) Apply(text string) (string, error) {
	lines := SplitLines(text)
	out := make([]Line, 0, len(lines))
	pos := 0

	for n, h := range p.Hunks {
		start := zeroBased(h.ExpectedStart, h.ExpectedLen)
		if start < pos || start > len(lines) {
			return "", fmt.Errorf("%w: hunk %d starts at line %d", ErrPatchMismatch, n+1, h.ExpectedStart)
		}
		out = append(out, lines[pos:start]...)
		pos = start

		for _, e := range h.Edits {
			switch e.Op {
			case Equal, Delete:
				if pos >= len(lines) {
					return "", fmt.Errorf("%w: hunk %d: line %d: unexpected end of text", ErrPatchMismatch, n+1, pos+1)
				}
				if !lines[pos].Equal(e.Expected) {
					return "", fmt.Errorf("%w: hunk %d: line %d: want %q, got %q",
						ErrPatchMismatch, n+1, pos+1, e.Expected.Text, lines[pos].Text)
				}
				if e.Op == Equal {
					out = append(out, e.Actual)
				}
				pos++
			case Insert:
				out = append(out, e.Actual)
			}
		}
	}
	out = append(out, lines[pos:]...)

	return joinLines(out), nil
}
