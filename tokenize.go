package linediff

import "strings"

// Line is a single line of text taken from one side of a comparison.
type Line struct {
	Index   int    // zero-based position in the source sequence
	Text    string // content without the line terminator
	Newline bool   // whether a terminator followed the content
}

// Equal reports whether two lines have the same content and terminator.
// Index is not compared.
func (l Line) Equal(other Line) bool {
	return l.Text == other.Text && l.Newline == other.Newline
}

// SplitLines splits text into lines.
//
// Both "\n" and "\r\n" end a line; the "\r" of a CRLF pair is dropped. A text
// ending in a terminator produces no trailing empty line, while a text that
// does not end in one produces a final line with Newline set to false.
// The empty string yields no lines.
func SplitLines(text string) []Line {
	if text == "" {
		return nil
	}

	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, Line{Index: len(lines), Text: text})
			break
		}
		content := text[:i]
		content = strings.TrimSuffix(content, "\r")
		lines = append(lines, Line{Index: len(lines), Text: content, Newline: true})
		text = text[i+1:]
	}
	return lines
}

// LinesFromStrings builds newline-terminated lines from already split content.
// Each element is taken verbatim; embedded terminators are not re-split.
func LinesFromStrings(content []string) []Line {
	if len(content) == 0 {
		return nil
	}
	lines := make([]Line, len(content))
	for i, s := range content {
		lines[i] = Line{Index: i, Text: s, Newline: true}
	}
	return lines
}

// joinLines is the inverse of SplitLines for LF-terminated text.
func joinLines(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.Text)
		if l.Newline {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
