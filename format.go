package linediff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// noNewlineMarker follows a line that lacks a trailing newline.
const noNewlineMarker = `\ No newline at end of file`

// minNumberWidth is the minimum width of a line number column.
const minNumberWidth = 3

// AnnotateOptions configures the annotated renderer.
type AnnotateOptions struct {
	// Color enables ANSI escape sequences. When false the output is plain
	// text regardless of the terminal.
	Color bool

	// Palette maps row kinds to colour attributes. A zero Palette uses
	// DefaultPalette.
	Palette Palette

	// Title, if set, is printed before the hunks followed by a blank line.
	Title string

	// LineOffset is added to every printed line number.
	LineOffset int
}

// Palette maps each kind of annotated row to SGR attributes.
// A nil slice leaves that kind of row uncoloured.
type Palette struct {
	Header []color.Attribute
	Equal  []color.Attribute
	Delete []color.Attribute
	Insert []color.Attribute
}

// DefaultPalette returns the palette used when none is configured: hunk
// headers on a blue background, deletions in red and insertions in green.
func DefaultPalette() Palette {
	return Palette{
		Header: []color.Attribute{color.FgBlack, color.BgBlue},
		Delete: []color.Attribute{color.FgRed},
		Insert: []color.Attribute{color.FgGreen},
	}
}

func (p Palette) isZero() bool {
	return p.Header == nil && p.Equal == nil && p.Delete == nil && p.Insert == nil
}

// ErrUnknownColor is returned when a colour name is not recognised.
var ErrUnknownColor = errors.New("unknown color")

// ForegroundColors maps colour names to foreground attributes.
var ForegroundColors = map[string]color.Attribute{
	"black":         color.FgBlack,
	"red":           color.FgRed,
	"green":         color.FgGreen,
	"yellow":        color.FgYellow,
	"blue":          color.FgBlue,
	"magenta":       color.FgMagenta,
	"cyan":          color.FgCyan,
	"white":         color.FgWhite,
	"brightblack":   color.FgHiBlack,
	"brightred":     color.FgHiRed,
	"brightgreen":   color.FgHiGreen,
	"brightyellow":  color.FgHiYellow,
	"brightblue":    color.FgHiBlue,
	"brightmagenta": color.FgHiMagenta,
	"brightcyan":    color.FgHiCyan,
	"brightwhite":   color.FgHiWhite,
}

// BackgroundColors maps colour names to background attributes.
var BackgroundColors = map[string]color.Attribute{
	"black":         color.BgBlack,
	"red":           color.BgRed,
	"green":         color.BgGreen,
	"yellow":        color.BgYellow,
	"blue":          color.BgBlue,
	"magenta":       color.BgMagenta,
	"cyan":          color.BgCyan,
	"white":         color.BgWhite,
	"brightblack":   color.BgHiBlack,
	"brightred":     color.BgHiRed,
	"brightgreen":   color.BgHiGreen,
	"brightyellow":  color.BgHiYellow,
	"brightblue":    color.BgHiBlue,
	"brightmagenta": color.BgHiMagenta,
	"brightcyan":    color.BgHiCyan,
	"brightwhite":   color.BgHiWhite,
}

// ColorNames returns the list of valid color names.
func ColorNames() []string {
	return []string{
		"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
		"brightblack", "brightred", "brightgreen", "brightyellow",
		"brightblue", "brightmagenta", "brightcyan", "brightwhite",
	}
}

// ParseColor parses a colour specification of the form "fg" or "fg:bg".
// Either part may be empty. An empty spec returns no attributes.
func ParseColor(spec string) ([]color.Attribute, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	parts := strings.SplitN(spec, ":", 2)
	var attrs []color.Attribute

	if fgName := strings.ToLower(strings.TrimSpace(parts[0])); fgName != "" {
		fg, ok := ForegroundColors[fgName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColor, fgName)
		}
		attrs = append(attrs, fg)
	}

	if len(parts) > 1 {
		if bgName := strings.ToLower(strings.TrimSpace(parts[1])); bgName != "" {
			bg, ok := BackgroundColors[bgName]
			if !ok {
				return nil, fmt.Errorf("%w: background %s", ErrUnknownColor, bgName)
			}
			attrs = append(attrs, bg)
		}
	}

	return attrs, nil
}

// ParseColorSpec parses a "del[:bg],ins[:bg]" specification into a palette.
// Parts left out keep their DefaultPalette colours.
func ParseColorSpec(spec string) (Palette, error) {
	p := DefaultPalette()
	if strings.TrimSpace(spec) == "" {
		return p, nil
	}

	parts := strings.SplitN(spec, ",", 2)

	del, err := ParseColor(parts[0])
	if err != nil {
		return Palette{}, fmt.Errorf("delete color: %w", err)
	}
	if del != nil {
		p.Delete = del
	}

	if len(parts) > 1 {
		ins, err := ParseColor(parts[1])
		if err != nil {
			return Palette{}, fmt.Errorf("insert color: %w", err)
		}
		if ins != nil {
			p.Insert = ins
		}
	}

	return p, nil
}

// painter applies palette colours to rendered rows. A fresh *color.Color is
// built per call so that renderers never share mutable state.
type painter struct {
	enabled bool
}

func (pt painter) paint(attrs []color.Attribute, s string) string {
	if !pt.enabled || len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Annotated renders the comparison as a human-readable report.
//
// Each hunk starts with a header such as
//
//	... ...   @@ -1,3 +1,3 @@
//
// followed by one row per edit. Context rows show both line numbers,
// deletions only the expected number and insertions only the actual number:
//
//	001 001   a
//	002      -b
//	    002  +x
//	003 003   c
//
// Numbers are 1-based, shifted by LineOffset, and zero-padded to a common
// width of at least three digits. Hunks are separated by a blank line.
// An identical comparison renders as the empty string.
func (r Result) Annotated(opts AnnotateOptions) string {
	if r.IsEmpty() {
		return ""
	}

	palette := opts.Palette
	if palette.isZero() {
		palette = DefaultPalette()
	}
	pt := painter{enabled: opts.Color}
	width := r.numberWidth(opts.LineOffset)
	dots := strings.Repeat(".", width)
	blank := strings.Repeat(" ", width)
	gutter := strings.Repeat(" ", 2*width+4)

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(opts.Title)
		sb.WriteString("\n\n")
	}

	for i, h := range r.hunks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		header := dots + " " + dots + "   " + hunkHeader(h, opts.LineOffset)
		sb.WriteString(pt.paint(palette.Header, header))
		sb.WriteByte('\n')

		for _, e := range h.Edits {
			var row string
			var attrs []color.Attribute
			switch e.Op {
			case Equal:
				row = pad(e.Expected.Index+1+opts.LineOffset, width) + " " +
					pad(e.Actual.Index+1+opts.LineOffset, width) + "   " + e.Expected.Text
				attrs = palette.Equal
			case Delete:
				row = pad(e.Expected.Index+1+opts.LineOffset, width) + " " + blank + "  -" + e.Expected.Text
				attrs = palette.Delete
			case Insert:
				row = blank + " " + pad(e.Actual.Index+1+opts.LineOffset, width) + "  +" + e.Actual.Text
				attrs = palette.Insert
			}
			sb.WriteString(pt.paint(attrs, row))
			sb.WriteByte('\n')

			if !e.Line().Newline {
				sb.WriteString(gutter)
				sb.WriteString(pt.paint(attrs, noNewlineMarker))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// numberWidth returns the width of the line number columns.
func (r Result) numberWidth(offset int) int {
	largest := max(r.stats.ExpectedLines, r.stats.ActualLines) + offset
	return max(minNumberWidth, len(strconv.Itoa(largest)))
}

// pad formats n zero-padded to width digits.
func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
