// Package log prints diagnostics of the linediff command to stderr.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

const (
	debugEnvName  = "LINEDIFF_DEBUG"
	debugEnvValue = "1"
)

var (
	// ColorRed is a red foreground color
	ColorRed = color.New(color.FgRed)
	// ColorYellow is a yellow foreground color
	ColorYellow = color.New(color.FgYellow)
	// ColorGray is a gray foreground color
	ColorGray = color.New(color.FgHiBlack)
)

var output io.Writer = color.Error

// SetOutput redirects log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := output
	output = w
	return prev
}

// Errorf prints an error message with optional format verbs
func Errorf(msg string, v ...interface{}) {
	fmt.Fprintf(output, "%s %s\n", ColorRed.Sprint("Error:"), fmt.Sprintf(msg, v...))
}

// Warnf prints a warning message with optional format verbs
func Warnf(msg string, v ...interface{}) {
	fmt.Fprintf(output, "%s %s\n", ColorYellow.Sprint("Warning:"), fmt.Sprintf(msg, v...))
}

// isDebug returns true if debug mode is enabled
func isDebug() bool {
	return os.Getenv(debugEnvName) == debugEnvValue
}

// Debugf prints to stderr if LINEDIFF_DEBUG is set
func Debugf(msg string, v ...interface{}) {
	if isDebug() {
		fmt.Fprintf(output, "%s %s\n", ColorGray.Sprint("DEBUG:"), fmt.Sprintf(msg, v...))
	}
}
