// Command linediff compares two files line by line.
//
// Usage:
//
//	linediff expected.txt actual.txt
//	linediff -u -U 5 old.go new.go > change.patch
//	git show HEAD:file.go | linediff --stdin file.go
//	linediff --apply change.patch old.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dacharyc/linediff"
	"github.com/dacharyc/linediff/internal/log"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes
const (
	exitIdentical = 0 // files are identical
	exitDiffer    = 1 // files differ
	exitError     = 2 // error occurred
)

// config holds configuration from profile files
type config struct {
	context       int
	patch         bool
	algorithm     string
	colorSpec     string
	noColor       bool
	expectedLabel string
	actualLabel   string
	title         string
	offset        int
}

// cliFlags holds all parsed command-line flags
type cliFlags struct {
	context       *int
	patch         *bool
	algorithm     *string
	colorSpec     *string
	noColor       *bool
	expectedLabel *string
	actualLabel   *string
	title         *string
	offset        *int
	stdinMode     *bool
	apply         *string
	help          *bool
	version       *bool
}

// input is one side of a comparison.
type input struct {
	name    string
	text    string
	modTime time.Time
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes the command and returns its exit code.
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	// Pre-scan for --profile flag before defining other flags
	profile := prescanProfile(args)

	configPath, err := findConfigFile(profile)
	if err != nil {
		log.Errorf("%v", err)
		return exitError
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Errorf("loading config %s: %v", configPath, err)
		return exitError
	}
	if configPath != "" {
		log.Debugf("loaded config %s", configPath)
	}

	fs := flag.NewFlagSet("linediff", flag.ContinueOnError)
	f := defineFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		log.Errorf("%v", err)
		return exitError
	}

	if *f.version {
		fmt.Fprintf(stdout, "linediff version %s\n", Version)
		return exitIdentical
	}

	if *f.help {
		fs.Usage()
		return exitIdentical
	}

	if *f.colorSpec == "list" {
		showColorList(stdout)
		return exitIdentical
	}

	palette, err := parseColors(*f.colorSpec)
	if err != nil {
		log.Errorf("%v", err)
		return exitError
	}
	algorithm, err := linediff.ParseAlgorithm(*f.algorithm)
	if err != nil {
		log.Errorf("%v (use %s)", err, algorithmNames())
		return exitError
	}

	if *f.apply != "" {
		return runApply(fs, *f.apply, *f.stdinMode, stdin, stdout)
	}

	expected, actual, err := readInputs(fs, *f.stdinMode, stdin)
	if err != nil {
		log.Errorf("%v", err)
		if strings.HasPrefix(err.Error(), "requires") {
			fs.Usage()
		}
		return exitError
	}

	for _, in := range []input{expected, actual} {
		if strings.Contains(in.text, "\r\n") {
			log.Warnf("%s: CRLF line endings are compared and printed as LF", in.name)
		}
	}

	opts := linediff.Options{
		ContextLines: *f.context,
		Algorithm:    algorithm,
	}
	result := linediff.Compare(expected.text, actual.text, opts)

	st := result.Stats()
	log.Debugf("%s: %d hunks, %d insertions, %d deletions", algorithm, st.Hunks, st.Insertions, st.Deletions)
	for _, h := range result.Hunks() {
		log.Debugf("hunk at line %d: %d insertions, %d deletions", h.ExpectedStart+1, h.Insertions(), h.Deletions())
	}

	if result.IsEmpty() {
		return exitIdentical
	}

	if *f.patch {
		fmt.Fprint(stdout, result.Patch(linediff.PatchOptions{
			ExpectedLabel: firstNonEmpty(*f.expectedLabel, expected.name),
			ActualLabel:   firstNonEmpty(*f.actualLabel, actual.name),
			ExpectedTime:  expected.modTime,
			ActualTime:    actual.modTime,
			LineOffset:    *f.offset,
		}))
		return exitDiffer
	}

	// Determine color output
	useColor := !*f.noColor && os.Getenv("NO_COLOR") == "" && (isTerminal(stdout) || *f.colorSpec != "")

	fmt.Fprint(stdout, result.Annotated(linediff.AnnotateOptions{
		Color:      useColor,
		Palette:    palette,
		Title:      *f.title,
		LineOffset: *f.offset,
	}))
	return exitDiffer
}

// runApply applies a single-file patch to the input and prints the result.
func runApply(fs *flag.FlagSet, patchPath string, stdinMode bool, stdin io.Reader, stdout io.Writer) int {
	pf, err := os.Open(patchPath)
	if err != nil {
		log.Errorf("%v", err)
		return exitError
	}
	defer pf.Close()

	patches, err := linediff.ReadPatch(pf)
	if err != nil {
		log.Errorf("reading %s: %v", patchPath, err)
		return exitError
	}
	if len(patches) != 1 {
		log.Errorf("%s: patch must describe exactly one file, found %d", patchPath, len(patches))
		return exitError
	}

	var text string
	switch {
	case stdinMode:
		text, err = readAll(stdin)
	case fs.NArg() == 1:
		text, err = readFile(fs.Arg(0))
	default:
		err = fmt.Errorf("--apply requires one file argument or --stdin")
	}
	if err != nil {
		log.Errorf("%v", err)
		return exitError
	}

	out, err := patches[0].Apply(text)
	if err != nil {
		log.Errorf("applying %s: %v", patchPath, err)
		return exitError
	}
	fmt.Fprint(stdout, out)
	return exitIdentical
}

// prescanProfile extracts --profile value before flag parsing
func prescanProfile(args []string) string {
	for i, arg := range args {
		if arg == "--profile" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--profile=") {
			return strings.TrimPrefix(arg, "--profile=")
		}
	}
	return ""
}

// defineFlags sets up all command-line flags with config defaults
func defineFlags(fs *flag.FlagSet, cfg config) cliFlags {
	_ = fs.String("profile", "", "use settings from ~/.linediffrc.<profile>")

	f := cliFlags{
		context:       fs.IntP("context", "U", cfg.context, "show N lines of context around changes"),
		patch:         fs.BoolP("patch", "u", cfg.patch, "print a unified patch instead of the annotated report"),
		algorithm:     fs.StringP("algorithm", "A", cfg.algorithm, "diff algorithm: patience, histogram or myers"),
		colorSpec:     fs.StringP("color", "c", cfg.colorSpec, "set colors for deleted/inserted lines (format: del_fg[:del_bg],ins_fg[:ins_bg], or 'list')"),
		noColor:       fs.Bool("no-color", cfg.noColor, "disable colored output"),
		expectedLabel: fs.String("expected-label", cfg.expectedLabel, "label of the expected file in patch headers"),
		actualLabel:   fs.String("actual-label", cfg.actualLabel, "label of the actual file in patch headers"),
		title:         fs.StringP("title", "t", cfg.title, "print a title line before the report"),
		offset:        fs.Int("offset", cfg.offset, "add N to every printed line number"),
		stdinMode:     fs.Bool("stdin", false, "read expected input from stdin, actual from argument"),
		apply:         fs.String("apply", "", "apply the unified patch `PATCH` to the input and print the result"),
		help:          fs.BoolP("help", "h", false, "show help"),
		version:       fs.BoolP("version", "v", false, "show version"),
	}

	fs.Lookup("color").NoOptDefVal = "default"

	fs.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options] expected actual\n", name)
		fmt.Fprintf(os.Stderr, "       %s [options] --stdin actual\n", name)
		fmt.Fprintf(os.Stderr, "       %s --apply PATCH file\n", name)
		fmt.Fprintf(os.Stderr, "\nLine-level diff with annotated or unified output.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s want.txt got.txt\n", name)
		fmt.Fprintf(os.Stderr, "  %s -u -U 5 old.go new.go > change.patch\n", name)
		fmt.Fprintf(os.Stderr, "  git show HEAD:file.go | %s --stdin file.go\n", name)
		fmt.Fprintf(os.Stderr, "\nExit codes:\n")
		fmt.Fprintf(os.Stderr, "  0  files are identical\n")
		fmt.Fprintf(os.Stderr, "  1  files differ\n")
		fmt.Fprintf(os.Stderr, "  2  error occurred\n")
	}

	return f
}

// showColorList prints available colors
func showColorList(w io.Writer) {
	fmt.Fprintln(w, "Available colors:")
	colors := linediff.ColorNames()
	fmt.Fprintf(w, "  %s\n", strings.Join(colors[:8], ", "))
	fmt.Fprintf(w, "  %s\n", strings.Join(colors[8:], ", "))
	fmt.Fprintln(w, "\nUsage: -c delete_color[:delete_bg],insert_color[:insert_bg]")
	fmt.Fprintln(w, "Example: -c red,green")
	fmt.Fprintln(w, "Example: -c brightred:white,brightgreen:black")
}

// parseColors returns the palette for a color specification
func parseColors(colorSpec string) (linediff.Palette, error) {
	if colorSpec == "" || colorSpec == "default" {
		return linediff.DefaultPalette(), nil
	}
	return linediff.ParseColorSpec(colorSpec)
}

func algorithmNames() string {
	var names []string
	for _, a := range linediff.Algorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

// readInputs reads both sides of the comparison from stdin or files
func readInputs(fs *flag.FlagSet, stdinMode bool, stdin io.Reader) (expected, actual input, err error) {
	if stdinMode {
		if fs.NArg() < 1 {
			return input{}, input{}, fmt.Errorf("requires one file argument with --stdin")
		}
		text, err := readAll(stdin)
		if err != nil {
			return input{}, input{}, fmt.Errorf("reading stdin: %w", err)
		}
		expected = input{name: linediff.DefaultExpectedLabel, text: text}
		actual, err = readInput(fs.Arg(0))
		return expected, actual, err
	}

	if fs.NArg() < 2 {
		return input{}, input{}, fmt.Errorf("requires two file arguments")
	}
	if expected, err = readInput(fs.Arg(0)); err != nil {
		return input{}, input{}, err
	}
	actual, err = readInput(fs.Arg(1))
	return expected, actual, err
}

// readInput reads a file together with its modification time
func readInput(path string) (input, error) {
	text, err := readFile(path)
	if err != nil {
		return input{}, fmt.Errorf("reading %s: %w", path, err)
	}
	in := input{name: path, text: text}
	if fi, err := os.Stat(path); err == nil {
		in.modTime = fi.ModTime()
	}
	return in, nil
}

// readFile reads an entire file into a string
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readAll reads all of r into a string
func readAll(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	var sb strings.Builder
	if _, err := reader.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// isTerminal returns true if w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// findConfigFile returns the path to the config file for the given profile.
// If a profile is specified but the file doesn't exist, it returns an error.
func findConfigFile(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // No home dir, use defaults
	}

	if profile == "" {
		path := filepath.Join(home, ".linediffrc")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		path = filepath.Join(xdgConfig, "linediff", "config")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", nil // No default config found, use defaults
	}

	// Profile explicitly specified - file must exist
	path := filepath.Join(home, ".linediffrc."+profile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("profile config file not found: %s", path)
	}
	return path, nil
}

// loadConfig reads a config file and returns the configuration.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var key, value string
		if idx := strings.Index(line, "="); idx >= 0 {
			key = strings.TrimSpace(line[:idx])
			value = strings.TrimSpace(line[idx+1:])
		} else {
			key = line
			value = "true"
		}

		if err := applyConfigOption(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return cfg, scanner.Err()
}

// defaultConfig returns a config with default values
func defaultConfig() config {
	return config{
		context:   linediff.DefaultContextLines,
		algorithm: string(linediff.Patience),
	}
}

// applyStringOption handles string config options
func applyStringOption(cfg *config, key, value string) bool {
	switch key {
	case "color", "c":
		cfg.colorSpec = value
	case "expected-label":
		cfg.expectedLabel = value
	case "actual-label":
		cfg.actualLabel = value
	case "title", "t":
		cfg.title = value
	default:
		return false
	}
	return true
}

// applyBoolOption handles boolean config options
func applyBoolOption(cfg *config, key, value string) bool {
	switch key {
	case "patch", "u":
		cfg.patch = parseBool(value)
	case "no-color":
		cfg.noColor = parseBool(value)
	default:
		return false
	}
	return true
}

// applyConfigOption sets a config field based on key and value
func applyConfigOption(cfg *config, key, value string) error {
	if applyStringOption(cfg, key, value) {
		return nil
	}
	if applyBoolOption(cfg, key, value) {
		return nil
	}

	// Special cases with validation
	switch key {
	case "context", "U":
		n, err := parseInt(value)
		if err != nil || n < 0 {
			return fmt.Errorf("context must be a non-negative integer: %s", value)
		}
		cfg.context = n
	case "offset":
		n, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("offset must be an integer: %s", value)
		}
		cfg.offset = n
	case "algorithm", "A":
		alg, err := linediff.ParseAlgorithm(value)
		if err != nil {
			return err
		}
		cfg.algorithm = string(alg)
	default:
		return fmt.Errorf("unknown option: %s", key)
	}
	return nil
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1" || s == ""
}

// parseInt parses an integer value from a string
func parseInt(s string) (int, error) {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return 0, err
	}
	return val, nil
}
