package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Change label constants.
const (
	ChangeValue = "Change" // Bucket flagged as a change point
	StableValue = "-"      // Bucket without a change
)

// Color variables for console output.
var (
	ChangeColor = color.New(color.FgRed, color.Bold) // ChangeColor marks a variability shift.
	StableColor = color.New(color.FgCyan)            // StableColor marks a quiet bucket.
	WarnColor   = color.New(color.FgYellow)          // WarnColor prefixes warnings.
)

// GetPlainLabel returns the plain text label for a change flag.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(flagged bool) string {
	if flagged {
		return ChangeValue
	}
	return StableValue
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(flagged bool) string {
	text := GetPlainLabel(flagged)
	if flagged {
		return ChangeColor.Sprint(text)
	}
	return StableColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// TruncateText truncates a value to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
