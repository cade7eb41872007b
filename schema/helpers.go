package schema

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a project name into a safe file name stem.
// Path separators and control characters become underscores, surrounding
// whitespace and dots are trimmed, and an empty result falls back to "project".
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return '_'
		default:
			return r
		}
	}, name)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	if cleaned == "" {
		return "project"
	}
	return cleaned
}

// ChartFileName returns the file name of a project chart with the given suffix.
func ChartFileName(project, suffix string, format ImageFormat) string {
	return SanitizeFileName(project) + suffix + "." + string(format)
}
