package util

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeFilename reduces a client-supplied file name to a safe base name:
// directory components are dropped and anything outside letters, digits,
// '.', '-' and '_' becomes '_'. The result never starts with a dot and is
// at most 128 bytes; an empty result becomes fallback.
func SanitizeFilename(name, fallback string) string {
	name = SanitizeString(name)
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	clean = strings.TrimLeft(clean, ".")
	if len(clean) > 128 {
		ext := filepath.Ext(clean)
		if len(ext) > 16 {
			ext = ""
		}
		clean = clean[:128-len(ext)] + ext
	}
	if clean == "" || clean == "_" {
		return fallback
	}
	return clean
}
