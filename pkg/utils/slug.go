package utils

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into a lowercase, hyphen-separated token
// safe for use in download filenames, e.g. "Stress Echocardiogram (Exercise)"
// becomes "stress-echocardiogram-exercise".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphens

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
