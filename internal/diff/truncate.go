package diff

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the default number of characters of diff sent to the model.
const DefaultMaxLength = 10000

// OmittedMarker is appended whenever a diff has been shortened.
const OmittedMarker = "\n\n... (部分内容已省略)"

// boundaryMarker marks the start of a file section that is not the first one.
const boundaryMarker = "\n" + HeaderPrefix

// Truncate bounds text to maxLength characters. When the text is longer it
// keeps the first maxLength characters and, if the last file boundary inside
// that window lies at or past its midpoint, cuts there so only whole trailing
// sections are dropped. The omitted marker is appended in both cases.
// A non-positive maxLength disables truncation.
func Truncate(text string, maxLength int) string {
	truncated, _ := TruncateWithInfo(text, maxLength)
	return truncated
}

// TruncateWithInfo is Truncate that also reports whether anything was cut.
func TruncateWithInfo(text string, maxLength int) (string, bool) {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return text, false
	}

	window := prefixRunes(text, maxLength)

	if idx := strings.LastIndex(window, boundaryMarker); idx >= 0 {
		if 2*utf8.RuneCountInString(window[:idx]) >= maxLength {
			return window[:idx] + OmittedMarker, true
		}
	}

	return window + OmittedMarker, true
}

// prefixRunes returns the first n characters of s without splitting a rune.
func prefixRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
