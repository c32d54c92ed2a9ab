package textproc

import "unicode/utf8"

// TruncateUTF8 truncates text to at most maxSize bytes without splitting a
// multi-byte rune. A maxSize of zero or less disables truncation.
func TruncateUTF8(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}
