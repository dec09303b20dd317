package prompt

import "strings"

// ExtractDigits returns the ASCII digits 0-9 of from, in their original
// order. Every other character is dropped, including digits from other
// scripts, which have no catalog entry or sound file.
func ExtractDigits(from string) string {
	var b strings.Builder
	for _, r := range from {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
