package api

import "unicode/utf8"

// maxCallerLen bounds the caller identifier accepted for composition.
const maxCallerLen = 200

// maxLocaleLen bounds locale strings before they reach the BCP 47 parser.
const maxLocaleLen = 35

// validateStringLen checks that a string does not exceed maxLen runes.
// Returns an error message if invalid, empty string if OK.
func validateStringLen(field, value string, maxLen int) string {
	if utf8.RuneCountInString(value) > maxLen {
		return field + " exceeds maximum length"
	}
	return ""
}

// containsControlChars checks whether a string has control characters
// (except common whitespace like \n, \r, \t).
func containsControlChars(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

// validateNoControlChars rejects strings with control characters.
func validateNoControlChars(field, value string) string {
	if containsControlChars(value) {
		return field + " contains invalid characters"
	}
	return ""
}
