// Package utils holds small helpers shared by the suggest, config and server packages.
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r splits words inside a candidate.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// EqualFold performs a case-insensitive rune comparison.
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	// ASCII fast path
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	return strings.EqualFold(string(a), string(b))
}

// IsOnlyNumbers reports whether s is a non-empty run of digits.
func IsOnlyNumbers(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars reports whether s has anything besides letters,
// digits and separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive reports whether s is the same rune repeated three or more times.
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput reports whether s is worth sending to the dictionary.
// Empty strings, numbers, special characters and repetitive strings are not.
func IsValidInput(s string) bool {
	if s == "" {
		return false
	}
	if IsOnlyNumbers(s) || ContainsSpecialChars(s) {
		return false
	}
	return !IsRepetitive(s)
}
