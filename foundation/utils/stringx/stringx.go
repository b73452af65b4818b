// File: stringx.go
// Title: String Helpers
// Description: String operations used by the configuration loader, the
//              command registry and the help renderer.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-05
//
// Change History:
// - 2026-09-14 v0.1.0: Blank checks, truncation, padding
// - 2026-10-05 v0.2.0: LongestCommonPrefix, EqualFoldASCII, HasPrefixFold

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsEmpty returns true if the string has length 0
func IsEmpty(s string) bool {
	return len(s) == 0
}

// IsBlank returns true if the string is empty or contains only whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank is the inverse of IsBlank
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// FirstNonBlank returns the first argument that is not blank, or ""
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if IsNotBlank(v) {
			return v
		}
	}
	return ""
}

// Truncate shortens s to maxLen runes, ending with ellipsis when cut.
// Multi-byte characters are never split.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// PadRight pads s with pad up to width runes. Longer strings are returned
// unchanged.
func PadRight(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-n)
}

// PadLeft pads s on the left with pad up to width runes
func PadLeft(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(string(pad), width-n) + s
}

// LongestCommonPrefix returns the longest byte prefix shared by all values.
// With foldCase the comparison ignores ASCII case and the prefix is taken
// from the first value.
func LongestCommonPrefix(values []string, foldCase bool) string {
	if len(values) == 0 {
		return ""
	}

	prefix := values[0]
	for _, v := range values[1:] {
		n := 0
		for n < len(prefix) && n < len(v) && byteEqual(prefix[n], v[n], foldCase) {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// EqualFoldASCII compares two strings ignoring ASCII case only
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if !byteEqual(a[i], b[i], true) {
			return false
		}
	}
	return true
}

// HasPrefixFold reports whether s begins with prefix, optionally ignoring
// ASCII case
func HasPrefixFold(s, prefix string, foldCase bool) bool {
	if len(prefix) > len(s) {
		return false
	}
	if !foldCase {
		return strings.HasPrefix(s, prefix)
	}
	return EqualFoldASCII(s[:len(prefix)], prefix)
}

func byteEqual(a, b byte, foldCase bool) bool {
	if a == b {
		return true
	}
	if !foldCase {
		return false
	}
	return toLowerASCII(a) == toLowerASCII(b)
}

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
