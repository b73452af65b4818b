// File: validate.go
// Title: Argument Lexical Validation
// Description: Per-type lexical checks applied to argument tokens before
//              conversion.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18

package argument

import (
	"strconv"
	"strings"
)

// Validate reports whether token has the lexical form required by t.
// Optional types validate like their mandatory counterpart.
//
// Unsigned integers of width W accept decimal numerals that fit in W bits
// and 0x-prefixed hex with at most ceil(W/4) digits whose value fits.
// Signed integers strip one leading '-' and validate the rest as an
// unsigned W-1 bit value, allowing one extra magnitude when negative so
// that the two's complement minimum is reachable.
func Validate(t Type, token string) bool {
	switch m := t.Mandatory(); m {
	case Uint8, Uint16, Uint32:
		return validUnsigned(token, m.Width(), false)
	case Int8, Int16, Int32:
		digits, negative := strings.CutPrefix(token, "-")
		return validUnsigned(digits, m.Width()-1, negative)
	case String, Wildcard:
		return true
	case Hex:
		return validHexLiteral(token)
	default:
		return false
	}
}

func validUnsigned(s string, bits int, negative bool) bool {
	limit := uint64(1)<<bits - 1
	if negative {
		limit++
	}

	if digits, ok := hexDigits(s); ok {
		if len(digits) == 0 || len(digits) > (bits+3)/4 {
			return false
		}
		v, err := strconv.ParseUint(digits, 16, 64)
		return err == nil && v <= limit
	}

	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return err == nil && v <= limit
}

// hexDigits returns the part after a 0x or 0X prefix
func hexDigits(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return "", false
}

func validHexLiteral(s string) bool {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}

	count := 0
	for i := 1; i < len(s)-1; i++ {
		c := s[i]
		if c == ' ' {
			continue
		}
		if !isHexDigit(c) {
			return false
		}
		count++
	}
	return count%2 == 0
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
