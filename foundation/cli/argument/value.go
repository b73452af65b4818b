// File: value.go
// Title: Typed Argument Values
// Description: Value is the converted form of one argument token, a tagged
//              union over integers, text and byte blobs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-21

package argument

import (
	"encoding/hex"
	"strconv"
	"strings"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// Value holds one converted argument. The zero Value has no type.
type Value struct {
	kind Type
	num  int64
	text string
	data []byte
}

// Type returns the concrete type of the value: a mandatory value type or
// Wildcard
func (v Value) Type() Type { return v.kind }

// Uint8 returns the value truncated to 8 bits
func (v Value) Uint8() uint8 { return uint8(v.num) }

// Uint16 returns the value truncated to 16 bits
func (v Value) Uint16() uint16 { return uint16(v.num) }

// Uint32 returns the value truncated to 32 bits
func (v Value) Uint32() uint32 { return uint32(v.num) }

// Int8 returns the value truncated to 8 bits
func (v Value) Int8() int8 { return int8(v.num) }

// Int16 returns the value truncated to 16 bits
func (v Value) Int16() int16 { return int16(v.num) }

// Int32 returns the value truncated to 32 bits
func (v Value) Int32() int32 { return int32(v.num) }

// Int returns the integer value widened to int64
func (v Value) Int() int64 { return v.num }

// Text returns the token text of string and wildcard values
func (v Value) Text() string { return v.text }

// Bytes returns the decoded bytes of a hex value
func (v Value) Bytes() []byte { return v.data }

// String renders the value the way it would be typed
func (v Value) String() string {
	switch {
	case v.kind == Hex:
		return formatHex(v.data)
	case v.kind.IsInteger():
		return strconv.FormatInt(v.num, 10)
	default:
		return v.text
	}
}

func formatHex(data []byte) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	b.WriteByte('}')
	return b.String()
}

// Convert validates token against t and converts it. Wildcard values are
// never validated. Decimal integers are always parsed in base 10, so a
// leading zero does not select octal.
func Convert(t Type, token string) (Value, error) {
	m := t.Mandatory()

	if m == Wildcard {
		return Value{kind: Wildcard, text: token}, nil
	}
	if !Validate(m, token) {
		return Value{}, gcerror.Wrap(ErrType, "invalid argument").
			WithCode(gcerror.CodeCLIArgType).
			WithOperation("argument.Convert").
			WithDetail("expected", m.String()).
			WithDetail("token", token)
	}

	switch {
	case m.IsInteger():
		return Value{kind: m, num: parseInteger(token, m)}, nil
	case m == String:
		return Value{kind: String, text: token}, nil
	case m == Hex:
		return Value{kind: Hex, data: decodeHexLiteral(token)}, nil
	}

	return Value{}, gcerror.Newf("type %s has no value", t).
		WithCode(gcerror.CodeCLIArgCount).
		WithOperation("argument.Convert")
}

// parseInteger converts a validated integer token and truncates it to the
// width of t
func parseInteger(token string, t Type) int64 {
	digits, negative := strings.CutPrefix(token, "-")

	var u uint64
	if h, ok := hexDigits(digits); ok {
		u, _ = strconv.ParseUint(h, 16, 64)
	} else {
		u, _ = strconv.ParseUint(digits, 10, 64)
	}

	n := int64(u)
	if negative {
		n = -n
	}

	switch t.Width() {
	case 8:
		if t.IsSigned() {
			return int64(int8(n))
		}
		return int64(uint8(n))
	case 16:
		if t.IsSigned() {
			return int64(int16(n))
		}
		return int64(uint16(n))
	default:
		if t.IsSigned() {
			return int64(int32(n))
		}
		return int64(uint32(n))
	}
}

// decodeHexLiteral decodes a validated {..} literal, skipping spaces
func decodeHexLiteral(token string) []byte {
	digits := strings.ReplaceAll(token[1:len(token)-1], " ", "")
	out, _ := hex.DecodeString(digits)
	if out == nil {
		out = []byte{}
	}
	return out
}
