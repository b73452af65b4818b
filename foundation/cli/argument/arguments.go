// File: arguments.go
// Title: Argument Lists and Arity Resolution
// Description: ConvertAll matches tokens against a command's type list,
//              enforcing arity and converting each token. Arguments is the
//              per-invocation result handed to command handlers.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-18
// Modified: 2026-09-27
//
// Change History:
// - 2026-09-18 v0.1.0: Fixed arity, optional tails, additional, wildcard
// - 2026-09-27 v0.2.0: CheckTypes for build-time validation of type lists

package argument

import (
	"errors"
	"strings"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

var (
	// ErrCount reports a wrong number of arguments or a malformed type list
	ErrCount = errors.New("wrong number of arguments")
	// ErrType reports a token whose lexical form does not match its type
	ErrType = errors.New("invalid argument format")
	// ErrBadTypes reports a type list violating the marker placement rules
	ErrBadTypes = errors.New("invalid argument type list")
)

// Arguments holds the converted arguments of one command invocation.
// Index n of the typed accessors counts from the first argument after the
// command path. Accessors return the zero value for indexes out of range.
type Arguments struct {
	commandStrings []string
	values         []Value
}

// NewArguments builds an argument list directly, mainly for tests and
// programmatic invocation
func NewArguments(commandStrings []string, values ...Value) *Arguments {
	return &Arguments{commandStrings: commandStrings, values: values}
}

// Count returns the number of arguments after the command path
func (a *Arguments) Count() int { return len(a.values) }

// CommandStringCount returns the number of tokens forming the command path
func (a *Arguments) CommandStringCount() int { return len(a.commandStrings) }

// CommandString returns the n-th command path token
func (a *Arguments) CommandString(n int) string {
	if n < 0 || n >= len(a.commandStrings) {
		return ""
	}
	return a.commandStrings[n]
}

// CommandPath returns the command path joined by single spaces
func (a *Arguments) CommandPath() string {
	return strings.Join(a.commandStrings, " ")
}

// Has reports whether argument n is present
func (a *Arguments) Has(n int) bool { return n >= 0 && n < len(a.values) }

// Value returns argument n
func (a *Arguments) Value(n int) Value {
	if !a.Has(n) {
		return Value{}
	}
	return a.values[n]
}

// Type returns the concrete type of argument n, or 0 when absent
func (a *Arguments) Type(n int) Type { return a.Value(n).Type() }

func (a *Arguments) Uint8(n int) uint8   { return a.Value(n).Uint8() }
func (a *Arguments) Uint16(n int) uint16 { return a.Value(n).Uint16() }
func (a *Arguments) Uint32(n int) uint32 { return a.Value(n).Uint32() }
func (a *Arguments) Int8(n int) int8     { return a.Value(n).Int8() }
func (a *Arguments) Int16(n int) int16   { return a.Value(n).Int16() }
func (a *Arguments) Int32(n int) int32   { return a.Value(n).Int32() }
func (a *Arguments) String(n int) string { return a.Value(n).Text() }
func (a *Arguments) Hex(n int) []byte    { return a.Value(n).Bytes() }

// Tail returns the arguments from index n onward, for additional and
// wildcard tails
func (a *Arguments) Tail(n int) []Value {
	if n < 0 || n >= len(a.values) {
		return nil
	}
	return a.values[n:]
}

// Strings renders the arguments from index n onward as strings
func (a *Arguments) Strings(n int) []string {
	tail := a.Tail(n)
	out := make([]string, len(tail))
	for i, v := range tail {
		out[i] = v.String()
	}
	return out
}

// trimEnd cuts a type list at its first End tag
func trimEnd(types []Type) []Type {
	for i, t := range types {
		if t == End {
			return types[:i]
		}
	}
	return types
}

// CheckTypes validates a command's type list: value types, at most one
// variable arity marker, only in the last position, and Additional never
// first. It returns a CodeCLIBadTable error wrapping ErrBadTypes.
func CheckTypes(types []Type) error {
	types = trimEnd(types)
	for i, t := range types {
		last := i == len(types)-1
		switch {
		case t.IsMarker() && !last:
			return badTypes(types, i, t.String()+" must be the last argument type")
		case t == Additional && i == 0:
			return badTypes(types, i, "additional needs a preceding type")
		case t == Additional && !types[i-1].IsValue():
			return badTypes(types, i, "additional must follow a value type")
		case t == Group:
			return badTypes(types, i, "group is not an argument type")
		case !t.IsValue() && !t.IsMarker():
			return badTypes(types, i, "unknown argument type")
		}
	}
	return nil
}

func badTypes(types []Type, position int, reason string) error {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return gcerror.Wrap(ErrBadTypes, reason).
		WithCode(gcerror.CodeCLIBadTable).
		WithOperation("argument.CheckTypes").
		WithDetail("position", position).
		WithDetail("types", strings.Join(names, ","))
}

// ConvertAll matches tokens against types. The first commandStringCount
// tokens are the command path and are kept as strings without checks.
//
// Fixed arity lists need exactly len(types) arguments. Lists ending in an
// optional type, Additional or Wildcard need at least len(types)-1. A
// marker found before the last position fails with ErrCount. Conversion
// stops at the first invalid token with ErrType.
func ConvertAll(types []Type, tokens []string, commandStringCount int) (*Arguments, error) {
	types = trimEnd(types)
	if commandStringCount > len(tokens) {
		commandStringCount = len(tokens)
	}

	variable := len(types) > 0 && (types[len(types)-1] == Additional || types[len(types)-1] == Wildcard)
	optional := false
	for _, t := range types {
		if t.IsOptional() {
			optional = true
			break
		}
	}

	expected := len(types) + commandStringCount
	if variable || optional {
		if len(tokens) < expected-1 {
			return nil, countError(expected, len(tokens), "too few arguments")
		}
	} else if len(tokens) != expected {
		return nil, countError(expected, len(tokens), "argument count mismatch")
	}

	args := &Arguments{
		commandStrings: append([]string(nil), tokens[:commandStringCount]...),
		values:         make([]Value, 0, len(tokens)-commandStringCount),
	}

	var repeat Type
	for i, token := range tokens[commandStringCount:] {
		t := repeat
		if t == 0 {
			if i >= len(types) {
				return nil, countError(expected, len(tokens), "too many arguments")
			}
			t = types[i]
			last := i == len(types)-1

			switch {
			case t.IsMarker() && !last:
				return nil, countError(expected, len(tokens), t.String()+" is not the last argument type")
			case t == Additional:
				if i == 0 || !types[i-1].IsValue() {
					return nil, countError(expected, len(tokens), "additional without preceding type")
				}
				t = types[i-1].Mandatory()
				repeat = t
			case t == Wildcard:
				repeat = Wildcard
			case !t.IsValue():
				return nil, countError(expected, len(tokens), "unexpected "+t.String()+" in argument types")
			}
		}

		v, err := Convert(t, token)
		if err != nil {
			return nil, gcerror.Wrap(err, "argument conversion failed").
				WithDetail("position", i)
		}
		args.values = append(args.values, v)
	}

	return args, nil
}

func countError(expected, got int, reason string) error {
	return gcerror.Wrap(ErrCount, reason).
		WithCode(gcerror.CodeCLIArgCount).
		WithOperation("argument.ConvertAll").
		WithDetail("expected", expected).
		WithDetail("got", got)
}
