// File: types.go
// Title: Argument Type Tags
// Description: Closed enumeration of argument types with their optional
//              variants and the variable arity markers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18

package argument

import (
	"fmt"
	"strings"
)

// Type is an argument type tag
type Type int

const (
	Uint8 Type = iota + 1
	Uint16
	Uint32
	Int8
	Int16
	Int32
	String
	Hex

	Uint8Opt
	Uint16Opt
	Uint32Opt
	Int8Opt
	Int16Opt
	Int32Opt
	StringOpt
	HexOpt

	// Additional matches one or more further tokens of the preceding type
	Additional
	// Wildcard matches all remaining tokens without validation
	Wildcard
	// Group marks a descriptor that points to a nested command table
	Group
	// End terminates a type list. Lists do not need it; ConvertAll stops
	// at the first End it finds.
	End
)

var typeNames = map[Type]string{
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	String:     "string",
	Hex:        "hex",
	Uint8Opt:   "uint8opt",
	Uint16Opt:  "uint16opt",
	Uint32Opt:  "uint32opt",
	Int8Opt:    "int8opt",
	Int16Opt:   "int16opt",
	Int32Opt:   "int32opt",
	StringOpt:  "stringopt",
	HexOpt:     "hexopt",
	Additional: "additional",
	Wildcard:   "wildcard",
	Group:      "group",
	End:        "end",
}

// String returns the lower case type name used in help output
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType returns the Type for a name as printed by String
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown argument type %q", name)
}

// IsOptional reports whether t is one of the *Opt variants
func (t Type) IsOptional() bool {
	return t >= Uint8Opt && t <= HexOpt
}

// IsMarker reports whether t is a variable arity marker: an optional type,
// Additional or Wildcard. Markers are only legal in the last position.
func (t Type) IsMarker() bool {
	return t.IsOptional() || t == Additional || t == Wildcard
}

// IsValue reports whether t describes a concrete value (mandatory or
// optional), as opposed to a marker or structural tag
func (t Type) IsValue() bool {
	return t >= Uint8 && t <= HexOpt
}

// Mandatory maps an optional type onto its mandatory counterpart. Other
// types are returned unchanged.
func (t Type) Mandatory() Type {
	if t.IsOptional() {
		return t - (Uint8Opt - Uint8)
	}
	return t
}

// Optional maps a mandatory value type onto its optional variant
func (t Type) Optional() Type {
	if t >= Uint8 && t <= Hex {
		return t + (Uint8Opt - Uint8)
	}
	return t
}

// IsSigned reports whether t is a signed integer type
func (t Type) IsSigned() bool {
	switch t.Mandatory() {
	case Int8, Int16, Int32:
		return true
	}
	return false
}

// IsInteger reports whether t is a fixed width integer type
func (t Type) IsInteger() bool {
	m := t.Mandatory()
	return m >= Uint8 && m <= Int32
}

// Width returns the bit width of an integer type, or 0
func (t Type) Width() int {
	switch t.Mandatory() {
	case Uint8, Int8:
		return 8
	case Uint16, Int16:
		return 16
	case Uint32, Int32:
		return 32
	}
	return 0
}
