// File: doc.go
// Title: CLI Argument Package Documentation
// Description: Argument type tags, lexical validation, typed conversion and
//              arity resolution for command arguments.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18

/*
Package argument converts command argument tokens into typed values.

A command declares an ordered list of Type tags. After the command path
has been resolved, ConvertAll checks the token count against that list,
validates the lexical form of every token and converts it:

	types := []argument.Type{argument.Uint8, argument.StringOpt}
	args, err := argument.ConvertAll(types, []string{"led", "3", "on"}, 1)
	// args.Uint8(0) == 3, args.String(1) == "on"

Integers accept decimal or 0x-prefixed hex. Hex blobs are written as
{AA BB CC} and convert to a byte slice. A list may end in one variable
arity marker: an optional type, Additional (one or more further values of
the previous type) or Wildcard (the rest of the line, unvalidated).
CheckTypes enforces that rule when a command is built.
*/
package argument
