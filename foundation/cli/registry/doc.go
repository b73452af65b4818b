// File: doc.go
// Title: CLI Registry Package Documentation
// Description: Command descriptors, tables, groups and resolution.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-22
// Modified: 2026-10-04

/*
Package registry holds the commands of a CLI instance.

Applications describe their commands as tables. A table entry names either
a leaf command, with a handler and argument types, or a nested group:

	rgb := registry.Table{
		{Name: "set", Descriptor: registry.MustCommand(
			registry.HandlerFunc(setColor), "Set the LED colour",
			[]argument.Type{argument.Uint8, argument.Uint8, argument.Uint8},
			"red", "green", "blue")},
		{Name: "get", Descriptor: registry.MustCommand(
			registry.HandlerFunc(getColor), "Show the LED colour", nil)},
	}
	reg.Add(&registry.Group{Name: "demo", Table: registry.Table{
		{Name: "rgb", Descriptor: registry.NewGroup("RGB LED", rgb)},
	}})

Find walks the tokens through the registered tables. The reserved name
help lists the current table, and help followed by a command path shows
the usage of that command. Shortcut entries are dispatchable but do not
appear in listings or completion.
*/
package registry
