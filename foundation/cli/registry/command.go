// File: command.go
// Title: Command Descriptors and Tables
// Description: Command interface, leaf and group descriptors, table entries
//              and registration groups. Descriptors are validated when they
//              are built so malformed argument type lists never reach the
//              dispatcher.
// Author: msto63
// Version: v0.2.1
// Created: 2026-09-22
// Modified: 2026-10-15
//
// Change History:
// - 2026-09-22 v0.1.0: Initial descriptors and tables
// - 2026-10-02 v0.2.0: Argument help strings, MustCommand for static tables
// - 2026-10-15 v0.2.1: Reject the reserved help name in tables

package registry

import (
	"context"
	"strings"

	"github.com/msto63/gecli/foundation/cli/argument"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// Command is implemented by everything the dispatcher can invoke
type Command interface {
	Invoke(ctx context.Context, args *argument.Arguments)
}

// HandlerFunc adapts a function to the Command interface
type HandlerFunc func(ctx context.Context, args *argument.Arguments)

// Invoke calls f(ctx, args)
func (f HandlerFunc) Invoke(ctx context.Context, args *argument.Arguments) { f(ctx, args) }

// Descriptor describes either a leaf command or a nested group. A group
// descriptor has a Table and no Handler.
type Descriptor struct {
	Handler Command
	Help    string
	// ArgHelp holds one description per argument type, shown by "help <path>"
	ArgHelp []string
	Types   []argument.Type
	Table   Table
}

// NewCommand builds a leaf descriptor and validates its argument types
func NewCommand(handler Command, help string, types []argument.Type, argHelp ...string) (*Descriptor, error) {
	if handler == nil {
		return nil, gcerror.New("command handler cannot be nil").
			WithCode(gcerror.CodeCLIBadTable).
			WithOperation("registry.NewCommand")
	}
	if err := argument.CheckTypes(types); err != nil {
		return nil, err
	}
	return &Descriptor{
		Handler: handler,
		Help:    help,
		ArgHelp: argHelp,
		Types:   types,
	}, nil
}

// MustCommand is like NewCommand but panics on an invalid descriptor. It is
// meant for tables built during program initialisation.
func MustCommand(handler Command, help string, types []argument.Type, argHelp ...string) *Descriptor {
	d, err := NewCommand(handler, help, types, argHelp...)
	if err != nil {
		panic(err)
	}
	return d
}

// NewGroup builds a descriptor pointing at a nested table
func NewGroup(help string, table Table) *Descriptor {
	return &Descriptor{Help: help, Table: table}
}

// IsGroup reports whether the descriptor points at a nested table
func (d *Descriptor) IsGroup() bool {
	return d != nil && d.Handler == nil && d.Table != nil
}

// Usage renders the argument list as "<uint8> [string]", marking optional
// arguments with brackets and variable tails with an ellipsis
func (d *Descriptor) Usage() string {
	if d == nil || d.IsGroup() {
		return ""
	}

	var parts []string
	for i, t := range d.Types {
		switch {
		case t == argument.End:
			return strings.Join(parts, " ")
		case t == argument.Additional:
			if i > 0 {
				parts = append(parts, "["+d.Types[i-1].Mandatory().String()+"...]")
			}
		case t == argument.Wildcard:
			parts = append(parts, "[...]")
		case t.IsOptional():
			parts = append(parts, "["+t.Mandatory().String()+"]")
		default:
			parts = append(parts, "<"+t.String()+">")
		}
	}
	return strings.Join(parts, " ")
}

// Entry binds a name to a descriptor. Shortcut entries dispatch normally
// but are hidden from help listings and completion.
type Entry struct {
	Name       string
	Descriptor *Descriptor
	Shortcut   bool
}

// Table is an ordered list of entries. An entry with an empty name ends
// the table, so tables ported from sentinel terminated arrays keep working.
type Table []Entry

// Entries returns the entries up to the first unnamed one
func (t Table) Entries() []Entry {
	for i, e := range t {
		if e.Name == "" {
			return t[:i]
		}
	}
	return t
}

// Group is the unit of registration: a named top level table
type Group struct {
	Name  string
	Table Table
}

// validateTable checks names and descriptors recursively
func validateTable(table Table, path string) error {
	for _, e := range table.Entries() {
		full := strings.TrimSpace(path + " " + e.Name)

		if gcstringx.IsBlank(e.Name) || strings.ContainsAny(e.Name, " \t\"{\\") {
			return tableError(full, "invalid command name")
		}
		if strings.EqualFold(e.Name, HelpCommand) {
			return tableError(full, "reserved command name")
		}
		if e.Descriptor == nil {
			return tableError(full, "missing descriptor")
		}

		if e.Descriptor.IsGroup() {
			if err := validateTable(e.Descriptor.Table, full); err != nil {
				return err
			}
			continue
		}

		if e.Descriptor.Handler == nil {
			return tableError(full, "leaf command without handler")
		}
		if err := argument.CheckTypes(e.Descriptor.Types); err != nil {
			return gcerror.Wrap(err, "invalid argument types").WithDetail("command", full)
		}
	}
	return nil
}

func tableError(command, reason string) error {
	return gcerror.New(reason).
		WithCode(gcerror.CodeCLIBadTable).
		WithOperation("registry.Add").
		WithDetail("command", command)
}
