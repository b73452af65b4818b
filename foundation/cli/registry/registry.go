// File: registry.go
// Title: Command Registry
// Description: Ordered set of registered command groups per CLI instance.
//              Resolves token sequences through nested groups to a leaf
//              command, handles the reserved help name and produces
//              completion candidates for the line editor.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-22
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-22 v0.1.0: Registration and resolution
// - 2026-10-04 v0.2.0: help <path>, completion, case insensitive matching

package registry

import (
	"errors"
	"strings"
	"sync"

	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// HelpCommand is the reserved name listing the available commands
const HelpCommand = "help"

var (
	// ErrNotFound reports a command path matching no registered command
	ErrNotFound = errors.New("command not recognized")
	// ErrDuplicateGroup reports a second registration of the same group
	ErrDuplicateGroup = errors.New("command group already registered")
)

// Options configures a Registry
type Options struct {
	CaseSensitive bool
	Logger        *gclog.Logger
}

// Registry holds the command groups of one CLI instance. Lookups take a
// read lock, so registration from another goroutine is safe, but a group
// removed during dispatch may still finish its current command.
type Registry struct {
	groups        []*Group
	caseSensitive bool
	logger        *gclog.Logger
	mutex         sync.RWMutex
}

// Match is the outcome of resolving a token sequence
type Match struct {
	// Descriptor is the resolved leaf command; nil for help matches
	Descriptor *Descriptor
	// Path holds the tokens naming the command, used as the command string
	// count during argument conversion
	Path []string
	// Tokens is the full token sequence, command path included
	Tokens []string

	// Help is set when the tokens asked for a listing or detailed help
	Help bool
	// Listing holds the table to list for help matches
	Listing Table
	// Topic is the leaf command for "help <path>"
	Topic *Descriptor
	// TopicPath names the topic without the help token
	TopicPath []string
}

// CommandStringCount returns the number of path tokens
func (m *Match) CommandStringCount() int { return len(m.Path) }

// Args returns the argument tokens following the command path
func (m *Match) Args() []string { return m.Tokens[len(m.Path):] }

// New creates an empty registry
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = gclog.GetDefault()
	}
	return &Registry{
		caseSensitive: opts.CaseSensitive,
		logger:        opts.Logger.WithField("component", "cli-registry"),
	}
}

// CaseSensitive reports whether names are matched case sensitively
func (r *Registry) CaseSensitive() bool { return r.caseSensitive }

// Add validates and registers a group. The registry keeps a reference to
// the group; its tables must not be modified afterwards.
func (r *Registry) Add(g *Group) error {
	if g == nil {
		return gcerror.New("command group cannot be nil").
			WithCode(gcerror.CodeInvalidInput).
			WithOperation("registry.Add")
	}
	if err := validateTable(g.Table, ""); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.groups {
		if existing == g {
			return gcerror.Wrap(ErrDuplicateGroup, "group registered twice").
				WithCode(gcerror.CodeCLIBadTable).
				WithOperation("registry.Add").
				WithDetail("group", g.Name)
		}
	}
	r.groups = append(r.groups, g)

	r.logger.Debug("Command group registered", gclog.Fields{
		"group":    g.Name,
		"commands": len(g.Table.Entries()),
	})
	return nil
}

// Remove unregisters a group and reports whether it was registered
func (r *Registry) Remove(g *Group) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, existing := range r.groups {
		if existing == g {
			r.groups = append(r.groups[:i:i], r.groups[i+1:]...)
			r.logger.Debug("Command group removed", gclog.Fields{"group": g.Name})
			return true
		}
	}
	return false
}

// Groups returns the registered groups in registration order
func (r *Registry) Groups() []*Group {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]*Group(nil), r.groups...)
}

// TopLevel returns the entries of all groups in registration order
func (r *Registry) TopLevel() Table {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.topLevel()
}

func (r *Registry) topLevel() Table {
	var table Table
	for _, g := range r.groups {
		table = append(table, g.Table.Entries()...)
	}
	return table
}

// Find resolves tokens to a leaf command or a help request. Tokens are
// consumed left to right, descending into groups. A token equal to the
// reserved help name lists the current table, or with further tokens
// describes the command they name. A path ending on a group lists that
// group.
func (r *Registry) Find(tokens []string) (*Match, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(tokens) == 0 {
		return nil, r.notFound(tokens, 0)
	}

	table := r.topLevel()
	for i, token := range tokens {
		if r.equal(token, HelpCommand) {
			return r.findHelp(tokens, i, table)
		}

		entry, ok := r.lookup(table, token)
		if !ok {
			return nil, r.notFound(tokens, i)
		}

		if !entry.Descriptor.IsGroup() {
			return &Match{
				Descriptor: entry.Descriptor,
				Path:       tokens[:i+1],
				Tokens:     tokens,
			}, nil
		}
		table = entry.Descriptor.Table.Entries()
	}

	// Ran out of tokens inside a group
	return &Match{Path: tokens, Tokens: tokens, Help: true, Listing: table}, nil
}

func (r *Registry) findHelp(tokens []string, at int, table Table) (*Match, error) {
	match := &Match{Path: tokens[:at+1], Tokens: tokens, Help: true}

	for i := at + 1; i < len(tokens); i++ {
		entry, ok := r.lookup(table, tokens[i])
		if !ok {
			return nil, r.notFound(tokens, i)
		}
		if !entry.Descriptor.IsGroup() {
			match.Path = tokens[:i+1]
			match.Topic = entry.Descriptor
			match.TopicPath = append(append([]string(nil), tokens[:at]...), tokens[at+1:i+1]...)
			return match, nil
		}
		table = entry.Descriptor.Table.Entries()
	}

	match.Path = tokens
	match.Listing = table
	return match, nil
}

// Complete returns the visible names that complete the last word. Earlier
// words must resolve to groups; a leading help is skipped.
func (r *Registry) Complete(words []string) []string {
	if len(words) == 0 {
		return nil
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	table := r.topLevel()
	path, prefix := words[:len(words)-1], words[len(words)-1]
	atTop := true

	if len(path) > 0 && r.equal(path[0], HelpCommand) {
		path = path[1:]
	}
	for _, word := range path {
		entry, ok := r.lookup(table, word)
		if !ok || !entry.Descriptor.IsGroup() {
			return nil
		}
		table = entry.Descriptor.Table.Entries()
		atTop = false
	}

	var matches []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] && gcstringx.HasPrefixFold(name, prefix, !r.caseSensitive) {
			seen[name] = true
			matches = append(matches, name)
		}
	}

	for _, e := range table {
		if !e.Shortcut {
			add(e.Name)
		}
	}
	if atTop && len(words) == 1 {
		add(HelpCommand)
	}
	return matches
}

// lookup returns the first entry in table whose name matches token
func (r *Registry) lookup(table Table, token string) (Entry, bool) {
	for _, e := range table {
		if r.equal(e.Name, token) {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Registry) equal(a, b string) bool {
	if r.caseSensitive {
		return a == b
	}
	return gcstringx.EqualFoldASCII(a, b)
}

func (r *Registry) notFound(tokens []string, position int) error {
	return gcerror.Wrap(ErrNotFound, "no command matches the given path").
		WithCode(gcerror.CodeCLINotFound).
		WithOperation("registry.Find").
		WithDetail("command", strings.Join(tokens, " ")).
		WithDetail("position", position)
}
