// File: builtins.go
// Title: Built-in Commands
// Description: Commands every instance carries: echo on|off, history and
//              version. The reserved help name is handled by the registry.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-03
// Modified: 2026-10-03

package cli

import (
	"context"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
)

var _ session.Session = (*Instance)(nil)

func (i *Instance) builtins() *registry.Group {
	return &registry.Group{Name: "builtin", Table: registry.Table{
		{Name: "echo", Descriptor: registry.MustCommand(registry.HandlerFunc(i.echoCommand),
			"Show or switch input echo", []argument.Type{argument.StringOpt}, "on or off")},
		{Name: "history", Descriptor: registry.MustCommand(registry.HandlerFunc(i.historyCommand),
			"List previous commands", nil)},
		{Name: "version", Descriptor: registry.MustCommand(registry.HandlerFunc(i.versionCommand),
			"Show the version", nil)},
	}}
}

func (i *Instance) echoCommand(_ context.Context, args *argument.Arguments) {
	if !args.Has(0) {
		state := "off"
		if i.editor.Echo() {
			state = "on"
		}
		i.Printf("echo %s\r\n", state)
		return
	}

	switch args.String(0) {
	case "on":
		i.editor.SetEcho(true)
	case "off":
		i.editor.SetEcho(false)
	default:
		i.Printf("usage: echo [on|off]\r\n")
	}
}

func (i *Instance) historyCommand(_ context.Context, _ *argument.Arguments) {
	h := i.editor.History()
	if h == nil {
		i.Printf("history disabled\r\n")
		return
	}
	for n, line := range h.Entries() {
		i.Printf("%3d  %s\r\n", n+1, line)
	}
}

func (i *Instance) versionCommand(_ context.Context, _ *argument.Arguments) {
	i.Printf("%s %s\r\n", i.name, i.version)
}
