// File: commands.go
// Title: Storage Command Group
// Description: The <prefix>_list, _define, _clear and _execute commands
//              operating on one Script.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-01
// Modified: 2026-10-08

package storage

import (
	"context"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
)

// Commands builds the command group for script. With prefix "ram" the
// group holds ram_list, ram_define, ram_clear and ram_execute.
func Commands(script *Script, prefix string) *registry.Group {
	run := func(fn func(ctx context.Context, sess session.Session) error) registry.HandlerFunc {
		return func(ctx context.Context, _ *argument.Arguments) {
			sess, ok := session.FromContext(ctx)
			if !ok {
				script.logger.Warn("Storage command outside a session")
				return
			}
			if err := fn(ctx, sess); err != nil {
				script.logger.LogError(err)
				sess.Printf("%s: %v\r\n", prefix, err)
			}
		}
	}

	listCmd := run(func(ctx context.Context, sess session.Session) error {
		return script.List(ctx, sess.Output())
	})
	defineCmd := run(func(ctx context.Context, sess session.Session) error {
		script.Define(sess)
		sess.Printf("Enter commands, finish with '%s'\r\n", script.EndString())
		return nil
	})
	clearCmd := run(func(ctx context.Context, sess session.Session) error {
		return script.Clear(ctx)
	})
	executeCmd := run(func(ctx context.Context, sess session.Session) error {
		return script.Execute(ctx, sess)
	})

	return &registry.Group{Name: prefix, Table: registry.Table{
		{Name: prefix + "_list", Descriptor: registry.MustCommand(listCmd, "List stored commands", nil)},
		{Name: prefix + "_define", Descriptor: registry.MustCommand(defineCmd, "Store the following commands", nil)},
		{Name: prefix + "_clear", Descriptor: registry.MustCommand(clearCmd, "Delete stored commands", nil)},
		{Name: prefix + "_execute", Descriptor: registry.MustCommand(executeCmd, "Run stored commands", nil)},
	}}
}
