// File: doc.go
// Title: CLI Package Documentation
// Description: Overview of the CLI instance and its subpackages.
// Author: msto63
// Version: v0.3.0
// Created: 2026-09-25
// Modified: 2026-10-09

/*
Package cli ties the command line building blocks into an Instance: one
interactive session with its own line editor, command registry, executor,
redirect and pending jobs.

The subpackages can be used on their own:

  - input: byte driven line editor with history and completion
  - tokenizer: splits a line into tokens, honouring quotes and braces
  - argument: argument types, validation and conversion
  - registry: command tables, groups, lookup and help
  - executor: tokenize, resolve, convert and invoke one line
  - session: what handlers see of the instance that called them
  - storage: record command lines and replay them later

An instance is scheduled in one of two modes. A cooperative instance is
driven by Tick from the application's main loop: every call drains the
available input, dispatches completed lines and advances the newest job
by one step. IsOkToSleep tells the loop when nothing is pending. A
threaded instance is driven by Run, which blocks on input and runs jobs to
completion inside the handler that started them.

	inst, err := cli.New(cli.Options{
		Name:   "demo",
		Prompt: "> ",
		Input:  term,
		Output: term,
		Groups: []*registry.Group{demo.Commands()},
	})
	if err != nil {
		return err
	}
	return inst.Run(ctx)

Handlers reach their instance through session.FromContext, which is how
the storage commands install a redirect and how long running commands
register jobs.
*/
package cli
