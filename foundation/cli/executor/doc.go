// File: doc.go
// Title: CLI Executor Package Documentation
// Description: Dispatch pipeline from a completed line to a command handler.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-24
// Modified: 2026-10-05

/*
Package executor turns completed input lines into command invocations.

Execute tokenizes the line, hands it to the installed redirect if there is
one, resolves the command path in the registry, converts the arguments and
invokes the handler. Every failure before the handler runs comes back as a
coded error that also matches one of the package sentinels:

	tokenizer.ErrParse      Command syntax error
	tokenizer.ErrOverflow   Too many arguments
	registry.ErrNotFound    Command not recognized
	argument.ErrCount       Wrong number of arguments
	argument.ErrType        Invalid argument format

StatusMessage produces these status lines. The executor itself never
writes to the session output; help results carry the registry match so
the caller can render the listing.
*/
package executor
