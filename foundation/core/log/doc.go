// Package log provides structured logging for gecli.
//
// Package: log
// Title: gecli Structured Logging
// Description: Leveled, structured logger with contextual fields, several
//              output formats and integration with the gecli error type.
//              Log output is kept apart from the CLI output stream: a CLI
//              instance writes prompts and command output to its sink and
//              diagnostics to a Logger.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-03
//
// Change History:
// - 2026-09-14 v0.1.0: Logger, levels, entries and formatters
// - 2026-10-03 v0.2.0: Session IDs, command timers, dropped async buffering
//
// Usage:
//
//	import gclog "github.com/msto63/gecli/foundation/core/log"
//
//	logger := gclog.New().
//		WithLevel(gclog.LevelDebug).
//		WithField("component", "executor").
//		WithSessionID(id)
//
//	logger.Info("command dispatched", gclog.Fields{"command": "rgb set"})
//	logger.LogError(err)
//
//	timer := logger.StartTimer("script_execute")
//	// ...
//	timer.Stop()
package log
