// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: Character sources and sinks for CLI instances
// Author:      msto63
// Created:     2026-10-10
// License:     MIT
// ============================================================================

// Package transport connects CLI instances to the outside world: the local
// terminal, a serial port, WebSocket clients and in-memory pipes. Every
// transport reads its source on a goroutine through a Pump, so the same
// value serves as cli.Input for cooperative and threaded instances and as
// the instance output.
package transport
