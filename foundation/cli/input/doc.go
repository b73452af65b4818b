// File: doc.go
// Title: CLI Input Package Documentation
// Description: Line editor for byte oriented terminals.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-19
// Modified: 2026-10-06

/*
Package input implements the line editor of a CLI session.

The Editor is fed one byte at a time, typically from a UART, a raw
terminal or a socket, and echoes edits back to an io.Writer. Feed returns
true when CR or LF completes a line; a CR LF pair completes only once.

Basic mode appends at the end of the line and supports backspace and
history recall with the up and down arrows. Enhanced mode adds cursor
movement, mid-line insertion, the delete key (ESC [ 3 ~) and tab
completion through a Completer.
*/
package input
