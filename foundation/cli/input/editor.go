// File: editor.go
// Title: Line Editor State Machine
// Description: Consumes input one byte at a time, maintains the edit buffer
//              and cursor, recognises escape sequences for arrow and delete
//              keys, recalls history and performs tab completion. Emits a
//              completed line when CR or LF arrives.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-19
// Modified: 2026-10-06
//
// Change History:
// - 2026-09-19 v0.1.0: Basic editing, CRLF handling, history recall
// - 2026-10-06 v0.2.0: Enhanced mode: mid-line editing, delete key, completion

package input

import (
	"bytes"
	"io"
	"strings"

	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// State is the escape sequence state of the editor
type State int

const (
	StateOrdinary State = iota
	// StateReturnSeen follows a CR; an immediately following LF is swallowed
	StateReturnSeen
	// StateEscapeSeen follows ESC
	StateEscapeSeen
	// StateArrowSeen follows ESC [
	StateArrowSeen
	// StateDeleteSeen follows ESC [ 3 and waits for ~
	StateDeleteSeen
)

func (s State) String() string {
	switch s {
	case StateOrdinary:
		return "ordinary"
	case StateReturnSeen:
		return "return-seen"
	case StateEscapeSeen:
		return "escape-seen"
	case StateArrowSeen:
		return "arrow-seen"
	case StateDeleteSeen:
		return "delete-seen"
	default:
		return "unknown"
	}
}

const (
	keyBackspace = 0x08
	keyTab       = 0x09
	keyLF        = 0x0A
	keyCR        = 0x0D
	keyEscape    = 0x1B
	keyDelete    = 0x7F
)

// Completer returns the command names that can complete the last word of
// a partially typed line. words holds the whitespace separated words; the
// last one is the prefix and is empty when the line ends in a space.
type Completer interface {
	Complete(words []string) []string
}

// CompleterFunc adapts a function to the Completer interface
type CompleterFunc func(words []string) []string

// Complete calls f(words)
func (f CompleterFunc) Complete(words []string) []string { return f(words) }

// Options configures an Editor
type Options struct {
	Prompt string
	// BufferSize is the maximum number of characters in one line
	BufferSize int
	// HistorySize is the history capacity in bytes; 0 disables history
	HistorySize int
	Echo        bool
	// Enhanced enables mid-line editing, the delete key, cursor movement
	// and tab completion
	Enhanced  bool
	Completer Completer
	Output    io.Writer
}

// DefaultOptions returns the defaults: prompt "> ", 128 character buffer,
// 100 byte history, echo on, basic editing
func DefaultOptions() Options {
	return Options{
		Prompt:      "> ",
		BufferSize:  128,
		HistorySize: 100,
		Echo:        true,
	}
}

// Editor is the line editor of one CLI session. It is not safe for
// concurrent use.
type Editor struct {
	prompt    string
	capacity  int
	echo      bool
	enhanced  bool
	completer Completer
	out       io.Writer

	buf     []byte
	cursor  int
	state   State
	history *History

	line  string
	ready bool
}

// NewEditor creates an editor. A BufferSize <= 0 selects the default.
func NewEditor(opts Options) *Editor {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultOptions().BufferSize
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	e := &Editor{
		prompt:    opts.Prompt,
		capacity:  opts.BufferSize,
		echo:      opts.Echo,
		enhanced:  opts.Enhanced,
		completer: opts.Completer,
		out:       opts.Output,
		buf:       make([]byte, 0, opts.BufferSize),
	}
	if opts.HistorySize > 0 {
		e.history = NewHistory(opts.HistorySize)
	}
	return e
}

// Feed processes one input byte and reports whether a line is complete.
// The completed line stays available through Line until Clear is called.
func (e *Editor) Feed(c byte) bool {
	switch e.state {
	case StateEscapeSeen:
		if c == '[' {
			e.state = StateArrowSeen
			return false
		}
		e.state = StateOrdinary
		return e.Feed(c)

	case StateArrowSeen:
		e.state = StateOrdinary
		e.arrow(c)
		return false

	case StateDeleteSeen:
		e.state = StateOrdinary
		if c == '~' {
			e.deleteAtCursor()
		}
		return false
	}

	previous := e.state
	e.state = StateOrdinary

	switch {
	case c == keyCR || c == keyLF:
		if previous == StateReturnSeen && c == keyLF {
			return false
		}
		if c == keyCR {
			e.state = StateReturnSeen
		}
		e.complete()
		return true

	case c == keyBackspace || c == keyDelete:
		e.backspace()

	case c == keyTab:
		if e.enhanced {
			e.autocomplete()
		}

	case c == keyEscape:
		e.state = StateEscapeSeen

	case c >= 0x20 && c < 0x7F:
		e.insert(c)
	}

	return false
}

// Line returns the last completed line
func (e *Editor) Line() string { return e.line }

// Ready reports whether a completed line is waiting to be cleared
func (e *Editor) Ready() bool { return e.ready }

// Clear discards the completed line
func (e *Editor) Clear() {
	e.line = ""
	e.ready = false
}

// Buffer returns the line being edited
func (e *Editor) Buffer() string { return string(e.buf) }

// Cursor returns the cursor position within the edit buffer
func (e *Editor) Cursor() int { return e.cursor }

// State returns the escape sequence state
func (e *Editor) State() State { return e.state }

// Pending reports whether a line is partially typed or an escape sequence
// is in progress
func (e *Editor) Pending() bool {
	if len(e.buf) > 0 {
		return true
	}
	return e.state == StateEscapeSeen || e.state == StateArrowSeen || e.state == StateDeleteSeen
}

// History returns the history ring, or nil when history is disabled
func (e *Editor) History() *History { return e.history }

// Echo reports whether typed characters are echoed
func (e *Editor) Echo() bool { return e.echo }

// SetEcho switches echo on or off
func (e *Editor) SetEcho(on bool) { e.echo = on }

// Prompt returns the prompt
func (e *Editor) Prompt() string { return e.prompt }

// SetPrompt changes the prompt
func (e *Editor) SetPrompt(prompt string) { e.prompt = prompt }

// SetCompleter installs the completion source
func (e *Editor) SetCompleter(c Completer) { e.completer = c }

// PrintPrompt writes the prompt followed by the current edit buffer
func (e *Editor) PrintPrompt() {
	_, _ = io.WriteString(e.out, e.prompt)
	if len(e.buf) > 0 && e.echo {
		_, _ = e.out.Write(e.buf)
		e.write(bytes.Repeat([]byte{'\b'}, len(e.buf)-e.cursor))
	}
}

func (e *Editor) write(p []byte) {
	if e.echo && len(p) > 0 {
		_, _ = e.out.Write(p)
	}
}

func (e *Editor) complete() {
	e.line = string(e.buf)
	e.ready = true
	if e.history != nil {
		if strings.TrimSpace(e.line) != "" {
			e.history.Add(e.line)
		} else {
			e.history.Reset()
		}
	}
	e.buf = e.buf[:0]
	e.cursor = 0
	e.write([]byte("\r\n"))
}

func (e *Editor) insert(c byte) {
	if len(e.buf) >= e.capacity {
		return
	}

	if !e.enhanced || e.cursor == len(e.buf) {
		e.buf = append(e.buf, c)
		e.cursor = len(e.buf)
		e.write([]byte{c})
		return
	}

	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = c
	tail := e.buf[e.cursor:]
	e.cursor++
	e.write(tail)
	e.write(bytes.Repeat([]byte{'\b'}, len(tail)-1))
}

func (e *Editor) backspace() {
	if e.cursor == 0 {
		return
	}

	if e.cursor == len(e.buf) {
		e.buf = e.buf[:len(e.buf)-1]
		e.cursor--
		e.write([]byte("\b \b"))
		return
	}

	copy(e.buf[e.cursor-1:], e.buf[e.cursor:])
	e.buf = e.buf[:len(e.buf)-1]
	e.cursor--
	e.write([]byte{'\b'})
	e.redrawTail(1)
}

func (e *Editor) deleteAtCursor() {
	if !e.enhanced || e.cursor >= len(e.buf) {
		return
	}
	copy(e.buf[e.cursor:], e.buf[e.cursor+1:])
	e.buf = e.buf[:len(e.buf)-1]
	e.redrawTail(1)
}

// redrawTail rewrites the buffer from the cursor, blanks the cleared
// trailing columns and returns the terminal cursor to the edit position
func (e *Editor) redrawTail(cleared int) {
	tail := e.buf[e.cursor:]
	e.write(tail)
	e.write(bytes.Repeat([]byte{' '}, cleared))
	e.write(bytes.Repeat([]byte{'\b'}, len(tail)+cleared))
}

func (e *Editor) arrow(c byte) {
	switch c {
	case 'A':
		if e.history != nil {
			if line, moved := e.history.Up(); moved {
				e.replaceLine(line)
			}
		}
	case 'B':
		if e.history != nil {
			if line, moved := e.history.Down(); moved {
				e.replaceLine(line)
			}
		}
	case 'C':
		if e.enhanced && e.cursor < len(e.buf) {
			e.write(e.buf[e.cursor : e.cursor+1])
			e.cursor++
		}
	case 'D':
		if e.enhanced && e.cursor > 0 {
			e.cursor--
			e.write([]byte{'\b'})
		}
	case '3':
		// Consume the trailing '~' in basic mode too; deletion itself
		// is enhanced only.
		e.state = StateDeleteSeen
	}
}

// replaceLine erases the displayed line and shows line instead
func (e *Editor) replaceLine(line string) {
	old := len(e.buf)
	e.write(e.buf[e.cursor:])
	e.write(bytes.Repeat([]byte("\b \b"), old))

	if len(line) > e.capacity {
		line = line[:e.capacity]
	}
	e.buf = append(e.buf[:0], line...)
	e.cursor = len(e.buf)
	e.write(e.buf)
}

func (e *Editor) autocomplete() {
	if e.completer == nil || e.cursor != len(e.buf) {
		return
	}

	text := string(e.buf)
	words := strings.Fields(text)
	if len(words) == 0 || strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\t") {
		words = append(words, "")
	}
	last := words[len(words)-1]

	matches := e.completer.Complete(words)
	switch len(matches) {
	case 0:
		return
	case 1:
		e.replaceLastWord(last, matches[0])
		return
	}

	e.write([]byte("\r\n"))
	for _, m := range matches {
		e.write([]byte(m + "\r\n"))
	}

	prefix := gcstringx.LongestCommonPrefix(matches, false)
	if len(prefix) < len(last) {
		prefix = last
	}
	base := e.buf[:len(e.buf)-len(last)]
	next := append([]byte(nil), base...)
	next = append(next, prefix...)
	if len(next) > e.capacity {
		next = next[:e.capacity]
	}
	e.buf = append(e.buf[:0], next...)
	e.cursor = len(e.buf)

	e.write([]byte(e.prompt))
	e.write(e.buf)
}

// replaceLastWord turns the trailing word into word, erasing only the
// characters that differ
func (e *Editor) replaceLastWord(last, word string) {
	keep := 0
	for keep < len(last) && keep < len(word) && last[keep] == word[keep] {
		keep++
	}
	for i := keep; i < len(last); i++ {
		e.backspace()
	}
	for i := keep; i < len(word); i++ {
		e.insert(word[i])
	}
}
