// File: level.go
// Title: Log Levels
// Description: Log level enumeration, parsing and filtering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14

package log

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log entry
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	// LevelAudit entries are written regardless of the configured level
	LevelAudit
)

// DefaultLevel is used when no level is configured
const DefaultLevel = LevelInfo

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelAudit: "AUDIT",
}

// String returns the upper case name of the level
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ShortString returns a fixed width abbreviation used by the console format
func (l Level) ShortString() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelFatal:
		return "FTL"
	case LevelAudit:
		return "AUD"
	default:
		return "???"
	}
}

// Color returns the ANSI color sequence for the level
func (l Level) Color() string {
	switch l {
	case LevelTrace, LevelDebug:
		return "\033[90m"
	case LevelInfo:
		return "\033[36m"
	case LevelWarn:
		return "\033[33m"
	case LevelError, LevelFatal:
		return "\033[31m"
	case LevelAudit:
		return "\033[35m"
	default:
		return ""
	}
}

// ShouldLog reports whether an entry of level l passes the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel converts a level name into a Level. Matching is case insensitive
// and accepts "warning" as an alias.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "audit":
		return LevelAudit, nil
	}
	return DefaultLevel, &ParseError{Input: s}
}

// ParseError is returned by ParseLevel and ParseFormat for unknown names
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	kind := e.Type
	if kind == "" {
		kind = "level"
	}
	return fmt.Sprintf("invalid log %s: %q", kind, e.Input)
}
