// File: entry.go
// Title: Log Entries and Fields
// Description: The Entry record handed to formatters and the Fields map
//              with small constructors for common field kinds.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-03
//
// Change History:
// - 2026-09-14 v0.1.0: Entry and Fields
// - 2026-10-03 v0.2.0: SessionID replaces request/user/correlation IDs

package log

import "time"

// Fields carries structured key/value context for a log entry
type Fields map[string]interface{}

// Entry is one log record
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	SessionID string
	Fields    Fields
	Error     error
	Duration  time.Duration
	Caller    *CallerInfo
}

// CallerInfo describes the source location of a log call
type CallerInfo struct {
	Function string
	File     string
	Line     int
}

// Field creates a single-field map
func Field(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err creates an error field
func Err(err error) Fields {
	if err == nil {
		return Fields{}
	}
	return Fields{"error": err.Error()}
}

// Int creates an integer field
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// String creates a string field
func String(key, value string) Fields {
	return Fields{key: value}
}

// Merge combines several field maps; later maps win on key collisions
func Merge(fields ...Fields) Fields {
	result := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			result[k] = v
		}
	}
	return result
}

// Clone returns a shallow copy of f
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	result := make(Fields, len(f))
	for k, v := range f {
		result[k] = v
	}
	return result
}
