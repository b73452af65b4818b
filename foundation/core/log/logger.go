// File: logger.go
// Title: Structured Logger
// Description: Logger with levels, contextual fields, session IDs and
//              pluggable formatters. With* methods return modified copies so
//              a component can derive its own logger without affecting the
//              parent. Clones share the output lock.
// Author: msto63
// Version: v0.3.0
// Created: 2026-09-14
// Modified: 2026-10-12
//
// Change History:
// - 2026-09-14 v0.1.0: Logger with levels, fields and formatters
// - 2026-10-03 v0.2.0: Session IDs, gecli error integration, stderr default
// - 2026-10-12 v0.3.0: Level shared with derived loggers for live reloads

package log

import (
	"errors"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	// level is shared with loggers derived through With* except WithLevel
	level     *atomic.Int32
	formatter Formatter
	output    io.Writer
	name      string

	contextFields Fields
	sessionID     string

	enableCaller     bool
	callerSkipFrames int

	writeMu *sync.Mutex
	mutex   sync.RWMutex
}

// Config represents logger configuration
type Config struct {
	Level            Level
	Format           Format
	Output           io.Writer
	Name             string
	EnableCaller     bool
	CallerSkipFrames int
}

// New creates a logger writing text to stderr at the default level
func New() *Logger {
	return &Logger{
		level:         newLevel(DefaultLevel),
		formatter:     NewTextFormatter(),
		output:        os.Stderr,
		contextFields: make(Fields),
		writeMu:       &sync.Mutex{},
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	logger := &Logger{
		level:            newLevel(config.Level),
		formatter:        GetFormatter(config.Format),
		output:           config.Output,
		name:             config.Name,
		contextFields:    make(Fields),
		enableCaller:     config.EnableCaller,
		callerSkipFrames: config.CallerSkipFrames,
		writeMu:          &sync.Mutex{},
	}
	if logger.output == nil {
		logger.output = os.Stderr
	}
	return logger
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return NewWithConfig(Config{Level: LevelFatal, Output: io.Discard})
}

// WithLevel returns a copy with a different minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	c := l.clone()
	c.level = newLevel(level)
	return c
}

// WithFormat returns a copy using the default formatter for format
func (l *Logger) WithFormat(format Format) *Logger {
	c := l.clone()
	c.formatter = GetFormatter(format)
	return c
}

// WithFormatter returns a copy using a custom formatter
func (l *Logger) WithFormatter(formatter Formatter) *Logger {
	c := l.clone()
	c.formatter = formatter
	return c
}

// WithOutput returns a copy writing to output
func (l *Logger) WithOutput(output io.Writer) *Logger {
	c := l.clone()
	c.output = output
	c.writeMu = &sync.Mutex{}
	return c
}

// WithName returns a copy with a logger name
func (l *Logger) WithName(name string) *Logger {
	c := l.clone()
	c.name = name
	return c
}

// WithField returns a copy with an additional context field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	c := l.clone()
	c.contextFields[key] = value
	return c
}

// WithFields returns a copy with additional context fields
func (l *Logger) WithFields(fields Fields) *Logger {
	c := l.clone()
	for k, v := range fields {
		c.contextFields[k] = v
	}
	return c
}

// WithSessionID returns a copy tagging every entry with a CLI session ID
func (l *Logger) WithSessionID(id string) *Logger {
	c := l.clone()
	c.sessionID = id
	return c
}

// WithCaller returns a copy that records the calling source location
func (l *Logger) WithCaller(skip int) *Logger {
	c := l.clone()
	c.enableCaller = true
	c.callerSkipFrames = skip
	return c
}

// Trace logs a trace message
func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, 0, fields...)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, 0, fields...)
}

// Info logs an informational message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, 0, fields...)
}

// Warn logs a warning
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, 0, fields...)
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, 0, fields...)
}

// Fatal logs a fatal message and exits the process
func (l *Logger) Fatal(message string, fields ...Fields) {
	l.log(LevelFatal, message, nil, 0, fields...)
	os.Exit(1)
}

// Audit logs a message that bypasses level filtering
func (l *Logger) Audit(message string, fields ...Fields) {
	l.log(LevelAudit, message, nil, 0, fields...)
}

// ErrorWithErr logs an error message with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, 0, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, 0, fields...)
}

// LogError logs an error at a level derived from its severity. Low severity
// errors (mistyped commands, bad arguments) are logged at debug level.
func (l *Logger) LogError(err error, fields ...Fields) {
	if err == nil {
		return
	}

	var gcErr *gcerror.Error
	if !errors.As(err, &gcErr) {
		l.log(LevelError, err.Error(), err, 0, fields...)
		return
	}

	errFields := Fields{
		"error_code":     gcErr.Code(),
		"error_severity": gcErr.Severity().String(),
	}
	if op := gcErr.Operation(); op != "" {
		errFields["error_operation"] = op
	}
	for k, v := range gcErr.Details() {
		errFields["error_"+k] = v
	}
	fields = append(fields, errFields)

	level := LevelError
	switch gcErr.Severity() {
	case gcerror.SeverityLow:
		level = LevelDebug
	case gcerror.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, gcErr.Message(), err, 0, fields...)
}

// StartTimer creates and starts a timer logging at debug level on Stop
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled reports whether entries of level would be written
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.GetLevel())
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

// SetLevel changes the level in place, for this logger and every logger
// derived from it other than through WithLevel. Used by configuration
// reloads.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func newLevel(level Level) *atomic.Int32 {
	v := &atomic.Int32{}
	v.Store(int32(level))
	return v
}

func (l *Logger) log(level Level, message string, err error, duration time.Duration, fields ...Fields) {
	if !level.ShouldLog(l.GetLevel()) {
		return
	}
	l.mutex.RLock()

	entry := &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Logger:    l.name,
		SessionID: l.sessionID,
		Error:     err,
		Duration:  duration,
		Fields:    make(Fields, len(l.contextFields)),
	}
	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, set := range fields {
		for k, v := range set {
			entry.Fields[k] = v
		}
	}

	if l.enableCaller {
		entry.Caller = l.caller()
	}

	formatter, output, mu := l.formatter, l.output, l.writeMu
	l.mutex.RUnlock()

	formatted, fmtErr := formatter.Format(entry)
	if fmtErr != nil {
		return
	}
	mu.Lock()
	_, _ = output.Write(formatted)
	mu.Unlock()
}

func (l *Logger) caller() *CallerInfo {
	// caller, log, public method, user code
	pc, file, line, ok := runtime.Caller(3 + l.callerSkipFrames)
	if !ok {
		return nil
	}

	function := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
		if idx := strings.LastIndex(function, "."); idx != -1 {
			function = function[idx+1:]
		}
	}
	if idx := strings.LastIndex(file, "/"); idx != -1 {
		file = file[idx+1:]
	}

	return &CallerInfo{Function: function, File: file, Line: line}
}

func (l *Logger) clone() *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	c := &Logger{
		level:            l.level,
		formatter:        l.formatter,
		output:           l.output,
		name:             l.name,
		sessionID:        l.sessionID,
		enableCaller:     l.enableCaller,
		callerSkipFrames: l.callerSkipFrames,
		contextFields:    make(Fields, len(l.contextFields)+1),
		writeMu:          l.writeMu,
	}
	for k, v := range l.contextFields {
		c.contextFields[k] = v
	}
	return c
}

var (
	defaultLogger = New()
	defaultMu     sync.RWMutex
)

// GetDefault returns the process-wide default logger
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Debug logs a debug message on the default logger
func Debug(message string, fields ...Fields) {
	GetDefault().log(LevelDebug, message, nil, 0, fields...)
}

// Info logs an informational message on the default logger
func Info(message string, fields ...Fields) {
	GetDefault().log(LevelInfo, message, nil, 0, fields...)
}

// Warn logs a warning on the default logger
func Warn(message string, fields ...Fields) {
	GetDefault().log(LevelWarn, message, nil, 0, fields...)
}

// Error logs an error message on the default logger
func Error(message string, fields ...Fields) {
	GetDefault().log(LevelError, message, nil, 0, fields...)
}
