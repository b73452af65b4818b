// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so callers can pick the
//              log level and decide whether an error ends a session.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a user input problem, e.g. a mistyped command
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure with a workaround
	SeverityMedium

	// SeverityHigh indicates a failure of a backing resource (store, port)
	SeverityHigh

	// SeverityCritical indicates the session cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeStorageError, CodeTransportError, CodeConfigError:
		return SeverityHigh

	case CodeStorageFull, CodeTimeout, CodeCLIBadTable, CodeInvalidConfig:
		return SeverityMedium

	case CodeCLIParse, CodeCLIOverflow, CodeCLINotFound, CodeCLIArgCount, CodeCLIArgType,
		CodeCLIRedirect, CodeInvalidInput, CodeNotFound, CodeValidationFailed:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
