// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across gecli. The CLI codes map
//              one-to-one onto the recoverable failure classes of the command
//              pipeline (tokenizer, resolver, arity check, type validation).
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Generic, configuration and storage codes
// - 2026-10-02 v0.2.0: CLI pipeline codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Command pipeline
	CodeCLIParse     Code = "CLI_PARSE"
	CodeCLIOverflow  Code = "CLI_OVERFLOW"
	CodeCLINotFound  Code = "CLI_NOT_FOUND"
	CodeCLIArgCount  Code = "CLI_ARG_COUNT"
	CodeCLIArgType   Code = "CLI_ARG_TYPE"
	CodeCLIBadTable  Code = "CLI_BAD_TABLE"
	CodeCLIRedirect  Code = "CLI_REDIRECT"

	// Storage
	CodeStorageError Code = "STORAGE_ERROR"
	CodeStorageFull  Code = "STORAGE_FULL"

	// Transport
	CodeTransportError Code = "TRANSPORT_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeCLIParse, CodeCLIOverflow, CodeCLINotFound, CodeCLIArgCount, CodeCLIArgType,
		CodeCLIBadTable, CodeCLIRedirect,
		CodeStorageError, CodeStorageFull,
		CodeTransportError,
		CodeConfigError, CodeInvalidConfig,
		CodeValidationFailed:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeCLIParse, CodeCLIOverflow, CodeCLINotFound, CodeCLIArgCount, CodeCLIArgType,
		CodeCLIBadTable, CodeCLIRedirect:
		return "cli"
	case CodeStorageError, CodeStorageFull:
		return "storage"
	case CodeTransportError:
		return "transport"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeInvalidInput:
		return "validation"
	default:
		return "generic"
	}
}

// Recoverable reports whether an error with this code leaves the session usable.
// Every command pipeline failure is recoverable; the line is simply discarded.
func (c Code) Recoverable() bool {
	return c.Category() == "cli" || c.Category() == "validation"
}
