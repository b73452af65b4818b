// File: error_test.go
// Title: Core Error Tests
// Description: Tests for error construction, wrapping and code lookup.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("boom")

	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeCLIParse, SeverityLow},
		{CodeCLIArgType, SeverityLow},
		{CodeStorageError, SeverityHigh},
		{CodeStorageFull, SeverityMedium},
		{CodeInternal, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("severity for %s = %v, want %v", tt.code, err.Severity(), tt.want)
			}
		})
	}
}

func TestExplicitSeverityWins(t *testing.T) {
	err := New("x").WithSeverity(SeverityCritical).WithCode(CodeCLIParse)
	if err.Severity() != SeverityCritical {
		t.Errorf("explicit severity overwritten: %v", err.Severity())
	}
}

func TestWrapInheritsCode(t *testing.T) {
	base := New("bad token").WithCode(CodeCLIArgType).WithDetail("position", 2)
	wrapped := Wrap(base, "dispatch failed")

	if wrapped.Code() != CodeCLIArgType {
		t.Errorf("wrapped code = %v, want %v", wrapped.Code(), CodeCLIArgType)
	}
	if v, ok := wrapped.Detail("position"); !ok || v != 2 {
		t.Errorf("wrapped detail = %v, %v", v, ok)
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if wrapped.Error() != "dispatch failed: bad token" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestHasCodeThroughStdWrap(t *testing.T) {
	base := New("not found").WithCode(CodeCLINotFound)
	err := fmt.Errorf("outer: %w", Wrap(base, "middle").WithCode(CodeInternal))

	if !HasCode(err, CodeInternal) {
		t.Error("HasCode should see the outer coded error")
	}
	if !HasCode(err, CodeCLINotFound) {
		t.Error("HasCode should walk to the inner coded error")
	}
	if HasCode(err, CodeStorageFull) {
		t.Error("HasCode reported a code that is not in the chain")
	}
	if GetCode(err) != CodeInternal {
		t.Errorf("GetCode = %v", GetCode(err))
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of a plain error should be UNKNOWN")
	}
}

func TestStringAndJSON(t *testing.T) {
	err := Wrap(errors.New("disk"), "store write").
		WithCode(CodeStorageError).
		WithOperation("storage.WriteEntry").
		WithDetail("index", 3)

	s := err.String()
	for _, want := range []string{"Code: STORAGE_ERROR", "Operation: storage.WriteEntry", "index=3", "Cause: disk"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("MarshalJSON: %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if decoded["code"] != "STORAGE_ERROR" || decoded["severity"] != "high" {
		t.Errorf("unexpected json: %s", data)
	}
}

func TestCodeCategory(t *testing.T) {
	if CodeCLIOverflow.Category() != "cli" {
		t.Errorf("category = %s", CodeCLIOverflow.Category())
	}
	if !CodeCLIArgCount.Recoverable() {
		t.Error("CLI codes must be recoverable")
	}
	if CodeStorageError.Recoverable() {
		t.Error("storage errors are not pipeline errors")
	}
	if Code("NOPE").IsValid() {
		t.Error("unknown code reported valid")
	}
}
