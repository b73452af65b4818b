// File: doc.go
// Title: CLI Session Package Documentation
// Description: Handler side access to the running CLI instance.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-07
// Modified: 2026-10-07

// Package session lets command handlers reach the CLI instance that
// invoked them. The instance stores itself in the handler context;
// handlers call FromContext to print, install redirects or start jobs
// that span several ticks.
package session
