// Package stringx provides small string helpers shared across gecli.
//
// Package: stringx
// Title: String Helpers
// Description: Blank checks, rune-aware truncation and padding, longest
//              common prefix computation for autocompletion and ASCII case
//              folding for case-insensitive command lookup.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-05
package stringx
