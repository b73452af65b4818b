// File: tokenizer.go
// Title: Command Line Tokenizer
// Description: Splits a completed input line into argument tokens. Handles
//              quoted strings, brace delimited hex literals and backslash
//              escapes, and reports byte positions for syntax errors.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-17
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-17 v0.1.0: Whitespace, quote and brace tokenization
// - 2026-09-29 v0.2.0: Token kinds and positions, Lexer type

package tokenizer

import (
	"errors"
	"strings"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

var (
	// ErrParse reports malformed quoting, bracing or escaping
	ErrParse = errors.New("command syntax error")
	// ErrOverflow reports more tokens than the configured maximum
	ErrOverflow = errors.New("too many arguments")
)

// Kind classifies how a token was written
type Kind int

const (
	KindPlain Kind = iota
	// KindQuoted tokens were written as "..."; the quotes are removed
	KindQuoted
	// KindBraced tokens were written as {...}; the braces are kept
	KindBraced
)

// Token is one lexical token of a command line
type Token struct {
	Kind     Kind
	Value    string
	Position int
}

// Lexer produces tokens from one line
type Lexer struct {
	input    string
	position int
}

// NewLexer creates a lexer for line
func NewLexer(line string) *Lexer {
	return &Lexer{input: line}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// Next returns the next token. ok is false at the end of the line.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	for l.position < len(l.input) && isSpace(l.input[l.position]) {
		l.position++
	}
	if l.position >= len(l.input) {
		return Token{}, false, nil
	}

	start := l.position
	switch l.input[start] {
	case '"':
		l.position++
		value, err := l.readDelimited('"', start)
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: KindQuoted, Value: value, Position: start}, true, nil

	case '{':
		l.position++
		value, err := l.readDelimited('}', start)
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: KindBraced, Value: "{" + value + "}", Position: start}, true, nil
	}

	value, err := l.readPlain()
	if err != nil {
		return Token{}, false, err
	}
	return Token{Kind: KindPlain, Value: value, Position: start}, true, nil
}

// readDelimited reads up to the closing delimiter, which must be followed
// by whitespace or the end of the line
func (l *Lexer) readDelimited(closing byte, start int) (string, error) {
	var b strings.Builder
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == '\\':
			escaped, err := l.readEscape()
			if err != nil {
				return "", err
			}
			b.WriteByte(escaped)
			continue
		case c == closing:
			l.position++
			if l.position < len(l.input) && !isSpace(l.input[l.position]) {
				return "", parseError(l.position, "delimited token must be followed by whitespace")
			}
			return b.String(), nil
		}
		b.WriteByte(c)
		l.position++
	}
	return "", parseError(start, "unterminated "+string(closing))
}

func (l *Lexer) readPlain() (string, error) {
	var b strings.Builder
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case isSpace(c):
			return b.String(), nil
		case c == '\\':
			escaped, err := l.readEscape()
			if err != nil {
				return "", err
			}
			b.WriteByte(escaped)
			continue
		case c == '"' || c == '{':
			return "", parseError(l.position, "quote or brace inside a token")
		}
		b.WriteByte(c)
		l.position++
	}
	return b.String(), nil
}

// readEscape consumes a backslash and the escaped character. Only ", { and
// \ may be escaped.
func (l *Lexer) readEscape() (byte, error) {
	at := l.position
	l.position++
	if l.position >= len(l.input) {
		return 0, parseError(at, "trailing backslash")
	}
	c := l.input[l.position]
	if c != '"' && c != '{' && c != '\\' {
		return 0, parseError(at, "invalid escape sequence")
	}
	l.position++
	return c, nil
}

func parseError(position int, reason string) error {
	return gcerror.Wrap(ErrParse, reason).
		WithCode(gcerror.CodeCLIParse).
		WithOperation("tokenizer.Tokenize").
		WithDetail("position", position)
}

// TokenizeDetailed splits line into tokens with their kinds and positions.
// maxTokens <= 0 disables the limit.
func TokenizeDetailed(line string, maxTokens int) ([]Token, error) {
	lexer := NewLexer(line)
	var tokens []Token
	for {
		tok, ok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		if maxTokens > 0 && len(tokens) == maxTokens {
			return nil, gcerror.Wrap(ErrOverflow, "token limit exceeded").
				WithCode(gcerror.CodeCLIOverflow).
				WithOperation("tokenizer.Tokenize").
				WithDetail("limit", maxTokens)
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize splits line into token strings. Quotes around quoted tokens are
// removed, braces around hex literals are kept and escapes are resolved.
func Tokenize(line string, maxTokens int) ([]string, error) {
	tokens, err := TokenizeDetailed(line, maxTokens)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	return values, nil
}
