package tokenizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "rgb set 1 2 3", []string{"rgb", "set", "1", "2", "3"}},
		{"surrounding whitespace", "  help \t ", []string{"help"}},
		{"empty line", "", nil},
		{"quoted string", `cmd "a b c" 5`, []string{"cmd", "a b c", "5"}},
		{"empty quotes", `cmd ""`, []string{"cmd", ""}},
		{"hex literal", "cmd {AA BB}", []string{"cmd", "{AA BB}"}},
		{"odd hex literal", "cmd {AAB}", []string{"cmd", "{AAB}"}},
		{"escaped quotes", `cmd \"quoted\"`, []string{"cmd", `"quoted"`}},
		{"escaped brace", `cmd \{x`, []string{"cmd", "{x"}},
		{"escaped backslash", `cmd a\\b`, []string{"cmd", `a\b`}},
		{"escape inside quotes", `say "he said \"hi\""`, []string{"say", `he said "hi"`}},
		{"closing brace in plain token", "cmd a}b", []string{"cmd", "a}b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), len(got))
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	words := []string{"nvm3_define", "abc123", "X", "0x1F", "42"}
	line := ""
	for i, w := range words {
		if i > 0 {
			line += " "
		}
		line += w
	}

	got, err := Tokenize(line, 16)
	require.NoError(t, err)
	assert.Equal(t, words, got)
}

func TestTokenizeParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		position int
	}{
		{"unterminated quote", `cmd "abc`, 4},
		{"unterminated brace", "cmd {AA", 4},
		{"text after quote", `cmd "a"b`, 7},
		{"text after brace", "cmd {AA}x", 8},
		{"quote inside token", `cmd ab"c"`, 6},
		{"brace inside token", "cmd ab{AA}", 6},
		{"invalid escape", `cmd a\nb`, 5},
		{"trailing backslash", `cmd a\`, 5},
		{"invalid escape in quotes", `cmd "a\x"`, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.False(t, errors.Is(err, ErrOverflow))
			assert.True(t, gcerror.HasCode(err, gcerror.CodeCLIParse))

			var gcErr *gcerror.Error
			require.True(t, errors.As(err, &gcErr))
			pos, _ := gcErr.Detail("position")
			assert.Equal(t, tt.position, pos)
		})
	}
}

func TestTokenizeOverflow(t *testing.T) {
	_, err := Tokenize("a b c d", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.False(t, errors.Is(err, ErrParse))
	assert.True(t, gcerror.HasCode(err, gcerror.CodeCLIOverflow))

	got, err := Tokenize("a b c", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestTokenizeDetailed(t *testing.T) {
	tokens, err := TokenizeDetailed(`echo "x y" {01}`, 0)
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, Token{Kind: KindPlain, Value: "echo", Position: 0}, tokens[0])
	assert.Equal(t, Token{Kind: KindQuoted, Value: "x y", Position: 5}, tokens[1])
	assert.Equal(t, Token{Kind: KindBraced, Value: "{01}", Position: 11}, tokens[2])
}

func TestTokensDoNotAliasInput(t *testing.T) {
	line := []byte(`cmd "a\"b"`)
	got, err := Tokenize(string(line), 0)
	require.NoError(t, err)

	line[0] = 'X'
	assert.Equal(t, "cmd", got[0])
	assert.Equal(t, `a"b`, got[1])
}
