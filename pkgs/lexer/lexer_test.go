package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

// TestMaximalMunch exercises spec scenario 1: a**=2 tokenizes to
// NAME, POWER_ASSIGN, NUMBER, EOF (no NEWLINE is added for an input
// with no trailing newline; only the EOF is appended).
func TestMaximalMunch(t *testing.T) {
	tokens, err := New("a**=2", nil).Tokenize()
	require.Nil(t, err)

	require.GreaterOrEqual(t, len(tokens), 3)
	assert.Equal(t, NAME, tokens[0].Kind)
	assert.Equal(t, "a", tokens[0].Lexeme)
	assert.Equal(t, POWER_ASSIGN, tokens[1].Kind)
	assert.Equal(t, "**=", tokens[1].Lexeme)
	assert.Equal(t, NUMBER, tokens[2].Kind)
	assert.Equal(t, "2", tokens[2].Lexeme)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)
}

// TestMaximalMunchTieBreak checks every documented tie-break pair.
func TestMaximalMunchTieBreak(t *testing.T) {
	cases := []struct {
		input string
		want  TokenKind
	}{
		{"**=", POWER_ASSIGN},
		{"**", POWER},
		{"*", STAR},
		{"//=", DSLASH_ASSIGN},
		{"//", DSLASH},
		{"/", SLASH},
		{":=", WALRUS},
		{":", COLON},
		{"->", ARROW},
		{"-", MINUS},
	}
	for _, c := range cases {
		tokens, err := New(c.input, nil).Tokenize()
		require.Nil(t, err)
		require.NotEmpty(t, tokens)
		assert.Equalf(t, c.want, tokens[0].Kind, "input %q", c.input)
		assert.Equal(t, c.input, tokens[0].Lexeme)
	}
}

// TestIndentStack exercises spec scenario 2.
func TestIndentStack(t *testing.T) {
	src := "if x:\n    a\n    b\nc\n"
	tokens, err := New(src, nil).Tokenize()
	require.Nil(t, err)

	want := []TokenKind{
		IF, NAME, COLON, NEWLINE,
		INDENT, NAME, NEWLINE, NAME, NEWLINE,
		DEDENT, NAME, NEWLINE, EOF,
	}
	assert.Equal(t, want, kinds(tokens))
}

// TestIndentBalanced exercises P3: INDENT/DEDENT are balanced at EOF
// even without a trailing dedent to column zero in the source.
func TestIndentBalanced(t *testing.T) {
	src := "if a:\n  if b:\n    x\n"
	tokens, err := New(src, nil).Tokenize()
	require.Nil(t, err)

	indents, dedents := 0, 0
	for _, tok := range tokens {
		switch tok.Kind {
		case INDENT:
			indents++
		case DEDENT:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)
}

func TestTabWidthFour(t *testing.T) {
	src := "if a:\n\tx\n"
	tokens, err := New(src, nil).Tokenize()
	require.Nil(t, err)
	assert.Contains(t, kinds(tokens), INDENT)
}

func TestStringEscapedQuote(t *testing.T) {
	tokens, err := New(`"a\"b"`, nil).Tokenize()
	require.Nil(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, STRING, tokens[0].Kind)
	assert.Equal(t, `"a\"b"`, tokens[0].Lexeme)
}

func TestCommentStripsTrailingWhitespace(t *testing.T) {
	tokens, err := New("# hello   \nx", nil).Tokenize()
	require.Nil(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, COMMENT, tokens[0].Kind)
	assert.Equal(t, "# hello", tokens[0].Lexeme)
}

func TestUnexpectedOperatorError(t *testing.T) {
	tokens, err := New("$", nil).Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, 0, err.Index)
	_ = tokens
}

// TestSpanRoundTrip exercises P2: for every non-synthetic token,
// source[span] == lexeme.
func TestSpanRoundTrip(t *testing.T) {
	src := "def f(x):\n    return x + 1\n"
	tokens, err := New(src, nil).Tokenize()
	require.Nil(t, err)

	for _, tok := range tokens {
		if tok.IsSynthetic() {
			continue
		}
		assert.Equal(t, tok.Lexeme, tok.Span.Slice(src))
	}
}

func TestKeywordClassification(t *testing.T) {
	tokens, err := New("if elif else while for in return None True False", nil).Tokenize()
	require.Nil(t, err)
	want := []TokenKind{IF, ELIF, ELSE, WHILE, FOR, IN, RETURN, NONE, TRUE, FALSE}
	got := kinds(tokens)[:len(want)]
	assert.Equal(t, want, got)
}
