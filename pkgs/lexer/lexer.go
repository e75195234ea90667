package lexer

import (
	"fmt"

	"github.com/codeFather2/python-ast-visualizer/pkgs/logging"
	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

// ASCII classification tables, built once at init. Grounded on the
// teacher's pkgs/lexer/lexer.go, which builds identical [128]bool
// lookup arrays for fast single-byte dispatch instead of calling
// unicode.IsLetter/IsDigit per byte.
var (
	isIdentStart [128]bool
	isIdentPart  [128]bool
	isDigit      [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		digit := '0' <= ch && ch <= '9'
		isIdentStart[i] = letter
		isIdentPart[i] = letter || digit
		isDigit[i] = digit
	}
}

const tabWidth = 4

// Tokenizer converts source text into a token sequence, synthesizing
// NEWLINE/INDENT/DEDENT tokens from an indent stack of column widths
// (spec §4.1). It is single-pass, single-use, and halts on the first
// scanning failure.
type Tokenizer struct {
	input  string
	index  int
	tokens []Token
	indent []int
	logger logging.Logger
}

// New creates a Tokenizer over source, logging through logger. Pass
// logging.Discard when observability is not needed.
func New(source string, logger logging.Logger) *Tokenizer {
	if logger == nil {
		logger = logging.Discard
	}
	return &Tokenizer{input: source, logger: logger}
}

// Tokenize runs the tokenizer to completion, returning every token
// produced so far and, if scanning failed, the LexingError that halted
// it. COMMENT tokens are included in the returned stream; callers that
// don't want them (the parser) filter them out.
func (t *Tokenizer) Tokenize() ([]Token, *LexingError) {
	for t.index < len(t.input) {
		if err := t.next(); err != nil {
			t.logger.Error(err.Error())
			return t.tokens, err
		}
	}
	if len(t.tokens) == 0 || t.tokens[len(t.tokens)-1].Kind != EOF {
		t.flushDedents()
		t.emit(EOF, "", t.index, 0)
	}
	return t.tokens, nil
}

func (t *Tokenizer) lastKind() TokenKind {
	if len(t.tokens) == 0 {
		return ILLEGAL
	}
	return t.tokens[len(t.tokens)-1].Kind
}

// next produces exactly one token (or synthetic run culminating in
// one), advancing t.index past it.
func (t *Tokenizer) next() *LexingError {
	if len(t.tokens) == 0 || t.lastKind() == NEWLINE {
		t.handleIndent()
	} else {
		t.skipTrailingWhitespace()
	}

	if t.index >= len(t.input) {
		t.flushDedents()
		t.emit(EOF, "", t.index, 0)
		return nil
	}

	ch := t.input[t.index]
	switch {
	case ch == '\n':
		t.emit(NEWLINE, "\n", t.index, 1)
		t.index++
	case ch < 128 && isIdentStart[ch]:
		t.scanNameOrKeyword()
	case ch < 128 && isDigit[ch]:
		t.scanNumber()
	case ch == '\'' || ch == '"':
		t.scanString()
	case ch == '#':
		t.scanComment()
	default:
		return t.scanOperatorOrPunctuator()
	}
	return nil
}

// handleIndent measures leading whitespace columns (space=1, tab=4)
// and reconciles the indent stack against it, emitting INDENT or a run
// of DEDENT tokens.
func (t *Tokenizer) handleIndent() {
	start := t.index
	columns := 0
	for t.index < len(t.input) {
		switch t.input[t.index] {
		case ' ':
			columns++
		case '\t':
			columns += tabWidth
		default:
			goto measured
		}
		t.index++
	}
measured:
	top := 0
	if len(t.indent) > 0 {
		top = t.indent[len(t.indent)-1]
	}
	if columns > top {
		t.indent = append(t.indent, columns)
		t.emit(INDENT, "", start, 0)
		t.logger.Info(fmt.Sprintf("indent: column %d (depth %d)", columns, len(t.indent)))
		return
	}
	for len(t.indent) > 0 && t.indent[len(t.indent)-1] > columns {
		t.indent = t.indent[:len(t.indent)-1]
		t.emit(DEDENT, "", start, 0)
		t.logger.Info(fmt.Sprintf("dedent: column %d (depth %d)", columns, len(t.indent)))
	}
}

// flushDedents pops every remaining indent level at end of input,
// guaranteeing property P3 (balanced INDENT/DEDENT).
func (t *Tokenizer) flushDedents() {
	for len(t.indent) > 0 {
		t.indent = t.indent[:len(t.indent)-1]
		t.emit(DEDENT, "", t.index, 0)
	}
}

// skipTrailingWhitespace skips spaces, tabs, and carriage returns
// between tokens on the same logical line.
func (t *Tokenizer) skipTrailingWhitespace() {
	for t.index < len(t.input) {
		switch t.input[t.index] {
		case ' ', '\t', '\r':
			t.index++
		default:
			return
		}
	}
}

func (t *Tokenizer) scanNameOrKeyword() {
	start := t.index
	t.index++
	for t.index < len(t.input) && t.input[t.index] < 128 && isIdentPart[t.input[t.index]] {
		t.index++
	}
	text := t.input[start:t.index]
	kind := NAME
	if kw, ok := keywords[text]; ok {
		kind = kw
	}
	t.emitRange(kind, text, start)
}

func (t *Tokenizer) scanNumber() {
	start := t.index
	t.index++
	for t.index < len(t.input) && t.input[t.index] < 128 && isDigit[t.input[t.index]] {
		t.index++
	}
	t.emitRange(NUMBER, t.input[start:t.index], start)
}

// scanString scans a quoted string, ending at the first unescaped
// occurrence of the opening quote. Escapes beyond the closing-quote
// escape are not interpreted; the raw lexeme (including both quotes)
// is the token value.
func (t *Tokenizer) scanString() {
	start := t.index
	quote := t.input[t.index]
	i := t.index + 1
	for i < len(t.input) {
		if t.input[i] == quote && t.input[i-1] != '\\' {
			i++
			break
		}
		i++
	}
	t.index = i
	t.emitRange(STRING, t.input[start:t.index], start)
}

// scanComment consumes up to, but not including, the end-of-line (or
// EOF), trimming trailing whitespace from the stored lexeme. The line
// break itself is left for the next token.
func (t *Tokenizer) scanComment() {
	start := t.index
	for t.index < len(t.input) && t.input[t.index] != '\n' && t.input[t.index] != '\r' {
		t.index++
	}
	text := t.input[start:t.index]
	for len(text) > 0 && (text[len(text)-1] == ' ' || text[len(text)-1] == '\t') {
		text = text[:len(text)-1]
	}
	t.emitRange(COMMENT, text, start)
}

// scanOperatorOrPunctuator applies maximal munch: the longest prefix
// of the remaining input that appears in operatorTable wins, so
// "**=" beats "**" beats "*" and table ordering never matters.
func (t *Tokenizer) scanOperatorOrPunctuator() *LexingError {
	start := t.index
	limit := maxOperatorLen
	if remaining := len(t.input) - start; remaining < limit {
		limit = remaining
	}
	for length := limit; length >= 1; length-- {
		candidate := t.input[start : start+length]
		if kind, ok := operatorTable[candidate]; ok {
			t.index += length
			t.emitRange(kind, candidate, start)
			return nil
		}
	}
	end := start + 1
	if end < len(t.input) {
		end++
	}
	offending := t.input[start:end]
	message := "Unexpected operator or punctuator"
	if suggestion, ok := suggestOperator(offending); ok {
		message = fmt.Sprintf("%s (did you mean %q?)", message, suggestion)
	}
	return &LexingError{Index: start, Message: message}
}

func (t *Tokenizer) emit(kind TokenKind, lexeme string, begin, length int) {
	t.tokens = append(t.tokens, Token{Kind: kind, Lexeme: lexeme, Span: span.New(begin, length)})
}

func (t *Tokenizer) emitRange(kind TokenKind, lexeme string, begin int) {
	t.emit(kind, lexeme, begin, len(lexeme))
}
