// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a token stream into an ast.Root. Grounded on
// original_source/parser_.py's grammar shape and the teacher's
// cli/internal/parser/parser.go error-accumulation idiom: failures are
// typed *ParsingError values, logged at the statement boundary and
// counted in Stats rather than kept in a slice.
package parser

import (
	"fmt"

	"github.com/codeFather2/python-ast-visualizer/pkgs/ast"
	"github.com/codeFather2/python-ast-visualizer/pkgs/lexer"
	"github.com/codeFather2/python-ast-visualizer/pkgs/logging"
	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

// Stats summarizes one Parse run for the CLI's --debug report,
// generalizing the teacher's `len(p.errors)` accumulator into a small
// struct with a node count alongside it.
type Stats struct {
	RecoveredErrors int
	NodesProduced   int
}

// Parser consumes a token slice (COMMENT tokens already stripped) and
// produces an ast.Root, recovering from per-statement errors instead of
// aborting the whole parse (spec §4.2).
type Parser struct {
	tokens []lexer.Token
	index  int
	logger logging.Logger
	stats  Stats
}

// New builds a Parser over tokens, discarding any COMMENT tokens
// (comments carry no AST meaning). Pass logging.Discard when
// observability is not needed.
func New(tokens []lexer.Token, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Discard
	}
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == lexer.COMMENT {
			continue
		}
		filtered = append(filtered, tok)
	}
	return &Parser{tokens: filtered, logger: logger}
}

// Parse runs file_input to completion. It never returns an error: a
// statement that fails to parse is logged, skipped, and omitted from
// Root.Children.
func (p *Parser) Parse() (*ast.Root, Stats) {
	var children []ast.Node
	for {
		tok := p.current()
		if tok == nil || tok.Kind == lexer.EOF {
			break
		}
		if tok.Kind == lexer.NEWLINE {
			p.advance()
			continue
		}
		node, err := p.statement()
		if err != nil {
			p.logger.Error(err.Error())
			p.stats.RecoveredErrors++
			p.synchronize()
			continue
		}
		if node != nil {
			children = append(children, node)
			p.stats.NodesProduced++
		}
	}

	var sp span.Span
	if len(children) > 0 {
		spans := make([]span.Span, len(children))
		for i, c := range children {
			spans[i] = c.Span()
		}
		sp = span.UnionAll(spans...)
	}
	return &ast.Root{Sp: sp, Children: children}, p.stats
}

// --- token stream helpers ----------------------------------------------

func (p *Parser) current() *lexer.Token {
	if p.index >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.index]
}

func (p *Parser) peek(offset int) *lexer.Token {
	i := p.index + offset
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	return &p.tokens[i]
}

func (p *Parser) advance() *lexer.Token {
	tok := p.current()
	if tok != nil {
		p.index++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	tok := p.current()
	return tok != nil && tok.Kind == kind
}

func (p *Parser) expect(kind lexer.TokenKind) (*lexer.Token, error) {
	tok := p.current()
	if tok == nil || tok.Kind != kind {
		return nil, p.unexpected(fmt.Sprintf("expected %s", kind))
	}
	p.advance()
	return tok, nil
}

// synchronize skips forward to the end of the failed statement, the
// statement-boundary recovery point spec §4.2 calls for. It tracks
// INDENT/DEDENT depth so a failed compound statement's entire nested
// block is consumed (not just its header line): a NEWLINE only ends
// recovery at depth zero, and only when it isn't immediately followed
// by an INDENT starting that statement's own body. A DEDENT seen at
// depth zero belongs to an enclosing block, not the failed statement,
// and is left for the caller.
func (p *Parser) synchronize() {
	depth := 0
	for {
		tok := p.current()
		if tok == nil {
			return
		}
		switch tok.Kind {
		case lexer.EOF:
			return
		case lexer.INDENT:
			depth++
			p.advance()
		case lexer.DEDENT:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			if depth == 0 {
				return
			}
		case lexer.NEWLINE:
			p.advance()
			if depth == 0 {
				if next := p.current(); next != nil && next.Kind == lexer.INDENT {
					continue
				}
				return
			}
		default:
			p.advance()
		}
	}
}

// unexpected builds a ParsingError at the current token, enriching the
// message with a "did you mean" keyword suggestion when the offending
// token is a NAME that closely resembles a keyword (spec §4.2).
func (p *Parser) unexpected(context string) error {
	tok := p.current()
	if tok == nil {
		return &ParsingError{Index: len(p.tokens), Message: context + ": unexpected end of input"}
	}
	message := fmt.Sprintf("%s, got %s", context, tok)
	if tok.Kind == lexer.NAME {
		if suggestion, ok := lexer.SuggestKeyword(tok.Lexeme); ok && suggestion != tok.Lexeme {
			message = fmt.Sprintf("%s (did you mean %q?)", message, suggestion)
		}
	}
	return &ParsingError{Index: tok.Span.Begin, Message: message}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	index := len(p.tokens)
	if tok := p.current(); tok != nil {
		index = tok.Span.Begin
	}
	return &ParsingError{Index: index, Message: fmt.Sprintf(format, args...)}
}

// --- statements ----------------------------------------------------------

var compoundStarts = map[lexer.TokenKind]bool{
	lexer.FOR: true, lexer.IF: true, lexer.WHILE: true, lexer.DEF: true,
	lexer.CLASS: true, lexer.TRY: true, lexer.WITH: true,
}

func (p *Parser) statement() (ast.Node, error) {
	tok := p.current()
	if tok == nil {
		return nil, p.errorf("unexpected end of input")
	}
	if compoundStarts[tok.Kind] {
		return p.compoundStmt()
	}
	return p.simpleStmt()
}

func (p *Parser) compoundStmt() (ast.Node, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.FOR:
		return p.forStmt()
	case lexer.IF:
		return p.ifStmt()
	case lexer.WHILE:
		return p.whileStmt()
	case lexer.DEF:
		return p.defStmt()
	case lexer.CLASS, lexer.TRY, lexer.WITH:
		return nil, p.errorf("%s statement not implemented", tok.Kind)
	}
	return nil, p.unexpected("expected a statement")
}

func (p *Parser) forStmt() (ast.Node, error) {
	kw := p.advance()
	target, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iterator, err := p.namedExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.ELSE) {
		p.advance()
		if _, err := p.block(); err != nil {
			return nil, err
		}
	}
	sp := span.Union(kw.Span, body.Span())
	return &ast.For{Sp: sp, Target: target, Iterator: iterator, Body: body}, nil
}

func (p *Parser) ifStmt() (ast.Node, error) {
	kw := p.advance()
	condition, err := p.namedExpr()
	if err != nil {
		return nil, err
	}
	trueBranch, err := p.block()
	if err != nil {
		return nil, err
	}
	var falseBranch ast.Node
	if p.check(lexer.ELIF) {
		falseBranch, err = p.ifStmt()
		if err != nil {
			return nil, err
		}
	} else if p.check(lexer.ELSE) {
		p.advance()
		falseBranch, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	tail := trueBranch.Span()
	if falseBranch != nil {
		tail = falseBranch.Span()
	}
	sp := span.Union(kw.Span, tail)
	return &ast.IfElse{Sp: sp, Condition: condition, TrueBranch: trueBranch, FalseBranch: falseBranch}, nil
}

func (p *Parser) whileStmt() (ast.Node, error) {
	kw := p.advance()
	condition, err := p.namedExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.ELSE) {
		p.advance()
		if _, err := p.block(); err != nil {
			return nil, err
		}
	}
	sp := span.Union(kw.Span, body.Span())
	return &ast.While{Sp: sp, Condition: condition, Body: body}, nil
}

// defStmt parses `def NAME ( ... ) [-> ...] : block`. Everything
// between the name and the terminating colon is kept as an opaque
// WrapperNode (spec §4.2/§9 — parameter structure is deliberately not
// modeled).
func (p *Parser) defStmt() (ast.Node, error) {
	kw := p.advance()
	nameTok, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	sigStart := p.index
	depth := 0
	for {
		tok := p.current()
		if tok == nil {
			return nil, p.errorf("unexpected end of input in function signature")
		}
		if tok.Kind == lexer.COLON && depth == 0 {
			break
		}
		switch tok.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		}
		p.advance()
	}
	sigTokens := append([]lexer.Token(nil), p.tokens[sigStart:p.index]...)
	sigSpan := span.New(nameTok.Span.End(), 0)
	if len(sigTokens) > 0 {
		sigSpan = span.Union(sigTokens[0].Span, sigTokens[len(sigTokens)-1].Span)
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	name := ast.NewId(nameTok.Span, nameTok.Lexeme)
	sig := &ast.WrapperNode{Sp: sigSpan, Tokens: sigTokens}
	sp := span.Union(kw.Span, body.Span())
	return &ast.Definition{Sp: sp, Name: name, Signature: sig, Body: body}, nil
}

// block parses `: NEWLINE INDENT statement+ DEDENT` or the one-line
// form `: simple_stmt`.
func (p *Parser) block() (ast.Node, error) {
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if !p.check(lexer.NEWLINE) {
		return p.simpleStmt()
	}
	newlineTok := p.advance()
	indentTok, err := p.expect(lexer.INDENT)
	if err != nil {
		return nil, err
	}
	var statements []ast.Node
	for !p.check(lexer.DEDENT) {
		if p.current() == nil {
			return nil, p.errorf("unexpected end of input in block")
		}
		if p.check(lexer.NEWLINE) {
			p.advance()
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			p.logger.Error(err.Error())
			p.stats.RecoveredErrors++
			p.synchronize()
			continue
		}
		if stmt != nil {
			statements = append(statements, stmt)
			p.stats.NodesProduced++
		}
	}
	dedentTok := p.advance()
	sp := span.Union(indentTok.Span, dedentTok.Span)
	if sp.Length == 0 {
		sp = span.Union(newlineTok.Span, dedentTok.Span)
	}
	return &ast.BlockStatement{Sp: sp, Children: statements}, nil
}

// namedExpr is `NAME ':=' expression | expression`.
func (p *Parser) namedExpr() (ast.Node, error) {
	if p.check(lexer.NAME) {
		if next := p.peek(1); next != nil && next.Kind == lexer.WALRUS {
			nameTok := p.advance()
			opTok := p.advance()
			right, err := p.expression()
			if err != nil {
				return nil, err
			}
			left := ast.NewId(nameTok.Span, nameTok.Lexeme)
			sp := span.Union(left.Sp, right.Span())
			return &ast.Assignment{Sp: sp, Target: left, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Value: right}, nil
		}
	}
	return p.expression()
}

// --- simple statements -----------------------------------------------------

func (p *Parser) simpleStmt() (ast.Node, error) {
	result, err := p.smallStmt()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	switch {
	case tok == nil:
		return result, nil
	case tok.Kind == lexer.NEWLINE:
		p.advance()
	case tok.Kind == lexer.DEDENT || tok.Kind == lexer.EOF:
		// block/file_input handles these; leave untouched.
	default:
		return nil, p.unexpected("simple statement should end with NEWLINE, DEDENT, or EOF")
	}
	return result, nil
}

func (p *Parser) smallStmt() (ast.Node, error) {
	tok := p.current()
	if tok == nil {
		return nil, p.errorf("unexpected end of input")
	}
	switch tok.Kind {
	case lexer.RETURN:
		return p.returnStmt()
	case lexer.YIELD:
		return p.yieldStmt()
	case lexer.PASS, lexer.BREAK, lexer.CONTINUE:
		p.advance()
		return ast.NewKeywordLit(tok.Span, tok.Lexeme), nil
	case lexer.DEL, lexer.ASSERT, lexer.RAISE, lexer.GLOBAL, lexer.NONLOCAL, lexer.STAR:
		return nil, p.errorf("%s statement not implemented", tok.Kind)
	}

	if next := p.peek(1); tok.Kind == lexer.NAME && next != nil && next.Kind == lexer.COLON {
		return p.assignment()
	}
	if p.lineHasAssignOp() {
		return p.assignment()
	}
	return p.starExpressions()
}

func (p *Parser) returnStmt() (ast.Node, error) {
	kw := p.advance()
	if p.atLineEnd() {
		return &ast.Return{Sp: kw.Span, Expr: nil}, nil
	}
	expr, err := p.starExpressions()
	if err != nil {
		return nil, err
	}
	sp := span.Union(kw.Span, expr.Span())
	return &ast.Return{Sp: sp, Expr: expr}, nil
}

func (p *Parser) yieldStmt() (ast.Node, error) {
	kw := p.advance()
	if p.atLineEnd() {
		return &ast.Yield{Sp: kw.Span, Expr: nil}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	sp := span.Union(kw.Span, expr.Span())
	return &ast.Yield{Sp: sp, Expr: expr}, nil
}

func (p *Parser) atLineEnd() bool {
	tok := p.current()
	return tok == nil || tok.Kind == lexer.NEWLINE || tok.Kind == lexer.DEDENT || tok.Kind == lexer.EOF
}

// lineHasAssignOp implements the assignment lookahead rule (spec
// §4.2): scan forward to the end of the logical line, ignoring nested
// parens/brackets/braces, looking for an assignment operator.
func (p *Parser) lineHasAssignOp() bool {
	depth := 0
	for i := p.index; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Kind {
		case lexer.NEWLINE, lexer.EOF, lexer.DEDENT:
			return false
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
		if depth == 0 && lexer.IsAssignOp(tok.Kind) {
			return true
		}
	}
	return false
}

// assignment covers both the annotated form (NAME ':' expression ('='
// annotated_rhs)?) and the plain form (target assign_op
// star_expressions).
func (p *Parser) assignment() (ast.Node, error) {
	if p.check(lexer.NAME) {
		if next := p.peek(1); next != nil && next.Kind == lexer.COLON {
			nameTok := p.advance()
			p.advance() // colon
			annotation, err := p.expression()
			if err != nil {
				return nil, err
			}
			target := ast.NewId(nameTok.Span, nameTok.Lexeme)
			if p.check(lexer.ASSIGN) {
				opTok := p.advance()
				value, err := p.starExpressions()
				if err != nil {
					return nil, err
				}
				sp := span.Union(target.Sp, value.Span())
				return &ast.Assignment{Sp: sp, Target: target, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Value: value, Annotation: annotation}, nil
			}
			sp := span.Union(target.Sp, annotation.Span())
			return &ast.Assignment{Sp: sp, Target: target, Annotation: annotation}, nil
		}
	}

	target, err := p.primary()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	if tok == nil || !lexer.IsAssignOp(tok.Kind) {
		return nil, p.unexpected("expected an assignment operator")
	}
	opTok := p.advance()
	value, err := p.starExpressions()
	if err != nil {
		return nil, err
	}
	sp := span.Union(target.Span(), value.Span())
	return &ast.Assignment{Sp: sp, Target: target, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Value: value}, nil
}

// starExpressions is a comma-separated expression list; more than one
// element folds into a Collection (tuple-shaped), matching the
// original's star_expressions/testlist role.
func (p *Parser) starExpressions() (ast.Node, error) {
	first, err := p.starExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.COMMA) {
		return first, nil
	}
	elements := []ast.Node{first}
	for p.check(lexer.COMMA) {
		p.advance()
		if p.atLineEnd() || p.check(lexer.RPAREN) || p.check(lexer.RBRACKET) || p.check(lexer.RBRACE) || p.check(lexer.COLON) {
			break
		}
		next, err := p.starExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}
	spans := make([]span.Span, len(elements))
	for i, e := range elements {
		spans[i] = e.Span()
	}
	return &ast.Collection{Sp: span.UnionAll(spans...), Elements: elements}, nil
}

// starExpression is a single `['*'] expression`; a leading STAR marks
// an unpacking target/value and is kept as a Unary wrapper.
func (p *Parser) starExpression() (ast.Node, error) {
	if p.check(lexer.STAR) {
		opTok := p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		sp := span.Union(opTok.Span, expr.Span())
		return &ast.Unary{Sp: sp, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Expr: expr}, nil
	}
	return p.expression()
}

// --- expressions, precedence-climbing from lowest to highest ---------------

func (p *Parser) expression() (ast.Node, error) {
	if p.check(lexer.LAMBDA) {
		return nil, p.errorf("lambda not implemented")
	}
	left, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.IF) {
		p.advance()
		condition, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ELSE); err != nil {
			return nil, err
		}
		elseBranch, err := p.expression()
		if err != nil {
			return nil, err
		}
		sp := span.Union(left.Span(), elseBranch.Span())
		return &ast.Conditional{Sp: sp, Condition: condition, Then: left, Else: elseBranch}, nil
	}
	return left, nil
}

func (p *Parser) disjunction() (ast.Node, error) {
	return p.leftAssoc(p.conjunction, lexer.OR)
}

func (p *Parser) conjunction() (ast.Node, error) {
	return p.leftAssoc(p.inversion, lexer.AND)
}

// inversion handles prefix `not`.
func (p *Parser) inversion() (ast.Node, error) {
	if p.check(lexer.NOT) {
		opTok := p.advance()
		expr, err := p.inversion()
		if err != nil {
			return nil, err
		}
		sp := span.Union(opTok.Span, expr.Span())
		return &ast.Unary{Sp: sp, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Expr: expr}, nil
	}
	return p.comparison()
}

// comparison handles single-token comparison operators plus the
// two-word "is not"/"not in" operators (spec §4.2 key rules).
func (p *Parser) comparison() (ast.Node, error) {
	left, err := p.bitwiseOr()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	if tok == nil {
		return left, nil
	}
	if lexer.IsComparisonOp(tok.Kind) {
		opTok := p.advance()
		right, err := p.bitwiseOr()
		if err != nil {
			return nil, err
		}
		sp := span.Union(left.Span(), right.Span())
		return &ast.Binary{Sp: sp, Left: left, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Right: right}, nil
	}
	if tok.Kind == lexer.IN || tok.Kind == lexer.IS || tok.Kind == lexer.NOT {
		firstTok := p.advance()
		op := ast.NewOperatorLit(firstTok.Span, firstTok.Lexeme)
		if next := p.current(); next != nil && (next.Kind == lexer.IN || next.Kind == lexer.NOT) {
			secondTok := p.advance()
			op = ast.NewOperatorLit(span.Union(firstTok.Span, secondTok.Span), firstTok.Lexeme+" "+secondTok.Lexeme)
		}
		right, err := p.bitwiseOr()
		if err != nil {
			return nil, err
		}
		sp := span.Union(left.Span(), right.Span())
		return &ast.Binary{Sp: sp, Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) bitwiseOr() (ast.Node, error)  { return p.leftAssoc(p.bitwiseXor, lexer.PIPE) }
func (p *Parser) bitwiseXor() (ast.Node, error) { return p.leftAssoc(p.bitwiseAnd, lexer.CARET) }
func (p *Parser) bitwiseAnd() (ast.Node, error) { return p.leftAssoc(p.shiftExpr, lexer.AMP) }
func (p *Parser) shiftExpr() (ast.Node, error) {
	return p.leftAssoc(p.sum, lexer.LSHIFT, lexer.RSHIFT)
}
func (p *Parser) sum() (ast.Node, error) { return p.leftAssoc(p.term, lexer.PLUS, lexer.MINUS) }
func (p *Parser) term() (ast.Node, error) {
	return p.leftAssoc(p.factor, lexer.STAR, lexer.SLASH, lexer.DSLASH, lexer.PERCENT, lexer.AT)
}

// factor handles prefix unary +, -, ~.
func (p *Parser) factor() (ast.Node, error) {
	tok := p.current()
	if tok != nil && (tok.Kind == lexer.PLUS || tok.Kind == lexer.MINUS || tok.Kind == lexer.TILDE) {
		opTok := p.advance()
		expr, err := p.factor()
		if err != nil {
			return nil, err
		}
		sp := span.Union(opTok.Span, expr.Span())
		return &ast.Unary{Sp: sp, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Expr: expr}, nil
	}
	return p.power()
}

// power is right-associative: recurse on the right operand at the
// same precedence rather than looping (spec §4.2 key rules).
func (p *Parser) power() (ast.Node, error) {
	left, err := p.awaitPrimary()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.POWER) {
		opTok := p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		sp := span.Union(left.Span(), right.Span())
		return &ast.Binary{Sp: sp, Left: left, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Right: right}, nil
	}
	return left, nil
}

func (p *Parser) awaitPrimary() (ast.Node, error) {
	if p.check(lexer.AWAIT) {
		opTok := p.advance()
		expr, err := p.primary()
		if err != nil {
			return nil, err
		}
		sp := span.Union(opTok.Span, expr.Span())
		return &ast.Await{Sp: sp, Expr: expr}, nil
	}
	return p.primary()
}

// leftAssoc folds next() across a run of same-precedence operators, the
// shared left-associative binary-operator loop used by the or, and, |,
// ^, &, shift, sum and term levels (comparison, prefix operators and
// power have their own functions).
func (p *Parser) leftAssoc(next func() (ast.Node, error), kinds ...lexer.TokenKind) (ast.Node, error) {
	result, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok == nil || !containsKind(kinds, tok.Kind) {
			return result, nil
		}
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		sp := span.Union(result.Span(), right.Span())
		result = &ast.Binary{Sp: sp, Left: result, Op: ast.NewOperatorLit(opTok.Span, opTok.Lexeme), Right: right}
	}
}

func containsKind(kinds []lexer.TokenKind, k lexer.TokenKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// --- primary / atom --------------------------------------------------------

// primary is `atom` followed by zero or more of `.NAME`, `(args)`,
// `[slices]` (spec §4.2).
func (p *Parser) primary() (ast.Node, error) {
	result, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok == nil {
			return result, nil
		}
		switch tok.Kind {
		case lexer.DOT:
			p.advance()
			nameTok, err := p.expect(lexer.NAME)
			if err != nil {
				return nil, err
			}
			name := ast.NewId(nameTok.Span, nameTok.Lexeme)
			sp := span.Union(result.Span(), nameTok.Span)
			result = &ast.MemberRef{Sp: sp, Target: result, Name: name}
		case lexer.LPAREN:
			args, closeTok, err := p.invocationArgs()
			if err != nil {
				return nil, err
			}
			sp := span.Union(result.Span(), closeTok.Span)
			result = &ast.Invocation{Sp: sp, Target: result, Args: args}
		case lexer.LBRACKET:
			index, closeTok, err := p.indexOrSlice()
			if err != nil {
				return nil, err
			}
			sp := span.Union(result.Span(), closeTok.Span)
			result = &ast.Indexer{Sp: sp, Target: result, Index: index}
		default:
			return result, nil
		}
	}
}

// invocationArgs parses `( expr (',' expr)* )` as a pure expression
// list (spec §9 open question: the source's generator_args folds the
// raw paren tokens into the list; we don't).
func (p *Parser) invocationArgs() ([]ast.Node, *lexer.Token, error) {
	p.advance() // consume '('
	var args []ast.Node
	for !p.check(lexer.RPAREN) {
		if p.current() == nil {
			return nil, nil, p.errorf("unexpected end of input in argument list")
		}
		arg, err := p.starExpression()
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	closeTok, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, nil, err
	}
	return args, closeTok, nil
}

// indexOrSlice parses a single `[index]` or `[start:stop:step]`.
func (p *Parser) indexOrSlice() (ast.Node, *lexer.Token, error) {
	p.advance() // consume '['
	var start, stop, step ast.Node
	var err error
	if !p.check(lexer.COLON) && !p.check(lexer.RBRACKET) {
		start, err = p.disjunction()
		if err != nil {
			return nil, nil, err
		}
	}
	isSlice := false
	if p.check(lexer.COLON) {
		isSlice = true
		p.advance()
		if !p.check(lexer.COLON) && !p.check(lexer.RBRACKET) {
			stop, err = p.disjunction()
			if err != nil {
				return nil, nil, err
			}
		}
		if p.check(lexer.COLON) {
			p.advance()
			if !p.check(lexer.RBRACKET) {
				step, err = p.disjunction()
				if err != nil {
					return nil, nil, err
				}
			}
		}
	}
	closeTok, err := p.expect(lexer.RBRACKET)
	if err != nil {
		return nil, nil, err
	}
	if !isSlice {
		return start, closeTok, nil
	}
	sliceSpan := closeTok.Span
	for _, part := range []ast.Node{start, stop, step} {
		if part != nil {
			sliceSpan = span.Union(part.Span(), sliceSpan)
		}
	}
	return &ast.Slice{Sp: sliceSpan, Start: start, Stop: stop, Step: step}, closeTok, nil
}

// atom parses the grammar's terminal productions plus parenthesized
// groups/tuples, list literals/comprehensions, and dict/set literals.
func (p *Parser) atom() (ast.Node, error) {
	tok := p.current()
	if tok == nil {
		return nil, p.errorf("unexpected end of input")
	}
	switch tok.Kind {
	case lexer.NAME:
		p.advance()
		return ast.NewId(tok.Span, tok.Lexeme), nil
	case lexer.STRING:
		p.advance()
		return ast.NewStringLit(tok.Span, tok.Lexeme), nil
	case lexer.NUMBER:
		p.advance()
		return ast.NewNumberLit(tok.Span, tok.Lexeme), nil
	case lexer.NONE:
		p.advance()
		return ast.NewNoneLit(tok.Span, tok.Lexeme), nil
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return ast.NewBoolLit(tok.Span, tok.Lexeme), nil
	case lexer.ELLIPSIS:
		p.advance()
		return ast.NewOperatorLit(tok.Span, tok.Lexeme), nil
	case lexer.LPAREN:
		return p.parenGroup()
	case lexer.LBRACKET:
		return p.listLiteral()
	case lexer.LBRACE:
		return p.braceLiteral()
	}
	return nil, p.unexpected("expected an expression")
}

// parenGroup disambiguates `(...)` into a generator, a single
// parenthesized expression, or a tuple, by looking for a top-level
// `for` before the closing paren (spec §4.2 atom rule).
func (p *Parser) parenGroup() (ast.Node, error) {
	open := p.advance()
	if p.check(lexer.RPAREN) {
		closeTok := p.advance()
		return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span)}, nil
	}
	first, err := p.starExpression()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.FOR) {
		gen, err := p.generatorTail(first)
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(lexer.RPAREN)
		if err != nil {
			return nil, err
		}
		gen.(*ast.Generator).Sp = span.Union(open.Span, closeTok.Span)
		return gen, nil
	}
	if !p.check(lexer.COMMA) {
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	}
	elements := []ast.Node{first}
	for p.check(lexer.COMMA) {
		p.advance()
		if p.check(lexer.RPAREN) {
			break
		}
		next, err := p.starExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}
	closeTok, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span), Elements: elements}, nil
}

// listLiteral parses `[ ... ]` as either a list literal or a
// comprehension.
func (p *Parser) listLiteral() (ast.Node, error) {
	open := p.advance()
	if p.check(lexer.RBRACKET) {
		closeTok := p.advance()
		return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span)}, nil
	}
	first, err := p.starExpression()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.FOR) {
		gen, err := p.generatorTail(first)
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(lexer.RBRACKET)
		if err != nil {
			return nil, err
		}
		gen.(*ast.Generator).Sp = span.Union(open.Span, closeTok.Span)
		return gen, nil
	}
	elements := []ast.Node{first}
	for p.check(lexer.COMMA) {
		p.advance()
		if p.check(lexer.RBRACKET) {
			break
		}
		next, err := p.starExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}
	closeTok, err := p.expect(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span), Elements: elements}, nil
}

// braceLiteral parses `{ ... }` as a dict literal (`key: value` pairs)
// or, when no top-level colon appears, a set literal.
func (p *Parser) braceLiteral() (ast.Node, error) {
	open := p.advance()
	if p.check(lexer.RBRACE) {
		closeTok := p.advance()
		return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span)}, nil
	}
	firstKey, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.COLON) {
		elements := []ast.Node{firstKey}
		for p.check(lexer.COMMA) {
			p.advance()
			if p.check(lexer.RBRACE) {
				break
			}
			next, err := p.disjunction()
			if err != nil {
				return nil, err
			}
			elements = append(elements, next)
		}
		closeTok, err := p.expect(lexer.RBRACE)
		if err != nil {
			return nil, err
		}
		return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span), Elements: elements}, nil
	}
	p.advance() // consume ':'
	firstValue, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	pairs := []ast.Node{&ast.KeyValue{Sp: span.Union(firstKey.Span(), firstValue.Span()), Key: firstKey, Value: firstValue}}
	for p.check(lexer.COMMA) {
		p.advance()
		if p.check(lexer.RBRACE) {
			break
		}
		key, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, &ast.KeyValue{Sp: span.Union(key.Span(), value.Span()), Key: key, Value: value})
	}
	closeTok, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.Collection{Sp: span.Union(open.Span, closeTok.Span), Elements: pairs}, nil
}

// generatorTail parses the `for iterator (if cond)*` clause following
// an already-parsed head expression inside `(...)`/`[...]`.
func (p *Parser) generatorTail(expr ast.Node) (ast.Node, error) {
	p.advance() // consume 'for'
	iterator, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iterable, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	target := &ast.Binary{
		Sp:    span.Union(iterator.Span(), iterable.Span()),
		Left:  iterator,
		Op:    ast.NewOperatorLit(span.Span{}, "in"),
		Right: iterable,
	}
	var conditions []ast.Node
	for p.check(lexer.IF) {
		p.advance()
		cond, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return &ast.Generator{Sp: expr.Span(), Expr: expr, Iterator: target, Conditions: conditions}, nil
}
