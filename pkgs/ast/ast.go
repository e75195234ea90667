// Package ast defines the tagged-variant node hierarchy the parser
// builds and the graph emitter walks. Each concrete kind is a plain
// struct implementing Node directly — there is no deep inheritance
// chain and no reflection-based child discovery (spec §9): every node
// exposes its ordered, optionally labeled children through
// LabeledChildren, a single explicit accessor the emitter can call
// without knowing the concrete type.
package ast

import (
	"github.com/codeFather2/python-ast-visualizer/pkgs/lexer"
	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

// Node is implemented by every concrete AST node kind.
type Node interface {
	// Kind names the node's role/class, used verbatim as the AST-mode
	// graph-node label prefix (e.g. "IfElse", "Binary").
	Kind() string
	Span() span.Span
	// LabeledChildren returns this node's children in source order,
	// each optionally tagged with a field name (e.g. "condition",
	// "true_branch") the way the node's struct fields are named.
	// Variants with no named fields (Root, BlockStatement, Collection)
	// return every child with an empty Label.
	LabeledChildren() []LabeledChild
}

// LabeledChild pairs a child Node with the struct-field name it came
// from, or an empty Label for a purely positional child.
type LabeledChild struct {
	Label string
	Node  Node
}

// Terminal is implemented by every leaf node kind that carries a
// literal or identifier value instead of children. Terminal variants
// are labeled with their value directly in the graph emitter (spec
// §4.3), not the generic "Kind\n\nsource text" form.
type Terminal interface {
	Node
	Value() string
}

func labeled(pairs ...LabeledChild) []LabeledChild {
	out := make([]LabeledChild, 0, len(pairs))
	for _, p := range pairs {
		if p.Node == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func unlabeled(nodes ...Node) []LabeledChild {
	out := make([]LabeledChild, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, LabeledChild{Node: n})
	}
	return out
}

// --- Root and statement structure -------------------------------------------

// Root is the top of every parsed file.
type Root struct {
	Sp       span.Span
	Children []Node
}

func (n *Root) Kind() string              { return "Root" }
func (n *Root) Span() span.Span           { return n.Sp }
func (n *Root) LabeledChildren() []LabeledChild { return unlabeled(n.Children...) }

// BlockStatement is an indented sequence of statements (a `block`).
type BlockStatement struct {
	Sp       span.Span
	Children []Node
}

func (n *BlockStatement) Kind() string              { return "BlockStatement" }
func (n *BlockStatement) Span() span.Span           { return n.Sp }
func (n *BlockStatement) LabeledChildren() []LabeledChild { return unlabeled(n.Children...) }

// IfElse is an if/elif/else chain. FalseBranch, when present, is
// either another *IfElse (an elif) or a *BlockStatement (an else).
type IfElse struct {
	Sp          span.Span
	Condition   Node
	TrueBranch  Node
	FalseBranch Node
}

func (n *IfElse) Kind() string    { return "IfElse" }
func (n *IfElse) Span() span.Span { return n.Sp }
func (n *IfElse) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"condition", n.Condition},
		LabeledChild{"true_branch", n.TrueBranch},
		LabeledChild{"false_branch", n.FalseBranch},
	)
}

// While is a while loop.
type While struct {
	Sp        span.Span
	Condition Node
	Body      Node
}

func (n *While) Kind() string    { return "While" }
func (n *While) Span() span.Span { return n.Sp }
func (n *While) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"condition", n.Condition}, LabeledChild{"body", n.Body})
}

// For is a for loop. The source's `else` branch is intentionally not
// preserved (spec §9 open question).
type For struct {
	Sp       span.Span
	Target   Node
	Iterator Node
	Body     Node
}

func (n *For) Kind() string    { return "For" }
func (n *For) Span() span.Span { return n.Sp }
func (n *For) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"target", n.Target},
		LabeledChild{"iterator", n.Iterator},
		LabeledChild{"body", n.Body},
	)
}

// Return is a `return expr` statement.
type Return struct {
	Sp   span.Span
	Expr Node
}

func (n *Return) Kind() string    { return "Return" }
func (n *Return) Span() span.Span { return n.Sp }
func (n *Return) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"expr", n.Expr})
}

// Yield is a `yield expr` expression.
type Yield struct {
	Sp   span.Span
	Expr Node
}

func (n *Yield) Kind() string    { return "Yield" }
func (n *Yield) Span() span.Span { return n.Sp }
func (n *Yield) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"expr", n.Expr})
}

// Await is an `await expr` expression.
type Await struct {
	Sp   span.Span
	Expr Node
}

func (n *Await) Kind() string    { return "Await" }
func (n *Await) Span() span.Span { return n.Sp }
func (n *Await) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"expr", n.Expr})
}

// Definition is a `def NAME ( ... ) : block`. Signature is an opaque
// WrapperNode over the raw token span between the name and the body's
// colon (spec §4.2 — parameter parsing is deliberately not structured).
type Definition struct {
	Sp        span.Span
	Name      *Id
	Signature *WrapperNode
	Body      Node
}

func (n *Definition) Kind() string    { return "Definition" }
func (n *Definition) Span() span.Span { return n.Sp }
func (n *Definition) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"name", n.Name},
		LabeledChild{"signature", n.Signature},
		LabeledChild{"body", n.Body},
	)
}

// --- Expressions -------------------------------------------------------------

// Binary is a binary operator expression, e.g. `a < b` or `a is not b`.
type Binary struct {
	Sp    span.Span
	Left  Node
	Op    *OperatorLit
	Right Node
}

func (n *Binary) Kind() string    { return "Binary" }
func (n *Binary) Span() span.Span { return n.Sp }
func (n *Binary) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"left", n.Left},
		LabeledChild{"op", n.Op},
		LabeledChild{"right", n.Right},
	)
}

// Unary is a prefix unary operator expression.
type Unary struct {
	Sp   span.Span
	Op   *OperatorLit
	Expr Node
}

func (n *Unary) Kind() string    { return "Unary" }
func (n *Unary) Span() span.Span { return n.Sp }
func (n *Unary) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"op", n.Op}, LabeledChild{"expr", n.Expr})
}

// Conditional is a ternary `then if cond else else_`.
type Conditional struct {
	Sp        span.Span
	Condition Node
	Then      Node
	Else      Node
}

func (n *Conditional) Kind() string    { return "Conditional" }
func (n *Conditional) Span() span.Span { return n.Sp }
func (n *Conditional) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"condition", n.Condition},
		LabeledChild{"then", n.Then},
		LabeledChild{"else", n.Else},
	)
}

// Assignment is `target [op] = value` with an optional type
// annotation, set only when the target was a type-annotated name.
type Assignment struct {
	Sp         span.Span
	Target     Node
	Op         *OperatorLit
	Value      Node
	Annotation Node
}

func (n *Assignment) Kind() string    { return "Assignment" }
func (n *Assignment) Span() span.Span { return n.Sp }
func (n *Assignment) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"target", n.Target},
		LabeledChild{"op", n.Op},
		LabeledChild{"value", n.Value},
		LabeledChild{"annotation", n.Annotation},
	)
}

// Invocation is `target(args...)`.
type Invocation struct {
	Sp     span.Span
	Target Node
	Args   []Node
}

func (n *Invocation) Kind() string    { return "Invocation" }
func (n *Invocation) Span() span.Span { return n.Sp }
func (n *Invocation) LabeledChildren() []LabeledChild {
	out := labeled(LabeledChild{"target", n.Target})
	out = append(out, unlabeled(n.Args...)...)
	return out
}

// Indexer is `target[index]` for a single non-slice subscript.
type Indexer struct {
	Sp     span.Span
	Target Node
	Index  Node
}

func (n *Indexer) Kind() string    { return "Indexer" }
func (n *Indexer) Span() span.Span { return n.Sp }
func (n *Indexer) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"target", n.Target}, LabeledChild{"index", n.Index})
}

// Slice is `[start]:[stop]:[step]` inside an indexer.
type Slice struct {
	Sp    span.Span
	Start Node
	Stop  Node
	Step  Node
}

func (n *Slice) Kind() string    { return "Slice" }
func (n *Slice) Span() span.Span { return n.Sp }
func (n *Slice) LabeledChildren() []LabeledChild {
	return labeled(
		LabeledChild{"start", n.Start},
		LabeledChild{"stop", n.Stop},
		LabeledChild{"step", n.Step},
	)
}

// MemberRef is `target.name`.
type MemberRef struct {
	Sp     span.Span
	Target Node
	Name   *Id
}

func (n *MemberRef) Kind() string    { return "MemberRef" }
func (n *MemberRef) Span() span.Span { return n.Sp }
func (n *MemberRef) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"target", n.Target}, LabeledChild{"name", n.Name})
}

// Lambda is `lambda params: body`. Not implemented by the parser
// (spec §4.2) but kept as a structural node kind for the emitter and
// any future parser support.
type Lambda struct {
	Sp     span.Span
	Params []Node
	Body   Node
}

func (n *Lambda) Kind() string    { return "Lambda" }
func (n *Lambda) Span() span.Span { return n.Sp }
func (n *Lambda) LabeledChildren() []LabeledChild {
	out := unlabeled(n.Params...)
	out = append(out, labeled(LabeledChild{"body", n.Body})...)
	return out
}

// Generator is a comprehension clause `expr for iterator in ... if conditions`.
type Generator struct {
	Sp         span.Span
	Expr       Node
	Iterator   Node
	Conditions []Node
}

func (n *Generator) Kind() string    { return "Generator" }
func (n *Generator) Span() span.Span { return n.Sp }
func (n *Generator) LabeledChildren() []LabeledChild {
	out := labeled(LabeledChild{"expr", n.Expr}, LabeledChild{"iterator", n.Iterator})
	out = append(out, unlabeled(n.Conditions...)...)
	return out
}

// Collection is a list/tuple/dict-element/set literal's element list.
type Collection struct {
	Sp       span.Span
	Elements []Node
}

func (n *Collection) Kind() string    { return "Collection" }
func (n *Collection) Span() span.Span { return n.Sp }
func (n *Collection) LabeledChildren() []LabeledChild { return unlabeled(n.Elements...) }

// KeyValue is a `key: value` pair inside a dict literal.
type KeyValue struct {
	Sp    span.Span
	Key   Node
	Value Node
}

func (n *KeyValue) Kind() string    { return "KeyValue" }
func (n *KeyValue) Span() span.Span { return n.Sp }
func (n *KeyValue) LabeledChildren() []LabeledChild {
	return labeled(LabeledChild{"key", n.Key}, LabeledChild{"value", n.Value})
}

// --- Terminals ---------------------------------------------------------------

type terminalBase struct {
	Sp  span.Span
	Val string
}

func (n terminalBase) Span() span.Span           { return n.Sp }
func (n terminalBase) Value() string              { return n.Val }
func (n terminalBase) LabeledChildren() []LabeledChild { return nil }

// Id is a NAME reference.
type Id struct{ terminalBase }

func (n *Id) Kind() string { return "Id" }

// NewId builds an Id from a span and its source lexeme.
func NewId(sp span.Span, value string) *Id {
	return &Id{terminalBase{Sp: sp, Val: value}}
}

// StringLit is a STRING literal; its Value is the raw lexeme including
// quotes (spec §4.1 — escapes are not interpreted).
type StringLit struct{ terminalBase }

func (n *StringLit) Kind() string { return "StringLit" }

// NewStringLit builds a StringLit from a span and its raw lexeme.
func NewStringLit(sp span.Span, value string) *StringLit {
	return &StringLit{terminalBase{Sp: sp, Val: value}}
}

// NumberLit is a NUMBER literal.
type NumberLit struct{ terminalBase }

func (n *NumberLit) Kind() string { return "NumberLit" }

// NewNumberLit builds a NumberLit from a span and its raw lexeme.
func NewNumberLit(sp span.Span, value string) *NumberLit {
	return &NumberLit{terminalBase{Sp: sp, Val: value}}
}

// NoneLit is the `None` literal.
type NoneLit struct{ terminalBase }

func (n *NoneLit) Kind() string { return "NoneLit" }

// NewNoneLit builds a NoneLit from a span and its raw lexeme.
func NewNoneLit(sp span.Span, value string) *NoneLit {
	return &NoneLit{terminalBase{Sp: sp, Val: value}}
}

// BoolLit is `True` or `False`.
type BoolLit struct{ terminalBase }

func (n *BoolLit) Kind() string { return "BoolLit" }

// NewBoolLit builds a BoolLit from a span and its raw lexeme.
func NewBoolLit(sp span.Span, value string) *BoolLit {
	return &BoolLit{terminalBase{Sp: sp, Val: value}}
}

// OperatorLit wraps an operator token used as a Binary/Unary/
// Assignment child so the operator itself is a labeled node, not a
// bare string.
type OperatorLit struct{ terminalBase }

func (n *OperatorLit) Kind() string { return "OperatorLit" }

// KeywordLit is a bare keyword statement (`pass`, `break`, `continue`)
// carried as a terminal node rather than a dedicated struct per
// keyword, mirroring the source's single generic Terminal class for
// these three.
type KeywordLit struct{ terminalBase }

func (n *KeywordLit) Kind() string { return "KeywordLit" }

// NewKeywordLit builds a KeywordLit from a span and its raw lexeme.
func NewKeywordLit(sp span.Span, value string) *KeywordLit {
	return &KeywordLit{terminalBase{Sp: sp, Val: value}}
}

// EasterEggLit corresponds to the source's undefined PEGPARSER atom
// (spec §9); nothing in the tokenizer or parser ever produces one, but
// the kind exists so the emitter and any future lexer extension have a
// stable variant to target.
type EasterEggLit struct{ terminalBase }

func (n *EasterEggLit) Kind() string { return "EasterEggLit" }

// NewOperatorLit builds an OperatorLit from a span and its operator
// text, e.g. for a two-word comparison operator like "is not" whose
// span unions both source tokens.
func NewOperatorLit(sp span.Span, value string) *OperatorLit {
	return &OperatorLit{terminalBase{Sp: sp, Val: value}}
}

// --- Wrapper node --------------------------------------------------------

// WrapperNode is an opaque node over a raw token range the parser
// chose not to structure (e.g. a function signature). The graph
// emitter must not descend into it.
type WrapperNode struct {
	Sp     span.Span
	Tokens []lexer.Token
}

func (n *WrapperNode) Kind() string              { return "WrapperNode" }
func (n *WrapperNode) Span() span.Span           { return n.Sp }
func (n *WrapperNode) LabeledChildren() []LabeledChild { return nil }
