package graph

import (
	"fmt"
	"strconv"

	"github.com/codeFather2/python-ast-visualizer/pkgs/ast"
	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

// Visualize walks root in the given mode and returns the emitted graph.
// source is the original text, used to slice node labels; it is never
// mutated or retained beyond this call (spec §5's stack-shaped resource
// lifetime). root is ast.Node rather than *ast.Root so a tree replayed
// from a pkgs/snapshot cache — which only satisfies the interface, not
// the concrete parser type — can be visualized the same way a freshly
// parsed one is.
func Visualize(root ast.Node, source string, mode Mode) (*Graph, error) {
	if root == nil {
		return nil, fmt.Errorf("graph: nil root")
	}
	e := &emitter{source: source, graph: &Graph{}}
	switch mode {
	case ModeAST:
		e.walkAST(root, "", "")
	case ModeCFG:
		e.walkCFG(root)
	default:
		return nil, fmt.Errorf("graph: unknown mode %d", mode)
	}
	return e.graph, nil
}

type emitter struct {
	source    string
	graph     *Graph
	counter   int
	funcStack []string
}

func (e *emitter) nextID() string {
	id := strconv.Itoa(e.counter)
	e.counter++
	return id
}

func (e *emitter) addNode(label, color string) string {
	id := e.nextID()
	e.graph.Nodes = append(e.graph.Nodes, Node{ID: id, Label: label, Color: color})
	return id
}

func (e *emitter) addEdge(from, to, label, color string) {
	e.graph.Edges = append(e.graph.Edges, Edge{From: from, To: to, Label: label, Color: color})
}

// connect draws the successor-chaining rule of spec §4.3: an edge from
// every tail to every head. Every bulleted case in the spec (single
// head, branching P, branching C, both branching) is the same
// Cartesian product — the distinction only matters when Tails/Heads
// have more than one element, which this loop handles uniformly.
func (e *emitter) connect(tails, heads []string, label, color string) {
	for _, tail := range tails {
		for _, head := range heads {
			e.addEdge(tail, head, label, color)
		}
	}
}

// --- label rule (spec §4.3) -------------------------------------------------

func labelFor(n ast.Node, source string) string {
	if _, ok := n.(*ast.Root); ok {
		return ""
	}
	if term, ok := n.(ast.Terminal); ok {
		return term.Value()
	}
	return n.Kind() + "\n\n" + n.Span().Slice(source)
}

// --- AST mode ----------------------------------------------------------------

// walkAST is a pre-order DFS: emit a node for n, then recurse into each
// labeled child, drawing parent->child edges labeled with the field
// name when the variant exposes one. WrapperNode.LabeledChildren
// returns nil, which stops recursion there without any special case.
func (e *emitter) walkAST(n ast.Node, parentID, edgeLabel string) {
	id := e.addNode(labelFor(n, e.source), "")
	if parentID != "" {
		e.addEdge(parentID, id, edgeLabel, "")
	}
	for _, child := range n.LabeledChildren() {
		e.walkAST(child.Node, id, child.Label)
	}
}

// --- CFG mode ------------------------------------------------------------

// subgraph is the (heads, tails) pair every CFG production returns.
// Tails already holds only leaf tail node ids — spec §4.3's "unwrap
// recursively by descending into last-level leaf tails" is satisfied by
// construction rather than by a separate unwrapping pass, since every
// production below flattens its children's Tails directly into its own.
type subgraph struct {
	Heads []string
	Tails []string
}

func (e *emitter) walkCFG(root ast.Node) {
	children := make([]ast.Node, 0, len(root.LabeledChildren()))
	for _, c := range root.LabeledChildren() {
		children = append(children, c.Node)
	}
	e.cfgBlock(children)
}

func (e *emitter) cfg(n ast.Node) subgraph {
	switch v := n.(type) {
	case *ast.BlockStatement:
		return e.cfgBlock(v.Children)
	case *ast.IfElse:
		return e.cfgIfElse(v)
	case *ast.For:
		header := &ast.Binary{
			Sp:   span.Union(v.Target.Span(), v.Iterator.Span()),
			Left: v.Target, Op: ast.NewOperatorLit(span.Span{}, "in"), Right: v.Iterator,
		}
		return e.cfgLoop(header, v.Body)
	case *ast.While:
		return e.cfgLoop(v.Condition, v.Body)
	case *ast.Definition:
		return e.cfgDefinition(v)
	case *ast.Return:
		return e.cfgReturn(v)
	default:
		id := e.addNode(labelFor(n, e.source), "")
		return subgraph{Heads: []string{id}, Tails: []string{id}}
	}
}

// cfgBlock chains each child's subgraph to the next by the
// successor-chaining rule, returning the whole chain's head and tail set.
func (e *emitter) cfgBlock(children []ast.Node) subgraph {
	var result subgraph
	var prevTails []string
	for i, child := range children {
		sub := e.cfg(child)
		if i == 0 {
			result.Heads = sub.Heads
		} else {
			e.connect(prevTails, sub.Heads, "", "")
		}
		prevTails = sub.Tails
	}
	result.Tails = prevTails
	return result
}

// cfgIfElse implements spec §4.3's IfElse production. When there is no
// else branch, the condition node is added to the tail set so the
// false path still reaches whatever follows the if statement — the
// spec's algorithm only describes the True/False edges explicitly but
// a branch with no else must still fall through on the untaken path
// (see DESIGN.md).
func (e *emitter) cfgIfElse(v *ast.IfElse) subgraph {
	condID := e.addNode(labelFor(v.Condition, e.source), "")
	thenSub := e.cfg(v.TrueBranch)
	e.connect([]string{condID}, thenSub.Heads, "True", "green")

	tails := append([]string{}, thenSub.Tails...)
	if v.FalseBranch != nil {
		elseSub := e.cfg(v.FalseBranch)
		e.connect([]string{condID}, elseSub.Heads, "False", "red")
		tails = append(tails, elseSub.Tails...)
	} else {
		tails = append(tails, condID)
	}
	return subgraph{Heads: []string{condID}, Tails: tails}
}

// cfgLoop implements the shared For/While production: header is the
// node representing the loop's condition (While) or "target in
// iterator" (For, synthesized by the caller). The header is both the
// subgraph's head and its tail — the exit edge to whatever follows the
// loop is drawn from header by the caller's successor-chaining, modeling
// loop-exit when the condition becomes false.
func (e *emitter) cfgLoop(header ast.Node, body ast.Node) subgraph {
	headerID := e.addNode(labelFor(header, e.source), "")
	bodySub := e.cfg(body)
	e.connect([]string{headerID}, bodySub.Heads, "Loop entry", "purple")
	e.connect(bodySub.Tails, []string{headerID}, "Iteration", "blue")
	return subgraph{Heads: []string{headerID}, Tails: []string{headerID}}
}

// cfgDefinition emits a single node labeled with the function's name
// and signature text, recurses into the body under a pushed
// function-context (popped before returning, per spec §5's
// push-on-enter/pop-on-leave stack discipline), and returns the
// definition node itself as an atomic step: the function body's
// internal control flow is not part of its caller's flow.
func (e *emitter) cfgDefinition(v *ast.Definition) subgraph {
	nameSig := v.Name.Value()
	if v.Signature != nil {
		nameSig += v.Signature.Span().Slice(e.source)
	}
	defID := e.addNode(nameSig, "")

	e.funcStack = append(e.funcStack, nameSig)
	bodySub := e.cfg(v.Body)
	e.funcStack = e.funcStack[:len(e.funcStack)-1]

	e.connect([]string{defID}, bodySub.Heads, "Definition entry", "purple")
	return subgraph{Heads: []string{defID}, Tails: []string{defID}}
}

// cfgReturn emits a terminal red node with no outgoing edges (P7): its
// Tails is empty, so nothing downstream ever gets an edge from it.
func (e *emitter) cfgReturn(v *ast.Return) subgraph {
	top := "<module>"
	if len(e.funcStack) > 0 {
		top = e.funcStack[len(e.funcStack)-1]
	}
	text := ""
	if v.Expr != nil {
		text = v.Expr.Span().Slice(e.source)
	}
	id := e.addNode(fmt.Sprintf("Exit from %s\n%s", top, text), "red")
	return subgraph{Heads: []string{id}, Tails: nil}
}
