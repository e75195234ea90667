// Package snapshot caches a parsed AST to a deterministic CBOR sidecar
// (spec §6's --cache flag) and validates a JSON graph dump against a
// schema (--json). Grounded on the teacher's core/planfmt/canonical.go
// (cbor.CanonicalEncOptions for byte-stable encoding) and
// core/types/validation.go (jsonschema.Compiler / AddResource /
// Compile / Validate).
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/codeFather2/python-ast-visualizer/pkgs/ast"
	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

// wireNode is the flat, interface-free mirror of ast.Node CBOR can
// encode directly: every concrete variant collapses to the same
// generic shape (kind name, span, optional terminal value, labeled
// children), the same way the teacher's CanonicalNode folds its whole
// execution-tree union into one struct with a discriminating Type
// field rather than one CBOR schema per Go type.
type wireNode struct {
	Kind     string        `cbor:"kind"`
	Begin    int           `cbor:"begin"`
	Length   int           `cbor:"length"`
	Value    string        `cbor:"value,omitempty"`
	Terminal bool          `cbor:"terminal,omitempty"`
	Children []wireChild   `cbor:"children,omitempty"`
}

type wireChild struct {
	Label string   `cbor:"label,omitempty"`
	Node  wireNode `cbor:"node"`
}

func toWire(n ast.Node) wireNode {
	sp := n.Span()
	w := wireNode{Kind: n.Kind(), Begin: sp.Begin, Length: sp.Length}
	if term, ok := n.(ast.Terminal); ok {
		w.Terminal = true
		w.Value = term.Value()
		return w
	}
	for _, c := range n.LabeledChildren() {
		w.Children = append(w.Children, wireChild{Label: c.Label, Node: toWire(c.Node)})
	}
	return w
}

// replayNode is a generic ast.Node implementation reconstructed from a
// wireNode. A cache hit only needs to drive the graph emitter, which
// calls Kind/Span/LabeledChildren/Value — it never needs the original
// concrete Go type back, so one generic replay type stands in for all
// of them instead of a kind-keyed switch rebuilding every variant.
type replayNode struct {
	kind     string
	sp       span.Span
	value    string
	terminal bool
	children []ast.LabeledChild
}

func (n *replayNode) Kind() string              { return n.kind }
func (n *replayNode) Span() span.Span           { return n.sp }
func (n *replayNode) Value() string              { return n.value }
func (n *replayNode) LabeledChildren() []ast.LabeledChild { return n.children }

func fromWire(w wireNode) ast.Node {
	n := &replayNode{
		kind:     w.Kind,
		sp:       span.New(w.Begin, w.Length),
		value:    w.Value,
		terminal: w.Terminal,
	}
	for _, c := range w.Children {
		n.children = append(n.children, ast.LabeledChild{Label: c.Label, Node: fromWire(c.Node)})
	}
	return n
}

// EncodeAST serializes root into deterministic CBOR bytes. Same input
// always produces the same bytes, which is what makes the --cache
// sidecar usable as a freshness check by itself (no separate content
// hash needed to know the cache is stale — a changed source re-parses
// to a different tree, which re-encodes to different bytes).
func EncodeAST(root *ast.Root) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("snapshot: building CBOR encoder: %w", err)
	}
	w := toWire(root)
	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encoding AST: %w", err)
	}
	return data, nil
}

// DecodeAST reverses EncodeAST, returning a tree graph.Visualize can
// walk directly. The returned node's concrete Go type is not
// *ast.Root — it satisfies ast.Node generically, which is all
// Visualize requires.
func DecodeAST(data []byte) (ast.Node, error) {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("snapshot: decoding AST: %w", err)
	}
	return fromWire(w), nil
}

//go:embed graph.schema.json
var graphSchemaJSON []byte

// ValidateGraphJSON validates a --json debug dump against the graph
// schema before it is written out, catching an emitter regression that
// produces a structurally malformed dump instead of shipping it
// silently.
func ValidateGraphJSON(data []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const url = "schema://graph.json"
	if err := compiler.AddResource(url, bytes.NewReader(graphSchemaJSON)); err != nil {
		return fmt.Errorf("snapshot: loading graph schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("snapshot: compiling graph schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("snapshot: parsing graph JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot: graph JSON failed schema validation: %w", err)
	}
	return nil
}
