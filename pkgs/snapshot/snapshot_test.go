package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeFather2/python-ast-visualizer/pkgs/ast"
	"github.com/codeFather2/python-ast-visualizer/pkgs/graph"
	"github.com/codeFather2/python-ast-visualizer/pkgs/lexer"
	"github.com/codeFather2/python-ast-visualizer/pkgs/parser"
)

func parseRoot(t *testing.T, src string) *ast.Root {
	t.Helper()
	tokens, lexErr := lexer.New(src, nil).Tokenize()
	require.Nil(t, lexErr)
	root, _ := parser.New(tokens, nil).Parse()
	require.NotNil(t, root)
	return root
}

func TestEncodeDecodeASTRoundTripsStructure(t *testing.T) {
	root := parseRoot(t, "x = 1\nif x:\n    y\n")

	data, err := EncodeAST(root)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	replayed, err := DecodeAST(data)
	require.NoError(t, err)

	assert.Equal(t, root.Kind(), replayed.Kind())
	assert.Equal(t, len(root.LabeledChildren()), len(replayed.LabeledChildren()))
}

func TestEncodeASTIsDeterministic(t *testing.T) {
	root := parseRoot(t, "def f():\n    return 1\n")

	first, err := EncodeAST(root)
	require.NoError(t, err)
	second, err := EncodeAST(root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeASTSurvivesTerminalValues(t *testing.T) {
	root := parseRoot(t, "x = 1\n")

	data, err := EncodeAST(root)
	require.NoError(t, err)
	replayed, err := DecodeAST(data)
	require.NoError(t, err)

	var findValue func(n ast.Node) (string, bool)
	findValue = func(n ast.Node) (string, bool) {
		if term, ok := n.(ast.Terminal); ok {
			if term.Value() == "x" {
				return term.Value(), true
			}
		}
		for _, c := range n.LabeledChildren() {
			if v, ok := findValue(c.Node); ok {
				return v, ok
			}
		}
		return "", false
	}
	v, ok := findValue(replayed)
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestValidateGraphJSONAcceptsEmittedGraph(t *testing.T) {
	root := parseRoot(t, "while c:\n    x\n")
	g, err := graph.Visualize(root, "while c:\n    x\n", graph.ModeCFG)
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	assert.NoError(t, ValidateGraphJSON(data))
}

func TestValidateGraphJSONRejectsMalformedDocument(t *testing.T) {
	err := ValidateGraphJSON([]byte(`{"nodes": [{"label": "missing id"}], "edges": []}`))
	assert.Error(t, err)
}

func TestValidateGraphJSONRejectsUnknownFields(t *testing.T) {
	err := ValidateGraphJSON([]byte(`{"nodes": [], "edges": [], "unexpected": true}`))
	assert.Error(t, err)
}
