package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeFather2/python-ast-visualizer/pkgs/span"
)

func sp(begin, length int) span.Span { return span.New(begin, length) }

func TestLabeledChildrenOmitsNilFields(t *testing.T) {
	ifElse := &IfElse{
		Sp:        sp(0, 10),
		Condition: &Id{terminalBase{Sp: sp(3, 1), Val: "x"}},
		TrueBranch: &BlockStatement{Sp: sp(5, 5)},
		// FalseBranch intentionally left nil: no else/elif branch.
	}
	children := ifElse.LabeledChildren()
	assert.Len(t, children, 2)
	assert.Equal(t, "condition", children[0].Label)
	assert.Equal(t, "true_branch", children[1].Label)
}

func TestLabeledChildrenPreservesOrderForPositional(t *testing.T) {
	col := &Collection{
		Sp: sp(0, 9),
		Elements: []Node{
			&NumberLit{terminalBase{Sp: sp(1, 1), Val: "1"}},
			&NumberLit{terminalBase{Sp: sp(3, 1), Val: "2"}},
			&NumberLit{terminalBase{Sp: sp(5, 1), Val: "3"}},
		},
	}
	children := col.LabeledChildren()
	require := assert.New(t)
	require.Len(children, 3)
	for i, want := range []string{"1", "2", "3"} {
		require.Empty(children[i].Label)
		term, ok := children[i].Node.(Terminal)
		require.True(ok)
		require.Equal(want, term.Value())
	}
}

func TestTerminalImplementsValue(t *testing.T) {
	var n Node = &StringLit{terminalBase{Sp: sp(0, 3), Val: `"a"`}}
	term, ok := n.(Terminal)
	assert.True(t, ok)
	assert.Equal(t, `"a"`, term.Value())
	assert.Equal(t, "StringLit", n.Kind())
}

func TestWrapperNodeHasNoChildren(t *testing.T) {
	w := &WrapperNode{Sp: sp(0, 4)}
	assert.Nil(t, w.LabeledChildren())
	assert.Equal(t, "WrapperNode", w.Kind())
}

func TestInvocationFlattensArgsUnlabeled(t *testing.T) {
	inv := &Invocation{
		Sp:     sp(0, 6),
		Target: &Id{terminalBase{Sp: sp(0, 1), Val: "f"}},
		Args: []Node{
			&Id{terminalBase{Sp: sp(2, 1), Val: "a"}},
			&Id{terminalBase{Sp: sp(4, 1), Val: "b"}},
		},
	}
	children := inv.LabeledChildren()
	assert.Len(t, children, 3)
	assert.Equal(t, "target", children[0].Label)
	assert.Empty(t, children[1].Label)
	assert.Empty(t, children[2].Label)
}
