package graph

import (
	"strconv"
	"strings"
)

// WriteDOT renders g in the textual DOT-like form spec §4.3 calls for:
// `id [label="..."];` nodes and `a -> b [label="...", color="..."];`
// edges inside a `digraph { ... }` block. The quoting rules follow the
// DOT language's ID grammar (other_examples' teleivo/dot scanner quotes
// any string ID containing characters outside [A-Za-z0-9_]), applied
// here to every label since node/edge labels routinely contain
// newlines and quotes from source text.
func WriteDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, n := range g.Nodes {
		b.WriteString("\t")
		b.WriteString(n.ID)
		b.WriteString(" [label=")
		b.WriteString(quoteDOT(n.Label))
		if n.Color != "" {
			b.WriteString(", color=")
			b.WriteString(quoteDOT(n.Color))
		}
		b.WriteString("];\n")
	}
	for _, e := range g.Edges {
		b.WriteString("\t")
		b.WriteString(e.From)
		b.WriteString(" -> ")
		b.WriteString(e.To)
		b.WriteString(" [label=")
		b.WriteString(quoteDOT(e.Label))
		if e.Color != "" {
			b.WriteString(", color=")
			b.WriteString(quoteDOT(e.Color))
		}
		b.WriteString("];\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// quoteDOT renders s as a DOT quoted ID: wrapped in double quotes with
// embedded quotes and backslashes escaped, and embedded newlines
// rendered as the DOT quoted-string line-continuation escape.
func quoteDOT(s string) string {
	// Each line is escaped on its own with strconv.Quote and the lines
	// are rejoined with a literal backslash-newline, so an escaped
	// backslash followed by "n" in the text is never mistaken for a
	// newline escape.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		q := strconv.Quote(line)
		lines[i] = q[1 : len(q)-1]
	}
	return `"` + strings.Join(lines, "\\\n") + `"`
}
