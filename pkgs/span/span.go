// Package span implements the half-open text spans used by every token
// and AST node in the analyzer.
package span

import "fmt"

// Span is a half-open interval [Begin, Begin+Length) over source
// positions. It is the (begin, length) encoding the spec calls for
// rather than (begin, end), matching the teacher pack's token/AST
// position fields, which carry a start and a derived extent.
type Span struct {
	Begin  int
	Length int
}

// New builds a Span from a begin offset and a length.
func New(begin, length int) Span {
	return Span{Begin: begin, Length: length}
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Begin + s.Length
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool {
	return s.Length == 0
}

// Slice returns the substring of source covered by s.
func (s Span) Slice(source string) string {
	if s.Begin < 0 || s.End() > len(source) || s.Begin > s.End() {
		return ""
	}
	return source[s.Begin:s.End()]
}

// Union returns the smallest span covering both a and b: the correct
// definition is min(begin)/max(end). A second, buggy implementation
// existed in the original source (max-begin, begin-end) and is not
// reproduced here; see DESIGN.md.
func Union(a, b Span) Span {
	begin := a.Begin
	if b.Begin < begin {
		begin = b.Begin
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return Span{Begin: begin, Length: end - begin}
}

// UnionAll folds Union across a non-empty slice of spans.
func UnionAll(spans ...Span) Span {
	if len(spans) == 0 {
		return Span{}
	}
	result := spans[0]
	for _, s := range spans[1:] {
		result = Union(result, s)
	}
	return result
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Begin, s.End())
}
