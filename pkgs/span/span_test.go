package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionTakesMinBeginMaxEnd(t *testing.T) {
	a := New(10, 5) // [10,15)
	b := New(3, 4)  // [3,7)

	got := Union(a, b)

	assert.Equal(t, 3, got.Begin)
	assert.Equal(t, 15, got.End())
}

func TestUnionIsSymmetric(t *testing.T) {
	a := New(10, 5)
	b := New(3, 4)

	assert.Equal(t, Union(a, b), Union(b, a))
}

func TestUnionOfOverlappingSpans(t *testing.T) {
	a := New(0, 10) // [0,10)
	b := New(5, 10) // [5,15)

	got := Union(a, b)
	assert.Equal(t, 0, got.Begin)
	assert.Equal(t, 15, got.End())
}

func TestUnionAllFoldsAcrossMultipleSpans(t *testing.T) {
	spans := []Span{New(5, 1), New(0, 2), New(20, 3)}
	got := UnionAll(spans...)
	assert.Equal(t, 0, got.Begin)
	assert.Equal(t, 23, got.End())
}

func TestUnionAllOfEmptySliceIsZeroValue(t *testing.T) {
	got := UnionAll()
	assert.Equal(t, Span{}, got)
}

func TestSliceReturnsSubstring(t *testing.T) {
	source := "hello world"
	s := New(6, 5)
	assert.Equal(t, "world", s.Slice(source))
}

func TestSliceOutOfBoundsReturnsEmpty(t *testing.T) {
	source := "abc"
	assert.Equal(t, "", New(1, 10).Slice(source))
	assert.Equal(t, "", New(-1, 2).Slice(source))
}

func TestEmptyReportsZeroLength(t *testing.T) {
	assert.True(t, New(4, 0).Empty())
	assert.False(t, New(4, 1).Empty())
}
