package parser

import "fmt"

// ParsingError is raised anywhere inside statement parsing. Unlike
// LexingError it never halts the whole run: Parser.Parse catches one
// at the statement boundary, logs it, and resynchronizes (spec §4.2).
type ParsingError struct {
	Index   int
	Message string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("%d: %s", e.Index, e.Message)
}
