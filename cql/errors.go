package cql

import "fmt"

// SyntaxError reports a query expression the parser could not understand.
type SyntaxError struct {
	Query string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cql: syntax error at position %d: %s", e.Pos, e.Msg)
}

// EncodeError reports a specification shape that has no expression form.
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	return "cql: cannot encode specification: " + e.Reason
}
