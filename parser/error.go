package parser

import "fmt"

// SyntaxError is returned for any malformed construct found while parsing
// a module; it carries the byte offset into the canonicalised source so
// a host can point the script author at the failing construct (spec §4.2
// "Compilation errors").
type SyntaxError struct {
	Pos     int
	Message string
}

func CreateSyntaxError(pos int, message string) SyntaxError {
	return SyntaxError{Pos: pos, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 riascript syntax error at offset %d: %s", e.Pos, e.Message)
}
