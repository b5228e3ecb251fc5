package vm

import "fmt"

// RuntimeError is a fatal VM error: malformed bytecode, a stack
// underflow, an out-of-range slot/string/parameter index, or any other
// condition the compiler's invariants should have prevented but the VM
// still guards against defensively.
type RuntimeError struct {
	Offset  int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError at offset %d: %s", e.Offset, e.Message)
}
