package vm

import (
	"riascript/compiler"
	"riascript/value"
)

// Fn is a built-in implementation. It receives the already-resolved
// argument values (the wire pack/unpack step from spec §4.4 collapses to
// a plain slice here since the VM and built-ins share one Go process —
// there is no real marshalling boundary to cross, see DESIGN.md).
type Fn func(args []value.Value) Outcome

// Table maps a built-in's opcode-level function index to its
// implementation. Built by package builtin and injected into an Engine.
type Table map[compiler.FuncID]Fn
