// Package vm implements riascript's stack-oriented bytecode interpreter:
// instruction fetch/decode/dispatch, the arithmetic/comparison/logical
// opcode table, jump handling, and the suspend/resume discipline built-in
// calls use for host I/O (spec §4.4 "Virtual machine"). The dispatch
// loop's fetch/decode/execute shape follows a minimal stack-VM pattern,
// expanded from a handful of stack opcodes to the full fixed instruction
// set riascript's compiler emits.
package vm

import (
	"encoding/binary"
	"fmt"

	"riascript/compiler"
	"riascript/module"
	"riascript/value"
)

// Engine owns everything that persists across Execute calls: the global
// half of the slot vector (locals are cleared at the top of every
// Execute, per spec §3 "Invariants"), the built-in dispatch table, and —
// while a built-in call has suspended — the frozen interpreter state
// Continue() resumes from.
type Engine struct {
	slots     *value.Slots
	table     Table
	suspended *suspension
	lastErr   string
}

// suspension is everything needed to resume exactly where a pending
// built-in call left off: the module and instruction pointer just past
// the call instruction, the operand stack as it stood once the call's
// arguments were popped, whether the result (once ready) is pushed or
// discarded, and the continuation itself.
type suspension struct {
	mod     *module.Module
	ip      int
	stack   OperandStack
	cont    *Continuation
	discard bool
	entries []value.StackEntry
}

func NewEngine(table Table) *Engine {
	return &Engine{slots: value.NewSlots(), table: table}
}

// LastError returns the message belonging to the most recent
// status=failed result (spec §6 "error_msg(handle) -> string").
func (e *Engine) LastError() string { return e.lastErr }

// IsPending reports whether the engine is mid-suspension and must be
// resumed with Continue rather than re-entered with Execute.
func (e *Engine) IsPending() bool { return e.suspended != nil }

// Execute runs entryName from the start: locals are cleared, the operand
// stack starts empty, and the parameter frame is loaded from params
// (spec §4.4 "Execution contract"). Calling Execute while a previous
// invocation is still pending is a developer error — the host must
// Continue first.
func (e *Engine) Execute(mod *module.Module, entryName string, params []string) (Status, string) {
	if e.suspended != nil {
		e.lastErr = "unexpected_call: engine has a pending invocation"
		return StatusFailed, ""
	}
	fn, ok := mod.EntryPoint(entryName)
	if !ok {
		e.lastErr = fmt.Sprintf("no such entry point %q", entryName)
		return StatusFailed, ""
	}

	for i := 0; i < value.VarThreshold; i++ {
		e.slots.Set(i, value.Unset())
	}
	frame := value.NewFrame(params)

	return e.run(mod, fn.Offset, OperandStack{}, frame, false)
}

// Continue resumes a pending invocation by polling its continuation.
func (e *Engine) Continue() (Status, string) {
	if e.suspended == nil {
		e.lastErr = "unexpected_call: engine has no pending invocation"
		return StatusFailed, ""
	}
	s := e.suspended
	e.suspended = nil

	outcome := s.cont.Poll()
	if outcome.isPending() {
		e.suspended = &suspension{mod: s.mod, ip: s.ip, stack: s.stack, cont: outcome.pending, discard: s.discard, entries: s.entries}
		return StatusPending, ""
	}
	if outcome.err != nil {
		e.lastErr = outcome.err.Error()
		return StatusFailed, ""
	}
	e.applyOutWrite(s.entries, outcome)
	if !s.discard {
		s.stack.Push(value.TempEntry(outcome.result))
	}
	return e.run(s.mod, s.ip, s.stack, nil, outcome.parserReady)
}

// run is the fetch/decode/dispatch loop. frame is nil when resuming from
// a suspended call: a suspension does not keep the parameter frame, so
// an @N operand resolved after a resumption fails with "no parameter
// frame available".
func (e *Engine) run(mod *module.Module, ip int, stack OperandStack, frame *value.Frame, parserReady bool) (Status, string) {
	code := mod.Code()

	resolve := func(entry value.StackEntry) (value.Value, error) {
		switch entry.Kind {
		case value.EntryVar:
			return e.slots.Get(entry.Index), nil
		case value.EntryParam:
			if frame == nil {
				return value.Value{}, fmt.Errorf("no parameter frame available to resolve @%d", entry.Index)
			}
			s, ok := frame.Get(byte(entry.Index))
			if !ok {
				return value.Value{}, fmt.Errorf("missing caller parameter @%d", entry.Index)
			}
			return value.FromString(s), nil
		case value.EntryStrConst:
			s, err := mod.String(entry.Index)
			if err != nil {
				return value.Value{}, err
			}
			return value.FromString(s), nil
		case value.EntryTemp, value.EntryImmediate, value.EntryResult:
			return entry.Val, nil
		default:
			return value.Value{}, fmt.Errorf("internal: unknown stack entry kind %d", entry.Kind)
		}
	}

	fail := func(at int, msg string) (Status, string) {
		e.lastErr = RuntimeError{Offset: at, Message: msg}.Error()
		return StatusFailed, ""
	}

	finalStatus := func() Status {
		if parserReady {
			return StatusOKParserReady
		}
		return StatusOK
	}

	for {
		if ip < 0 || ip >= len(code) {
			return fail(ip, "instruction pointer out of range")
		}
		opStart := ip
		op := compiler.Opcode(code[ip])
		ip++

		switch op {
		case compiler.OpPushVar:
			idx, n, err := read1(code, ip)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n
			stack.Push(value.VarEntry(idx))

		case compiler.OpPushParam:
			idx, n, err := read1(code, ip)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n
			stack.Push(value.ParamEntry(idx))

		case compiler.OpPushStr1:
			idx, n, err := read1(code, ip)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n
			stack.Push(value.StrConstEntry(idx))

		case compiler.OpPushStr2:
			idx, n, err := read2(code, ip)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n
			stack.Push(value.StrConstEntry(idx))

		case compiler.OpPushInt1, compiler.OpPushInt2, compiler.OpPushInt3, compiler.OpPushInt4:
			width := intWidth(op)
			n, err := readInt(code, ip, width)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += width
			stack.Push(value.ImmediateEntry(int64(n)))

		case compiler.OpPop:
			idx, n, err := read1(code, ip)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n
			entry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow on pop")
			}
			v, err := resolve(entry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			e.slots.Set(idx, v)

		case compiler.OpAddOrLOr, compiler.OpSubOrLAnd, compiler.OpMul, compiler.OpDiv, compiler.OpRem,
			compiler.OpBAnd, compiler.OpBOr, compiler.OpXor,
			compiler.OpLess, compiler.OpMore, compiler.OpLessEq, compiler.OpMoreEq, compiler.OpEq, compiler.OpNotEq:
			rightEntry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow")
			}
			leftEntry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow")
			}
			lv, err := resolve(leftEntry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			rv, err := resolve(rightEntry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			result, err := applyBinary(op, lv, rv)
			if err != nil {
				return fail(opStart, err.Error())
			}
			stack.Push(value.TempEntry(result))

		case compiler.OpBNotOrNot, compiler.OpNeg:
			topEntry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow")
			}
			v, err := resolve(topEntry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			result, err := applyUnary(op, v)
			if err != nil {
				return fail(opStart, err.Error())
			}
			stack.Push(value.TempEntry(result))

		case compiler.OpJumpIfFalse1, compiler.OpJumpIfFalse2, compiler.OpJumpIfTrue1, compiler.OpJumpIfTrue2:
			width := jumpWidth(op)
			offset, err := readSigned(code, ip, width)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += width
			topEntry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow on conditional jump")
			}
			v, err := resolve(topEntry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			wantTrue := op == compiler.OpJumpIfTrue1 || op == compiler.OpJumpIfTrue2
			if v.Truthy() == wantTrue {
				ip = opStart + offset
			}

		case compiler.OpJump1, compiler.OpJump2:
			width := jumpWidth(op)
			offset, err := readSigned(code, ip, width)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip = opStart + offset

		case compiler.OpCallP, compiler.OpCall2P, compiler.OpCallI, compiler.OpCall2I:
			discard := op == compiler.OpCallI || op == compiler.OpCall2I
			width := 1
			if op == compiler.OpCall2P || op == compiler.OpCall2I {
				width = 2
			}
			fid, n, err := readFuncID(code, ip, width)
			if err != nil {
				return fail(opStart, err.Error())
			}
			ip += n

			fn, ok := e.table[fid]
			if !ok {
				return fail(opStart, fmt.Sprintf("no built-in registered for function id %s", fid))
			}
			argc, ok := argCounts[fid]
			if !ok {
				return fail(opStart, fmt.Sprintf("unknown arity for built-in %s", fid))
			}
			args := make([]value.Value, argc)
			entries := make([]value.StackEntry, argc)
			for i := argc - 1; i >= 0; i-- {
				entry, ok := stack.Pop()
				if !ok {
					return fail(opStart, fmt.Sprintf("stack underflow supplying argument %d to %s", i, fid))
				}
				v, err := resolve(entry)
				if err != nil {
					return fail(opStart, err.Error())
				}
				entries[i] = entry
				args[i] = v
			}

			outcome := fn(args)
			if outcome.isPending() {
				e.suspended = &suspension{mod: mod, ip: ip, stack: stack, cont: outcome.pending, discard: discard, entries: entries}
				return StatusPending, ""
			}
			if outcome.err != nil {
				e.lastErr = outcome.err.Error()
				return StatusFailed, ""
			}
			e.applyOutWrite(entries, outcome)
			if !discard {
				stack.Push(value.TempEntry(outcome.result))
			}
			if outcome.parserReady {
				parserReady = true
			}

		case compiler.OpReturn:
			topEntry, ok := stack.Pop()
			if !ok {
				return fail(opStart, "stack underflow on ret")
			}
			v, err := resolve(topEntry)
			if err != nil {
				return fail(opStart, err.Error())
			}
			return finalStatus(), v.String()

		case compiler.OpReturnKeep:
			return finalStatus(), ""

		default:
			return fail(opStart, fmt.Sprintf("unknown opcode %#02x", byte(op)))
		}
	}
}

// applyOutWrite writes an outcome's OUT-parameter result back into its
// originating variable slot (spec §3/§4.4's by-reference wire entry),
// if the argument came from a variable. Arguments backed by a literal,
// string constant, or caller parameter have no slot to write into and
// the write-back is silently skipped.
func (e *Engine) applyOutWrite(entries []value.StackEntry, outcome Outcome) {
	idx, val, ok := outcome.outWrite()
	if !ok || idx < 0 || idx >= len(entries) {
		return
	}
	if entries[idx].Kind == value.EntryVar {
		e.slots.Set(entries[idx].Index, val)
	}
}

func read1(code []byte, ip int) (int, int, error) {
	if ip >= len(code) {
		return 0, 0, fmt.Errorf("truncated instruction: missing 1-byte operand")
	}
	return int(code[ip]), 1, nil
}

func read2(code []byte, ip int) (int, int, error) {
	if ip+2 > len(code) {
		return 0, 0, fmt.Errorf("truncated instruction: missing 2-byte operand")
	}
	return int(binary.BigEndian.Uint16(code[ip:])), 2, nil
}

func readFuncID(code []byte, ip, width int) (compiler.FuncID, int, error) {
	if width == 1 {
		v, n, err := read1(code, ip)
		return compiler.FuncID(v), n, err
	}
	v, n, err := read2(code, ip)
	return compiler.FuncID(v), n, err
}

func intWidth(op compiler.Opcode) int {
	switch op {
	case compiler.OpPushInt1:
		return 1
	case compiler.OpPushInt2:
		return 2
	case compiler.OpPushInt3:
		return 3
	default:
		return 4
	}
}

func jumpWidth(op compiler.Opcode) int {
	switch op {
	case compiler.OpJumpIfFalse1, compiler.OpJumpIfTrue1, compiler.OpJump1:
		return 1
	default:
		return 2
	}
}

// readInt decodes a width-byte big-endian immediate and sign-extends it
// from that width, so pushi1 0xFF means -1 rather than 255.
func readInt(code []byte, ip, width int) (int32, error) {
	if ip+width > len(code) {
		return 0, fmt.Errorf("truncated instruction: missing %d-byte integer operand", width)
	}
	var u uint32
	for i := 0; i < width; i++ {
		u = u<<8 | uint32(code[ip+i])
	}
	shift := uint(32 - width*8)
	return int32(u<<shift) >> shift, nil
}

func readSigned(code []byte, ip, width int) (int, error) {
	if width == 1 {
		if ip >= len(code) {
			return 0, fmt.Errorf("truncated instruction: missing jump offset")
		}
		return int(int8(code[ip])), nil
	}
	if ip+2 > len(code) {
		return 0, fmt.Errorf("truncated instruction: missing jump offset")
	}
	return int(int16(binary.BigEndian.Uint16(code[ip:]))), nil
}
