package vm

import (
	"fmt"
	"strings"

	"riascript/compiler"
	"riascript/module"
)

// Disassemble renders every entry point's instruction stream in a
// human-readable form (opcode mnemonic plus decoded operand), one line
// per instruction, grouped under each function's "name(arity):" header.
// It reuses the same fetch/decode helpers the VM itself runs against, so
// it can never drift from actual execution semantics.
func Disassemble(mod *module.Module) (string, error) {
	code := mod.Code()
	var out strings.Builder

	for i, fn := range mod.Funcs {
		fmt.Fprintf(&out, "%s(%d):\n", fn.Name, fn.Arity)
		end := mod.FuncEnd(i)
		ip := fn.Offset
		for ip < end {
			line, next, err := disassembleOne(code, ip)
			if err != nil {
				return out.String(), fmt.Errorf("%s+%d: %w", fn.Name, ip-fn.Offset, err)
			}
			fmt.Fprintf(&out, "  %04d  %s\n", ip-fn.Offset, line)
			ip = next
		}
	}
	return out.String(), nil
}

func disassembleOne(code []byte, ip int) (line string, next int, err error) {
	if ip >= len(code) {
		return "", 0, fmt.Errorf("instruction pointer %d past end of code", ip)
	}
	op := compiler.Opcode(code[ip])
	opStart := ip
	ip++

	switch op {
	case compiler.OpPushVar, compiler.OpPop:
		slot, n, err := read1(code, ip)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s slot=%d", op, slot), ip + n, nil

	case compiler.OpPushParam:
		idx, n, err := read1(code, ip)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s @%d", op, idx), ip + n, nil

	case compiler.OpPushStr1:
		idx, n, err := read1(code, ip)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s pool[%d]", op, idx), ip + n, nil

	case compiler.OpPushStr2:
		idx, n, err := read2(code, ip)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s pool[%d]", op, idx), ip + n, nil

	case compiler.OpPushInt1, compiler.OpPushInt2, compiler.OpPushInt3, compiler.OpPushInt4:
		width := intWidth(op)
		v, err := readInt(code, ip, width)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s %d", op, v), ip + width, nil

	case compiler.OpJumpIfFalse1, compiler.OpJumpIfFalse2, compiler.OpJumpIfTrue1, compiler.OpJumpIfTrue2, compiler.OpJump1, compiler.OpJump2:
		width := jumpWidth(op)
		offset, err := readSigned(code, ip, width)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s -> %d", op, opStart+offset), ip + width, nil

	case compiler.OpCallP, compiler.OpCallI:
		fid, n, err := readFuncID(code, ip, 1)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s %s", op, fid), ip + n, nil

	case compiler.OpCall2P, compiler.OpCall2I:
		fid, n, err := readFuncID(code, ip, 2)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%-12s %s", op, fid), ip + n, nil

	case compiler.OpAddOrLOr, compiler.OpLess, compiler.OpMore, compiler.OpLessEq, compiler.OpMoreEq, compiler.OpEq, compiler.OpNotEq,
		compiler.OpSubOrLAnd, compiler.OpMul, compiler.OpDiv, compiler.OpRem, compiler.OpBAnd, compiler.OpBOr, compiler.OpXor,
		compiler.OpBNotOrNot, compiler.OpNeg, compiler.OpReturn, compiler.OpReturnKeep:
		return op.String(), ip, nil

	default:
		return "", 0, fmt.Errorf("unknown opcode %#02x at %d", byte(op), opStart)
	}
}
