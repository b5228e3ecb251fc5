package compiler

import "encoding/binary"

// Instructions is a contiguous run of encoded bytecode for one entry
// point, exactly as it will be written into a module's executable region.
type Instructions []byte

// put1/put2/put3 append a big-endian operand of the given width; the
// module's on-disk layout is big-endian throughout (spec §3 "Module
// layout").
func put1(buf []byte, v uint32) []byte { return append(buf, byte(v)) }

func put2(buf []byte, v uint32) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	return append(buf, b[:]...)
}

func put3(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>16), byte(v>>8), byte(v))
}

func put4(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// emitPushVar appends a pushv instruction addressing slot idx (0..255).
func emitPushVar(idx int) Instructions {
	return put1(Instructions{byte(OpPushVar)}, uint32(idx))
}

// emitPushParam appends a pushp instruction addressing caller-parameter
// idx (0..255).
func emitPushParam(idx int) Instructions {
	return put1(Instructions{byte(OpPushParam)}, uint32(idx))
}

// emitPushStr appends the narrowest pushs/pushs2 form that fits idx.
func emitPushStr(idx int) Instructions {
	if idx <= 0xFF {
		return put1(Instructions{byte(OpPushStr1)}, uint32(idx))
	}
	return put2(Instructions{byte(OpPushStr2)}, uint32(idx))
}

// emitPushInt appends the narrowest pushi1..pushi4 form that fits n,
// encoded as the minimal number of big-endian bytes representing n as an
// unsigned magnitude plus sign bit in the top byte — here simplified to
// the minimal byte count needed to round-trip n through int32.
func emitPushInt(n int64) Instructions {
	u := uint32(int32(n))
	switch {
	case u == uint32(int32(int8(u))):
		return put1(Instructions{byte(OpPushInt1)}, u&0xFF)
	case u == uint32(int32(int16(u))):
		return put2(Instructions{byte(OpPushInt2)}, u&0xFFFF)
	case u == uint32(int32(u<<8)>>8):
		return put3(Instructions{byte(OpPushInt3)}, u&0xFFFFFF)
	default:
		return put4(Instructions{byte(OpPushInt4)}, u)
	}
}

// emitPop appends a pop instruction addressing slot idx.
func emitPop(idx int) Instructions {
	return put1(Instructions{byte(OpPop)}, uint32(idx))
}

// emitEval appends a zero-operand evaluate (binary/unary) instruction.
func emitEval(op Opcode) Instructions {
	return Instructions{byte(op)}
}

// emitCall appends callp (or calli when discard is true); FuncID is a
// single byte so the 1-byte form always fits.
func emitCall(id FuncID, discard bool) Instructions {
	op := OpCallP
	if discard {
		op = OpCallI
	}
	return put1(Instructions{byte(op)}, uint32(id))
}

// emitJumpPlaceholder appends a jump instruction (jif2/jit2/jmp2) with a
// zeroed 2-byte offset, since the target isn't known yet; patchJump fills
// the offset in later. The wide form is kept as emitted: jumps are never
// narrowed to their 1-byte form.
func emitJumpPlaceholder(op2 Opcode) Instructions {
	return put2(Instructions{byte(op2)}, 0)
}

// emitReturn appends ret (pop the stack top and return it as the result)
// or retn (stop with an empty result, leaving the stack untouched)
// depending on keepStackTop.
func emitReturn(keepStackTop bool) Instructions {
	if keepStackTop {
		return Instructions{byte(OpReturnKeep)}
	}
	return Instructions{byte(OpReturn)}
}
