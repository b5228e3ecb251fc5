// Package module implements riascript's on-disk bytecode container:
// encoding a compiler.CompiledModule to the documented byte layout, and
// loading it back for the VM to execute (spec §3 "Module layout", §4.3
// "Bytecode loader"). The layout is big-endian throughout and intentionally
// flat — no relocation, no versioning byte — matching the original
// engine's "COOOLN...NKPPP...E...S...S" header.
package module

import (
	"fmt"

	"riascript/compiler"
)

const (
	headerSize = 4 // fn_count(u8) + strpool_offset(u24)
)

// FuncEntry is one symbol table record: an entry point's name, declared
// parameter count, and the absolute byte offset (from module start) where
// its code begins.
type FuncEntry struct {
	Name   string
	Arity  int
	Offset int
}

// Module is a loaded, ready-to-execute bytecode container.
type Module struct {
	raw     []byte
	Funcs   []FuncEntry
	Strings []string

	// code is the [codeStart, strpoolOffset) slice of raw. Code()
	// returns raw rather than this slice, since FuncEntry.Offset values
	// and jump targets are offsets into raw, not into code.
	code          []byte
	strpoolOffset int
}

// Encode serialises a compiled module to its on-disk byte layout.
func Encode(cm compiler.CompiledModule) ([]byte, error) {
	if len(cm.Funcs) > 0xFF {
		return nil, fmt.Errorf("module declares %d entry points, max 255", len(cm.Funcs))
	}

	var symtab []byte
	var code []byte
	for _, fn := range cm.Funcs {
		if len(fn.Name) > 0xFF {
			return nil, fmt.Errorf("entry point name %q exceeds 255 bytes", fn.Name)
		}
		symtab = append(symtab, byte(len(fn.Name)))
		symtab = append(symtab, fn.Name...)
		symtab = append(symtab, byte(fn.Arity))
		// entry_offset patched in a second pass, once we know
		// headerSize+len(symtab) (the start of the code region).
		symtab = append(symtab, 0, 0, 0)
	}

	codeStart := headerSize + len(symtab)
	pos := 0
	entryIdx := 0
	for _, fn := range cm.Funcs {
		entryOffset := codeStart + pos
		put24(symtab[entryIdx+1+len(fn.Name)+1:], entryOffset)
		entryIdx += 1 + len(fn.Name) + 1 + 3
		code = append(code, fn.Code...)
		pos += len(fn.Code)
	}

	strpoolOffset := codeStart + len(code)
	if strpoolOffset > 0xFFFFFF {
		return nil, fmt.Errorf("module too large: string pool offset %d exceeds 24 bits", strpoolOffset)
	}

	var strpool []byte
	for _, s := range cm.Strings {
		if len(s)+1 > 0xFF {
			return nil, fmt.Errorf("string constant %q exceeds 254 bytes", s)
		}
		strpool = append(strpool, byte(len(s)+1))
		strpool = append(strpool, s...)
		strpool = append(strpool, 0x00)
	}

	out := make([]byte, 0, strpoolOffset+len(strpool))
	out = append(out, byte(len(cm.Funcs)))
	out = put24Append(out, strpoolOffset)
	out = append(out, symtab...)
	out = append(out, code...)
	out = append(out, strpool...)
	return out, nil
}

func put24(b []byte, v int) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func put24Append(b []byte, v int) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}

func get24(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2])
}

// Load parses a module's byte layout, validating the symbol table and
// string-pool offset. It performs no validation of the code bytes
// themselves — malformed instructions surface as VM runtime errors, not
// load errors, mirroring the original loader's minimal up-front checks.
func Load(data []byte) (*Module, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("module truncated: need at least %d header bytes, got %d", headerSize, len(data))
	}
	fnCount := int(data[0])
	strpoolOffset := get24(data[1:4])
	if strpoolOffset < headerSize || strpoolOffset > len(data) {
		return nil, fmt.Errorf("module corrupt: strpool_offset %d out of range [%d, %d]", strpoolOffset, headerSize, len(data))
	}

	m := &Module{raw: data}
	pos := headerSize
	for i := 0; i < fnCount; i++ {
		if pos >= len(data) {
			return nil, fmt.Errorf("module truncated: symbol table entry %d missing", i)
		}
		nameLen := int(data[pos])
		pos++
		if pos+nameLen+1+3 > len(data) {
			return nil, fmt.Errorf("module truncated: symbol table entry %d overruns module", i)
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen
		arity := int(data[pos])
		pos++
		offset := get24(data[pos : pos+3])
		pos += 3
		if offset < headerSize || offset > strpoolOffset {
			return nil, fmt.Errorf("entry point %q has out-of-range entry_offset %d", name, offset)
		}
		m.Funcs = append(m.Funcs, FuncEntry{Name: name, Arity: arity, Offset: offset})
	}

	m.code = data[pos:strpoolOffset]
	m.strpoolOffset = strpoolOffset

	sp := strpoolOffset
	for sp < len(data) {
		length := int(data[sp])
		if length == 0 {
			return nil, fmt.Errorf("string pool corrupt: zero-length entry at offset %d", sp)
		}
		sp++
		if sp+length > len(data) {
			return nil, fmt.Errorf("string pool corrupt: entry at offset %d overruns module", sp-1)
		}
		strBytes := data[sp : sp+length-1] // exclude the NUL terminator
		m.Strings = append(m.Strings, string(strBytes))
		sp += length
	}

	return m, nil
}

// Code returns the module's raw bytes (header, symbol table, code and
// string pool); instruction decoding addresses them with absolute offsets
// taken straight from FuncEntry.Offset or a jump target.
func (m *Module) Code() []byte { return m.raw }

// EntryPoint performs a case-sensitive linear lookup by name, matching
// the original loader's simple scan over the fixed-size symbol table
// (spec §4.3).
func (m *Module) EntryPoint(name string) (FuncEntry, bool) {
	for _, fn := range m.Funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return FuncEntry{}, false
}

// FuncEnd returns the absolute offset just past Funcs[i]'s code: the
// next function's entry offset, or the start of the string pool for the
// last declared function. Used by the disassembler to bound each
// function's instruction stream.
func (m *Module) FuncEnd(i int) int {
	if i+1 < len(m.Funcs) {
		return m.Funcs[i+1].Offset
	}
	return m.strpoolOffset
}

func (m *Module) String(idx int) (string, error) {
	if idx < 0 || idx >= len(m.Strings) {
		return "", fmt.Errorf("string pool index %d out of range [0, %d)", idx, len(m.Strings))
	}
	return m.Strings[idx], nil
}
