// Package value defines the tagged runtime value riascript's compiler and
// VM pass around, along with the variable-slot and parameter-frame layouts
// used to address them. The tag set and slot threshold are taken verbatim
// from the original engine's wire format so compiled modules stay portable
// across implementations (ria_core.h: ria_type_t, ria_var_threshold).
package value

import "fmt"

// Tag identifies a Value's runtime type. The zero tag, Unknown, is what an
// uninitialised local or global holds before its first assignment.
type Tag byte

const (
	Unknown Tag = 0x00
	String  Tag = 0x01
	Int     Tag = 0x02
	Bool    Tag = 0x03
)

func (t Tag) String() string {
	switch t {
	case Unknown:
		return "unknown"
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "boolean"
	default:
		return fmt.Sprintf("tag(%#x)", byte(t))
	}
}

// Value is a single tagged runtime value. Only the field matching Tag is
// meaningful; the others are zero.
type Value struct {
	Tag Tag
	Str string
	Int int64
	Bln bool
}

func Unset() Value { return Value{Tag: Unknown} }

func FromString(s string) Value { return Value{Tag: String, Str: s} }

func FromInt(i int64) Value { return Value{Tag: Int, Int: i} }

func FromBool(b bool) Value { return Value{Tag: Bool, Bln: b} }

// Truthy reports whether v participates as "true" in a boolean context.
// Only Bool values are ever produced by comparison/logical opcodes, but the
// VM calls this defensively before any conditional jump.
func (v Value) Truthy() bool {
	switch v.Tag {
	case Bool:
		return v.Bln
	case Int:
		return v.Int != 0
	case String:
		return v.Str != ""
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Tag {
	case String:
		return v.Str
	case Int:
		return fmt.Sprintf("%d", v.Int)
	case Bool:
		if v.Bln {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// VarThreshold is the slot index at which local variable addressing ends
// and global variable addressing begins: slots 0..127 are locals, 128..255
// are globals (ria_core.h: ria_var_threshold).
const VarThreshold = 128

// MaxSlots is the total addressable variable space: one byte operand, so
// 256 locals+globals combined across both ranges.
const MaxSlots = 256

// IsGlobalSlot reports whether a raw pushv/pop operand addresses a global.
func IsGlobalSlot(slot int) bool { return slot >= VarThreshold }

// Slots is the indexable local/global variable vector an executing frame
// owns. Locals live at [0, VarThreshold) and globals at
// [VarThreshold, MaxSlots); a single backing array keeps addressing a
// plain index operation exactly like the opcode's operand byte.
type Slots [MaxSlots]Value

func NewSlots() *Slots {
	s := &Slots{}
	for i := range s {
		s[i] = Unset()
	}
	return s
}

func (s *Slots) Get(slot int) Value { return s[slot] }

func (s *Slots) Set(slot int, v Value) { s[slot] = v }
