package value

// EntryKind distinguishes what an operand-stack slot refers to. The
// original engine mixed raw pointers into module/pool/temp memory with
// immediate encodings on its operand stack; per the rearchitecture note in
// the design notes, this module instead keeps every stack entry as an
// indexed enum, so the operand stack never holds raw memory references.
type EntryKind byte

const (
	EntryVar       EntryKind = iota // local or global slot index
	EntryStrConst                  // index into the module's string pool
	EntryParam                     // caller-parameter index
	EntryTemp                      // owns a Value directly (expression scratch)
	EntryResult                    // the single return-value slot
	EntryImmediate                 // an immediate int literal baked into the module
)

// StackEntry is one element of the VM's operand stack.
type StackEntry struct {
	Kind  EntryKind
	Index int   // meaningful for Var/StrConst/Param
	Val   Value // meaningful for Temp/Immediate
}

func VarEntry(idx int) StackEntry { return StackEntry{Kind: EntryVar, Index: idx} }

func StrConstEntry(idx int) StackEntry { return StackEntry{Kind: EntryStrConst, Index: idx} }

func ParamEntry(idx int) StackEntry { return StackEntry{Kind: EntryParam, Index: idx} }

func TempEntry(v Value) StackEntry { return StackEntry{Kind: EntryTemp, Val: v} }

func ImmediateEntry(i int64) StackEntry { return StackEntry{Kind: EntryImmediate, Val: FromInt(i)} }
