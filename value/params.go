package value

import "sort"

// Frame is the caller-parameter frame passed into Execute: a sparse,
// dense-indexed (0..255) set of parameters supplied by the host (spec §3
// "Parameter frame"). Replacing a parameter drops any prior entry at the
// same index, matching the original `{param_index:u8, asciiz_bytes}`
// layout's replace-in-place semantics.
type Frame struct {
	entries map[byte]string
}

func NewFrame(params []string) *Frame {
	f := &Frame{entries: make(map[byte]string, len(params))}
	for i, p := range params {
		f.entries[byte(i)] = p
	}
	return f
}

func (f *Frame) Get(idx byte) (string, bool) {
	s, ok := f.entries[idx]
	return s, ok
}

func (f *Frame) Set(idx byte, val string) {
	f.entries[idx] = val
}

// Encode serialises the frame back into the `{param_index:u8,
// asciiz_bytes}*` wire layout, indices in ascending order.
func (f *Frame) Encode() []byte {
	indices := make([]byte, 0, len(f.entries))
	for idx := range f.entries {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	var out []byte
	for _, idx := range indices {
		out = append(out, idx)
		out = append(out, []byte(f.entries[idx])...)
		out = append(out, 0x00)
	}
	return out
}
