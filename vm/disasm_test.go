package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"riascript/vm"
)

func TestDisassembleListsInstructionsPerFunction(t *testing.T) {
	mod := compileSource(t, `calc(0){ return(int_to_string(2+3*4)); }`)

	out, err := vm.Disassemble(mod)
	require.NoError(t, err)
	require.Contains(t, out, "calc(0):")
	require.Contains(t, out, "pushi1")
	require.Contains(t, out, "ret")
}
