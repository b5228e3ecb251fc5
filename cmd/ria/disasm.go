package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"riascript/module"
	"riascript/vm"
)

// disasmCmd disassembles a compiled bytecode module, or a .ria source
// file (compiled in memory first), listing each entry point's decoded
// instruction stream.
type disasmCmd struct {
	fromSource bool
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Disassemble a compiled bytecode module" }
func (*disasmCmd) Usage() string {
	return `disasm [-src] <file>:
  Print the decoded instruction stream for every entry point.
`
}

func (cmd *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.fromSource, "src", false, "treat the file as .ria source and compile it first")
}

func (cmd *disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}
	path := args[0]

	var raw []byte
	var err error
	if cmd.fromSource {
		raw, err = compileFile(path)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err)
		return subcommands.ExitFailure
	}

	mod, err := module.Load(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 loading module: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := vm.Disassemble(mod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 disassembling: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
