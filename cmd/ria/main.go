// Command ria is riascript's command-line front end: compile a script to
// its bytecode module, run it to completion, disassemble a compiled
// module, or drive an interactive REPL. run and repl go through the
// engine package (spec §6's host API); compile and disasm call the
// lexer/parser/compiler/module/vm packages directly.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&disasmCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
