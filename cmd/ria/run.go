package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"riascript/engine"
	"riascript/vm"
)

// stringList accumulates repeated -param flag values, in order, for the
// entry point's @0, @1, ... parameters.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// runCmd loads and executes a riascript source file through the engine
// package, the same host API a production embedder would drive (spec §6).
type runCmd struct {
	entry   string
	tempDir string
	workDir string
	params  stringList
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Run a riascript entry point to completion" }
func (*runCmd) Usage() string {
	return `run [-entry name] [-param v]... <file.ria>:
  Load a script and execute one entry point, following any pending
  suspension through to completion.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.entry, "entry", "main", "entry point name to execute")
	f.StringVar(&cmd.tempDir, "tempdir", os.TempDir(), "directory for the cookie jar's per-site files")
	f.StringVar(&cmd.workDir, "workdir", ".", "stored as the engine's WorkDir; file built-ins resolve relative paths against the current directory")
	f.Var(&cmd.params, "param", "entry point parameter (repeatable, in order)")
}

func (cmd *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 source file not provided\n")
		return subcommands.ExitUsageError
	}
	path := args[0]

	cfg := engine.Config{TempDir: cmd.tempDir, WorkDir: cmd.workDir}
	eng := engine.New(cfg, engine.DefaultDeps(cfg))

	if err := eng.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err)
		return subcommands.ExitFailure
	}

	status, result := eng.Execute(cmd.entry, cmd.params)
	for status == vm.StatusPending {
		status, result = eng.Continue()
	}

	if status == vm.StatusFailed {
		fmt.Fprintf(os.Stderr, "💥 %s\n", eng.ErrorMsg())
		return subcommands.ExitFailure
	}

	fmt.Println(result)
	return subcommands.ExitSuccess
}
