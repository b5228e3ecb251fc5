package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"riascript/compiler"
	"riascript/lexer"
	"riascript/module"
	"riascript/parser"
)

// compileCmd lexes, parses, and compiles a .ria source file, writing the
// encoded bytecode module alongside it (spec §4.3 "Module layout").
type compileCmd struct {
	out string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a riascript source file to a bytecode module" }
func (*compileCmd) Usage() string {
	return `compile [-o out.ric] <file.ria>:
  Lex, parse, and compile a source file, writing the encoded module.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "o", "", "output path (default: replace the input extension with .ric)")
}

func (cmd *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 source file not provided\n")
		return subcommands.ExitUsageError
	}
	path := args[0]

	raw, err := compileFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err)
		return subcommands.ExitFailure
	}

	out := cmd.out
	if out == "" {
		out = outputPath(path)
	}
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 writing %s: %v\n", out, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(raw))
	return subcommands.ExitSuccess
}

// compileFile runs the lex/parse/compile/encode pipeline over a source
// file and returns the encoded module bytes.
func compileFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	tokens, err := lexer.New(string(src)).Scan()
	if err != nil {
		return nil, fmt.Errorf("lexing %s: %w", path, err)
	}

	astMod, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "parsing %s:\n", path)
		for _, pErr := range parseErrs {
			fmt.Fprintf(&b, "\t%v\n", pErr)
		}
		return nil, fmt.Errorf("%s", b.String())
	}

	compiled, err := compiler.NewModuleCompiler().Compile(astMod)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", path, err)
	}

	raw, err := module.Encode(compiled)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return raw, nil
}

func outputPath(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ".ric"
	}
	return path + ".ric"
}
