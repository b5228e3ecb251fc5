package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"riascript/engine"
	"riascript/lexer"
	"riascript/parser"
	"riascript/token"
	"riascript/vm"
)

const replBanner = `
riascript interactive shell. Type a statement, or a block spanning
several lines; it runs once its braces balance. Type "exit" to quit.
`

// replCmd is an interactive shell over the engine package: each
// accepted chunk of input is wrapped as the body of a throwaway entry
// point and recompiled fresh rather than kept on a single live VM
// instance across inputs — riascript's Execute resets every local slot
// on entry, and a chunk, being a function body, cannot declare globals,
// so there is no variable state to preserve between chunks anyway.
type replCmd struct {
	tempDir string
	workDir string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive riascript shell" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive riascript shell.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.tempDir, "tempdir", os.TempDir(), "directory for the cookie jar's per-site files")
	f.StringVar(&cmd.workDir, "workdir", ".", "stored as the engine's WorkDir; file built-ins resolve relative paths against the current directory")
}

func (cmd *replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Print(replBanner)

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	cfg := engine.Config{TempDir: cmd.tempDir, WorkDir: cmd.workDir}
	eng := engine.New(cfg, engine.DefaultDeps(cfg))

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		body := buffer.String()

		rawTokens, lexErr := lexer.New(body).Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			buffer.Reset()
			continue
		}

		if !isInputReady(rawTokens) {
			continue
		}

		wrappedTokens, lexErr := lexer.New(wrapBody(body)).Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			buffer.Reset()
			continue
		}

		_, parseErrs := parser.Make(wrappedTokens).Parse()
		if len(parseErrs) > 0 {
			if allParseErrorsAtEOF(parseErrs, wrappedTokens[len(wrappedTokens)-1]) {
				continue
			}
			fmt.Println("Parse error:")
			for _, pErr := range parseErrs {
				fmt.Printf("\t%v\n", pErr)
			}
			buffer.Reset()
			continue
		}

		runChunk(eng, body)
		buffer.Reset()
	}
}

// wrapBody wraps a chunk of REPL input as the body of a throwaway
// zero-arity entry point, so it lexes and parses as a complete module.
func wrapBody(body string) string {
	return "__repl(0){" + body + "}"
}

// runChunk writes the wrapped chunk to a scratch file and drives it
// through a fresh load/execute/continue cycle.
func runChunk(eng *engine.Engine, body string) {
	f, err := os.CreateTemp("", "ria-repl-*.ria")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating scratch file: %v\n", err)
		return
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := f.WriteString(wrapBody(body)); err != nil {
		fmt.Fprintf(os.Stderr, "writing scratch file: %v\n", err)
		return
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}

	if err := eng.Load(f.Name()); err != nil {
		fmt.Println(err)
		return
	}

	status, result := eng.Execute("__repl", nil)
	for status == vm.StatusPending {
		status, result = eng.Continue()
	}
	if status == vm.StatusFailed {
		fmt.Println(eng.ErrorMsg())
		return
	}
	if result != "" {
		fmt.Println(result)
	}
}

// isInputReady checks for balanced braces and for a trailing token that
// clearly expects a continuation, so the shell waits for more input
// instead of compiling a truncated chunk. riascript tokens carry a byte
// Pos rather than Line/Column, so the EOF comparison below follows suit.
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.REM,
		token.BAND, token.BOR, token.XOR, token.BANG,
		token.EQUAL_EQUAL, token.NOT_EQUAL,
		token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL,
		token.AND, token.OR, token.COMMA, token.LPA, token.COLON,
		token.WHILE, token.IF, token.ELSE, token.RETURN, token.GLOBAL:
		return false
	}

	return true
}

// lastNonEOF returns the last non-EOF token, or nil if every token is EOF.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error is a syntax
// error positioned at the final EOF token — the signal that the user
// simply hasn't finished typing yet, not that the input is malformed.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Pos != eof.Pos {
			return false
		}
	}
	return len(parseErrs) > 0
}
