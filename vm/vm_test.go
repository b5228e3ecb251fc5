package vm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riascript/compiler"
	"riascript/lexer"
	"riascript/module"
	"riascript/parser"
	"riascript/parserrule"
	"riascript/value"
	"riascript/vm"
)

// compileSource runs the full lex/parse/compile/encode/load pipeline and
// returns a ready-to-execute module, failing the test on any stage error.
func compileSource(t *testing.T, src string) *module.Module {
	t.Helper()
	tokens, err := lexer.New(src).Scan()
	require.NoError(t, err)

	mod, errs := parser.Make(tokens).Parse()
	require.Empty(t, errs)

	cm, err := compiler.NewModuleCompiler().Compile(mod)
	require.NoError(t, err)

	raw, err := module.Encode(cm)
	require.NoError(t, err)

	loaded, err := module.Load(raw)
	require.NoError(t, err)
	return loaded
}

func TestExecuteArithmeticHasNoOperatorPrecedence(t *testing.T) {
	mod := compileSource(t, `calc(0){ return(int_to_string(2+3*4)); }`)
	e := vm.NewEngine(builtinTable())

	status, result := e.Execute(mod, "calc", nil)
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "20", result)
}

func TestExecuteWhileLoopAccumulatesString(t *testing.T) {
	mod := compileSource(t, `count(0){ $i=0; $s=""; while ($i<3) { $s=$s+int_to_string($i); $i=$i+1; } return($s); }`)
	e := vm.NewEngine(builtinTable())

	status, result := e.Execute(mod, "count", nil)
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "012", result)
}

func TestExecuteIfElseBranches(t *testing.T) {
	mod := compileSource(t, `pick(1){ if (@0=="yes") { return("y"); } else { return("n"); } }`)
	e := vm.NewEngine(builtinTable())

	status, result := e.Execute(mod, "pick", []string{"yes"})
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "y", result)

	status, result = e.Execute(mod, "pick", []string{"no"})
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "n", result)
}

func TestExecuteGlobalPersistsAcrossCalls(t *testing.T) {
	mod := compileSource(t, `
		global($counter);
		reset(0){ $counter=0; return(""); }
		bump(0){ $counter=$counter+1; return(int_to_string($counter)); }
	`)
	e := vm.NewEngine(builtinTable())

	status, _ := e.Execute(mod, "reset", nil)
	assert.Equal(t, vm.StatusOK, status)
	_, first := e.Execute(mod, "bump", nil)
	_, second := e.Execute(mod, "bump", nil)
	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestExecuteUnknownEntryPointFails(t *testing.T) {
	mod := compileSource(t, `calc(0){ return("x"); }`)
	e := vm.NewEngine(builtinTable())

	status, _ := e.Execute(mod, "nope", nil)
	assert.Equal(t, vm.StatusFailed, status)
	assert.Contains(t, e.LastError(), "no such entry point")
}

// TestExecuteSuspendsAndResumesOnPendingBuiltin exercises the E6 scenario:
// a built-in that reports pending on its first poll and succeeds on the
// next, with the VM surfacing (pending, "") then (ok, "200") across an
// Execute/Continue pair.
func TestExecuteSuspendsAndResumesOnPendingBuiltin(t *testing.T) {
	mod := compileSource(t, `fetch(1){ return(int_to_string(get_html(@0))); }`)

	polls := 0
	table := builtinTable()
	table[compiler.FuncGetHTML] = func(args []value.Value) vm.Outcome {
		polls++
		if polls == 1 {
			return vm.Pend(&vm.Continuation{Poll: func() vm.Outcome {
				return vm.Ready(value.FromInt(200))
			}})
		}
		return vm.Ready(value.FromInt(200))
	}

	e := vm.NewEngine(table)
	status, result := e.Execute(mod, "fetch", []string{"http://example.test"})
	require.Equal(t, vm.StatusPending, status)
	require.Equal(t, "", result)
	assert.True(t, e.IsPending())

	status, result = e.Continue()
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "200", result)
	assert.False(t, e.IsPending())
}

func TestExecuteFailedBuiltinReportsError(t *testing.T) {
	mod := compileSource(t, `fetch(1){ return(int_to_string(get_html(@0))); }`)

	table := builtinTable()
	table[compiler.FuncGetHTML] = func(args []value.Value) vm.Outcome {
		return vm.Failed(errors.New("connect refused"))
	}

	e := vm.NewEngine(table)
	status, _ := e.Execute(mod, "fetch", []string{"http://example.test"})
	assert.Equal(t, vm.StatusFailed, status)
	assert.Contains(t, e.LastError(), "connect refused")
}

func TestExecuteParserReadyStatus(t *testing.T) {
	mod := compileSource(t, `parse_setup(1){ create_parser_for_file(@0, 0); return(""); }`)

	table := builtinTable()
	table[compiler.FuncCreateParserForFile] = func(args []value.Value) vm.Outcome {
		return vm.ReadyParserReady(value.Unset())
	}

	e := vm.NewEngine(table)
	status, _ := e.Execute(mod, "parse_setup", []string{"sample.html"})
	assert.Equal(t, vm.StatusOKParserReady, status)
}

func TestExecuteDivisionByZeroFails(t *testing.T) {
	mod := compileSource(t, `calc(0){ return(int_to_string(1/0)); }`)
	e := vm.NewEngine(builtinTable())

	status, _ := e.Execute(mod, "calc", nil)
	assert.Equal(t, vm.StatusFailed, status)
}

// TestExecuteExtractStringWritesBackCursor exercises the E3 scenario: a
// variable passed as extract_string's pos argument is advanced to the
// byte offset just past the matched end marker, via the VM's
// OUT-parameter write-back rather than extract_string's return value.
func TestExecuteExtractStringWritesBackCursor(t *testing.T) {
	mod := compileSource(t, `
		scan(1){
			$p=0;
			$r=extract_string(@0, $p, "<b>", "</b>");
			return(int_to_string($p));
		}
	`)

	table := builtinTable()
	table[compiler.FuncExtractString] = func(args []value.Value) vm.Outcome {
		src, pos, begin, end := args[0].Str, int(args[1].Int), args[2].Str, args[3].Str
		result, newPos, ok := parserrule.ExtractString(src, pos, begin, end)
		if !ok {
			return vm.Ready(value.FromString("")).WithOut(1, value.FromInt(int64(newPos)))
		}
		return vm.Ready(value.FromString(result)).WithOut(1, value.FromInt(int64(newPos)))
	}

	e := vm.NewEngine(table)
	status, result := e.Execute(mod, "scan", []string{"prefix<b>hello</b>suffix"})
	assert.Equal(t, vm.StatusOK, status)
	assert.Equal(t, "18", result) // byte offset just past "</b>"
}

// builtinTable registers only the handful of built-ins these tests
// exercise; int_to_string is implemented directly here rather than via
// package builtin to keep vm's tests independent of that package.
func builtinTable() vm.Table {
	return vm.Table{
		compiler.FuncIntToString: func(args []value.Value) vm.Outcome {
			return vm.Ready(value.FromString(args[0].String()))
		},
	}
}
