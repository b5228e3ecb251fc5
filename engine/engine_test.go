package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"riascript/engine"
	"riascript/vm"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.ria")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := engine.Config{TempDir: t.TempDir(), WorkDir: t.TempDir()}
	return engine.New(cfg, engine.DefaultDeps(cfg))
}

func TestEngineLoadAndExecuteArithmetic(t *testing.T) {
	e := newTestEngine(t)
	path := writeScript(t, `calc(0){ return(int_to_string(2+3*4)); }`)

	require.NoError(t, e.Load(path))
	status, result := e.Execute("calc", nil)
	require.Equal(t, vm.StatusOK, status)
	require.Equal(t, "20", result)
}

func TestEngineExecuteWithoutLoadFails(t *testing.T) {
	e := newTestEngine(t)
	status, _ := e.Execute("calc", nil)
	require.Equal(t, vm.StatusFailed, status)
	require.NotEmpty(t, e.ErrorMsg())
}

func TestEngineLoadSyntaxErrorReportsError(t *testing.T) {
	e := newTestEngine(t)
	path := writeScript(t, `calc(0){ return( ; }`)

	err := e.Load(path)
	require.Error(t, err)
	require.NotEmpty(t, e.ErrorMsg())
}

func TestEngineCreateParserAndParseRule(t *testing.T) {
	e := newTestEngine(t)
	samplePath := filepath.Join(t.TempDir(), "sample.html")
	require.NoError(t, os.WriteFile(samplePath, []byte("prefix<b>hello</b>suffix"), 0o644))

	scriptPath := writeScript(t, `bindparser(1){
		create_parser_for_file(@0, 0);
		add_parsing_rule("bold", "<b>", "</b>", "");
		return("");
	}`)
	require.NoError(t, e.Load(scriptPath))

	status, _ := e.Execute("bindparser", []string{samplePath})
	require.Equal(t, vm.StatusOKParserReady, status)

	result, err := e.Parse("bold")
	require.NoError(t, err)
	require.Equal(t, "hello", result)
}

func TestEngineParseUnknownRuleFails(t *testing.T) {
	e := newTestEngine(t)
	path := writeScript(t, `noop(0){ return(""); }`)
	require.NoError(t, e.Load(path))
	_, _ = e.Execute("noop", nil)

	_, err := e.Parse("missing")
	require.Error(t, err)
}
