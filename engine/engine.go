// Package engine is the host-facing API over the compiler/vm/builtin
// stack: init/shutdown, load a script, execute/continue an entry point,
// run a parser rule, and retrieve the last error (spec §6 "Host-facing
// API"). Scheduling is single-threaded cooperative per engine instance
// (spec §5): a per-engine "locked" flag rejects concurrent re-entry into
// execute/continue/parse/load rather than blocking, so the caller gets a
// failure instead of a deadlock.
package engine

import (
	"os"

	"riascript/builtin"
	"riascript/compiler"
	"riascript/lexer"
	"riascript/module"
	"riascript/parser"
	"riascript/vm"
)

// Engine is one script host instance: its own heap (compiled module,
// variable slots, operand stack, parser-rule table) owned exclusively by
// it (spec §5 "Shared resources").
type Engine struct {
	cfg      Config
	builtins *builtin.Builtins
	vmEngine *vm.Engine
	mod      *module.Module

	locked  bool
	lastErr string
}

// New builds an engine against the given collaborator dependencies. Use
// DefaultDeps to wire the stdlib/x-net-backed default collaborators, or
// supply fakes for testing.
func New(cfg Config, deps builtin.Deps) *Engine {
	b := builtin.New(deps)
	return &Engine{
		cfg:      cfg.normalised(),
		builtins: b,
		vmEngine: vm.NewEngine(b.Table()),
	}
}

// enter implements the per-engine locked flag: it fails fast instead of
// blocking when the engine is already mid-call (spec §5).
func (e *Engine) enter() *ApiError {
	if e.locked {
		return apiErrorf(CodeUnexpectedCall, "engine is already processing a call")
	}
	e.locked = true
	return nil
}

func (e *Engine) leave() { e.locked = false }

// Load reads, compiles, and binds a script as this engine's active
// module (spec §6 "load(path, handle)").
func (e *Engine) Load(path string) error {
	if err := e.enter(); err != nil {
		e.lastErr = err.Error()
		return err
	}
	defer e.leave()

	src, err := os.ReadFile(path)
	if err != nil {
		apiErr := apiErrorf(CodeBadParam, "reading %s: %v", path, err)
		e.lastErr = apiErr.Error()
		return apiErr
	}

	tokens, err := lexer.New(string(src)).Scan()
	if err != nil {
		apiErr := apiErrorf(CodeDataCorrupted, "lexing %s: %v", path, err)
		e.lastErr = apiErr.Error()
		return apiErr
	}

	astMod, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		apiErr := apiErrorf(CodeDataCorrupted, "parsing %s: %v", path, parseErrs[0])
		e.lastErr = apiErr.Error()
		return apiErr
	}

	compiled, err := compiler.NewModuleCompiler().Compile(astMod)
	if err != nil {
		apiErr := apiErrorf(CodeInternal, "compiling %s: %v", path, err)
		e.lastErr = apiErr.Error()
		return apiErr
	}

	raw, err := module.Encode(compiled)
	if err != nil {
		apiErr := apiErrorf(CodeInternal, "encoding %s: %v", path, err)
		e.lastErr = apiErr.Error()
		return apiErr
	}

	loaded, err := module.Load(raw)
	if err != nil {
		apiErr := apiErrorf(CodeDataCorrupted, "loading compiled %s: %v", path, err)
		e.lastErr = apiErr.Error()
		return apiErr
	}

	e.mod = loaded
	return nil
}

// Execute runs the named entry point with the given parameters (spec §6
// "execute(handle, name, params[]) -> (status, result_bytes)").
func (e *Engine) Execute(name string, params []string) (vm.Status, string) {
	if err := e.enter(); err != nil {
		e.lastErr = err.Error()
		return vm.StatusFailed, ""
	}
	defer e.leave()

	if e.mod == nil {
		apiErr := apiErrorf(CodeBadObject, "no module loaded")
		e.lastErr = apiErr.Error()
		return vm.StatusFailed, ""
	}

	status, result := e.vmEngine.Execute(e.mod, name, params)
	if status == vm.StatusFailed {
		e.lastErr = e.vmEngine.LastError()
	}
	return status, result
}

// Continue resumes a pending invocation (spec §6 "continue(handle) ->
// (status, result_bytes)").
func (e *Engine) Continue() (vm.Status, string) {
	if err := e.enter(); err != nil {
		e.lastErr = err.Error()
		return vm.StatusFailed, ""
	}
	defer e.leave()

	if !e.vmEngine.IsPending() {
		apiErr := apiErrorf(CodeUnexpectedCall, "continue called while not pending")
		e.lastErr = apiErr.Error()
		return vm.StatusFailed, ""
	}

	status, result := e.vmEngine.Continue()
	if status == vm.StatusFailed {
		e.lastErr = e.vmEngine.LastError()
	}
	return status, result
}

// Parse runs a registered parser rule against the source bound by
// create_parser_for_file, advancing the rule's cursor (spec §6
// "parse(handle, rule_name, &pos) -> result_bytes").
func (e *Engine) Parse(ruleName string) (string, error) {
	if err := e.enter(); err != nil {
		e.lastErr = err.Error()
		return "", err
	}
	defer e.leave()

	text, pos := e.builtins.BoundSource()
	result, found := e.builtins.Rules().Parse(text, ruleName, pos)
	if !found {
		apiErr := apiErrorf(CodeBadParam, "no such parser rule %q", ruleName)
		e.lastErr = apiErr.Error()
		return "", apiErr
	}
	return result, nil
}

// IsPending reports whether Execute/Continue last returned StatusPending.
func (e *Engine) IsPending() bool { return e.vmEngine.IsPending() }

// ErrorMsg returns the last cached failure message (spec §6
// "error_msg(handle) -> string"): the VM's own error text for runtime
// failures, or the raw ApiError text for host-API-level failures. The
// text is returned as cached; no position/file/line formatting is added.
func (e *Engine) ErrorMsg() string {
	if e.lastErr == "" {
		return ""
	}
	return e.lastErr
}
