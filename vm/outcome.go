package vm

import "riascript/value"

// Outcome is what a built-in call produces: either it completed
// immediately, or it needs the host to do more work before the VM can
// continue. This replaces the original engine's callback-hook-driven
// suspension with an explicit state machine, per the design notes:
// "each built-in returns Ready(Value) | Pending(Continuation)".
type Outcome struct {
	pending     *Continuation
	result      value.Value
	err         error
	parserReady bool

	// outSet/outIndex/outValue implement the by-reference OUT-parameter
	// wire entry (spec §3/§4.4): a built-in whose argIndex'th argument
	// came from a variable slot can ask the VM to write val back into
	// that slot once the call resolves (extract_string/
	// extract_string_from_file use this to advance the caller's cursor).
	outSet   bool
	outIndex int
	outValue value.Value
}

// Ready completes the call immediately with result.
func Ready(result value.Value) Outcome { return Outcome{result: result} }

// ReadyParserReady completes the call like Ready, additionally marking
// the engine's terminal status as `ok_parser_ready` instead of `ok`
// (spec §4.4 "Setting the parser-ready flag on successful
// create_parser_for_file"). Only create_parser_for_file's implementation
// should use this.
func ReadyParserReady(result value.Value) Outcome {
	return Outcome{result: result, parserReady: true}
}

// Failed completes the call immediately with a built-in-level error (spec
// §6 status `failed`).
func Failed(err error) Outcome { return Outcome{err: err} }

// Pend suspends the call; c.Poll will be invoked again on the next
// Continue() until it stops returning a Pending outcome.
func Pend(c *Continuation) Outcome { return Outcome{pending: c} }

func (o Outcome) isPending() bool { return o.pending != nil }

// WithOut attaches an out-parameter write-back to an already-built
// outcome: once this call resolves, argIndex's operand-stack entry is
// written back to its originating variable slot with val, if that
// argument came from a variable rather than a literal or temporary.
func (o Outcome) WithOut(argIndex int, val value.Value) Outcome {
	o.outSet = true
	o.outIndex = argIndex
	o.outValue = val
	return o
}

// outWrite reports the pending write-back, if any.
func (o Outcome) outWrite() (index int, val value.Value, ok bool) {
	return o.outIndex, o.outValue, o.outSet
}

// IsFailed reports whether the outcome completed with a built-in-level
// error. Exported for built-in unit tests that call Table entries
// directly without a running Engine.
func (o Outcome) IsFailed() bool { return o.err != nil }

// Err returns the failure error, if any.
func (o Outcome) Err() error { return o.err }

// Value returns the completed result. It is only meaningful when
// !IsFailed() && !IsPending().
func (o Outcome) Value() value.Value { return o.result }

// IsParserReady reports whether this outcome should carry the engine's
// terminal status as ok_parser_ready rather than ok.
func (o Outcome) IsParserReady() bool { return o.parserReady }

// IsPending reports whether the call suspended and needs Continue().
func (o Outcome) IsPending() bool { return o.isPending() }

// Continuation is the host-supplied resumption hook for a suspended
// built-in call. It owns whatever partial state the built-in accumulated
// (e.g. an in-flight HTTP request); Poll is called once per Continue()
// and must not block.
type Continuation struct {
	Poll func() Outcome
}
