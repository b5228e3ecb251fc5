// Package builtin wires the VM's fixed function table (spec §4.4 "Built-
// ins") to the transport and parserrule collaborators. Every entry here
// is a vm.Fn: it receives already-resolved argument values and returns a
// vm.Outcome, never blocking past what the underlying transport/
// filesystem call itself blocks for.
package builtin

import (
	"fmt"
	"strconv"

	"riascript/compiler"
	"riascript/parserrule"
	"riascript/transport"
	"riascript/value"
	"riascript/vm"
)

// StringToIntSentinel is the documented out-of-range marker string_to_int
// returns for non-digit input (spec §8, testable property 5).
const StringToIntSentinel = 0xFFFFFFFF

// Deps are the collaborators one engine instance's built-ins call through
// to. Rules is owned by the VM instance, not the module (spec §4.4), so
// it is constructed once per engine and shared across every builtin call.
type Deps struct {
	HTTP    transport.HTTPTransport
	Cookies transport.CookieJar
	FS      transport.Filesystem
	HTML    transport.HTMLNormaliser
	Rules   *parserrule.Table
}

// Builtins holds the per-engine state a handful of built-ins need beyond
// their arguments: the last HTTP response body (last_response), and the
// source text + cursor create_parser_for_file bound for later parse
// calls (spec §6 "Parser-ready").
type Builtins struct {
	deps Deps

	lastBody   string
	lastStatus int

	boundSource string
	boundPos    int
}

func New(deps Deps) *Builtins {
	if deps.Rules == nil {
		deps.Rules = parserrule.NewTable()
	}
	return &Builtins{deps: deps}
}

// BoundSource exposes the create_parser_for_file-bound text and the
// shared cursor position for the engine package's Parse host operation,
// which runs against deps.Rules directly rather than through a VM call.
func (b *Builtins) BoundSource() (text string, pos *int) {
	return b.boundSource, &b.boundPos
}

// Rules exposes the per-engine parser-rule table for the engine
// package's Parse host operation.
func (b *Builtins) Rules() *parserrule.Table { return b.deps.Rules }

// Table builds the vm.Table an Engine dispatches built-in calls through.
func (b *Builtins) Table() vm.Table {
	return vm.Table{
		compiler.FuncLoadCookie:            b.loadCookie,
		compiler.FuncGetHTML:               b.getHTML,
		compiler.FuncLastResponse:          b.lastResponseFn,
		compiler.FuncGetHeader:             b.getHeader,
		compiler.FuncExtractString:         b.extractString,
		compiler.FuncGetHTMLToFile:         b.getHTMLToFile,
		compiler.FuncExtractStringFromFile: b.extractStringFromFile,
		compiler.FuncSubstring:             b.substring,
		compiler.FuncSaveCookie:            b.saveCookie,
		compiler.FuncGetBinaryToFile:       b.getBinaryToFile,
		compiler.FuncDehtml:                b.dehtml,
		compiler.FuncGetHTMLWithDump:       b.getHTMLWithDump,
		compiler.FuncGetHTMLToFileWithDump: b.getHTMLToFileWithDump,
		compiler.FuncPost:                  b.post,
		compiler.FuncPostToFile:            b.postToFile,
		compiler.FuncPostWithDump:          b.postWithDump,
		compiler.FuncPostToFileWithDump:    b.postToFileWithDump,
		compiler.FuncSetHeader:             b.setHeader,
		compiler.FuncLength:                b.length,
		compiler.FuncIntToString:           b.intToString,
		compiler.FuncCreateParserForFile:   b.createParserForFile,
		compiler.FuncAddParsingRule:        b.addParsingRule,
		compiler.FuncLoadFromFile:          b.loadFromFile,
		compiler.FuncSaveToFile:            b.saveToFile,
		compiler.FuncStringToInt:           b.stringToInt,
	}
}

func void() vm.Outcome { return vm.Ready(value.FromString("")) }

// fetch runs one GET against url and stashes the response body/status,
// optionally writing a raw dump and/or the (optionally normalised) text
// to a file. It backs every get_html* built-in.
func (b *Builtins) fetch(url, toFile, toDump string, normalise bool) (string, error) {
	if err := b.deps.HTTP.Connect(url); err != nil {
		return "", err
	}
	if err := b.deps.HTTP.Send(url, nil); err != nil {
		return "", err
	}
	text, err := b.deps.HTTP.Receive(toFile, toDump, normalise)
	if err != nil {
		return "", err
	}
	b.lastBody = text
	b.lastStatus = b.deps.HTTP.StatusCode()
	return text, nil
}

func (b *Builtins) post(args []value.Value) vm.Outcome {
	return b.doPost(args[0].Str, args[1].Str, "", "", true)
}

func (b *Builtins) postToFile(args []value.Value) vm.Outcome {
	return b.doPost(args[1].Str, args[2].Str, args[0].Str, "", true)
}

func (b *Builtins) postWithDump(args []value.Value) vm.Outcome {
	return b.doPost(args[0].Str, args[1].Str, "", args[2].Str, true)
}

func (b *Builtins) postToFileWithDump(args []value.Value) vm.Outcome {
	return b.doPost(args[1].Str, args[2].Str, args[0].Str, args[3].Str, true)
}

func (b *Builtins) doPost(url, values, toFile, toDump string, normalise bool) vm.Outcome {
	if err := b.deps.HTTP.Connect(url); err != nil {
		return vm.Failed(err)
	}
	if err := b.deps.HTTP.Send(url, []byte(values)); err != nil {
		return vm.Failed(err)
	}
	text, err := b.deps.HTTP.Receive(toFile, toDump, normalise)
	if err != nil {
		return vm.Failed(err)
	}
	b.lastBody = text
	b.lastStatus = b.deps.HTTP.StatusCode()
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

// getHTML returns the response status code, not the body (original_source
// jni/ria/ria_core.h: "get_html(url)->status code, cache response"; spec
// E6: int_to_string(get_html(@0)) == "200"). last_response retrieves the
// cached body.
func (b *Builtins) getHTML(args []value.Value) vm.Outcome {
	_, err := b.fetch(args[0].Str, "", "", true)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

func (b *Builtins) getHTMLWithDump(args []value.Value) vm.Outcome {
	_, err := b.fetch(args[0].Str, "", args[1].Str, true)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

func (b *Builtins) getHTMLToFile(args []value.Value) vm.Outcome {
	_, err := b.fetch(args[1].Str, args[0].Str, "", true)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

func (b *Builtins) getHTMLToFileWithDump(args []value.Value) vm.Outcome {
	_, err := b.fetch(args[1].Str, args[0].Str, args[2].Str, true)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

func (b *Builtins) getBinaryToFile(args []value.Value) vm.Outcome {
	_, err := b.fetch(args[1].Str, args[0].Str, "", false)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromInt(int64(b.lastStatus)))
}

func (b *Builtins) lastResponseFn([]value.Value) vm.Outcome {
	return vm.Ready(value.FromString(b.lastBody))
}

func (b *Builtins) getHeader(args []value.Value) vm.Outcome {
	v, _ := b.deps.HTTP.GetHeader(args[0].Str)
	return vm.Ready(value.FromString(v))
}

func (b *Builtins) setHeader(args []value.Value) vm.Outcome {
	b.deps.HTTP.SetHeader(args[0].Str, args[1].Str)
	return void()
}

// loadCookie(site, user, key) reads a previously saved cookie value,
// loading the site's jar file on every call.
func (b *Builtins) loadCookie(args []value.Value) vm.Outcome {
	site, user, key := args[0].Str, args[1].Str, args[2].Str
	if err := b.deps.Cookies.Load(site); err != nil {
		return vm.Failed(err)
	}
	v, _ := b.deps.Cookies.Get(site, user, key)
	return vm.Ready(value.FromString(v))
}

// saveCookie(site, user, key) persists the current response's header
// named key as the cookie value for user, then flushes the jar. The
// original function table documents this with the same 3-argument arity
// as load_cookie; the value saved is whatever the most recent response
// carried under that header name (see DESIGN.md's Open Questions).
func (b *Builtins) saveCookie(args []value.Value) vm.Outcome {
	site, user, key := args[0].Str, args[1].Str, args[2].Str
	v, _ := b.deps.HTTP.GetHeader(key)
	b.deps.Cookies.Set(site, user, key, v, 0)
	if err := b.deps.Cookies.Save(site); err != nil {
		return vm.Failed(err)
	}
	return void()
}

// extractString advances the caller's pos cursor to the offset just past
// the matched end marker, written back through the OUT-parameter wire
// entry (spec §3/§4.4) regardless of match outcome: ExtractString always
// returns a meaningful cursor, the original pos unchanged on failure or
// the advanced position on success.
func (b *Builtins) extractString(args []value.Value) vm.Outcome {
	src, pos, begin, end := args[0].Str, int(args[1].Int), args[2].Str, args[3].Str
	result, newPos, ok := parserrule.ExtractString(src, pos, begin, end)
	if !ok {
		return vm.Ready(value.FromString("")).WithOut(1, value.FromInt(int64(newPos)))
	}
	return vm.Ready(value.FromString(result)).WithOut(1, value.FromInt(int64(newPos)))
}

func (b *Builtins) extractStringFromFile(args []value.Value) vm.Outcome {
	filename, pos, begin, end := args[0].Str, int(args[1].Int), args[2].Str, args[3].Str
	data, err := b.deps.FS.ReadFile(filename)
	if err != nil {
		return vm.Failed(err)
	}
	result, newPos, ok := parserrule.ExtractString(string(data), pos, begin, end)
	if !ok {
		return vm.Ready(value.FromString("")).WithOut(1, value.FromInt(int64(newPos)))
	}
	return vm.Ready(value.FromString(result)).WithOut(1, value.FromInt(int64(newPos)))
}

func (b *Builtins) substring(args []value.Value) vm.Outcome {
	s, pos, length := args[0].Str, int(args[1].Int), int(args[2].Int)
	if pos < 0 || pos > len(s) {
		return vm.Ready(value.FromString(""))
	}
	end := pos + length
	if length < 0 || end > len(s) {
		end = len(s)
	}
	return vm.Ready(value.FromString(s[pos:end]))
}

func (b *Builtins) length(args []value.Value) vm.Outcome {
	return vm.Ready(value.FromInt(int64(len(args[0].Str))))
}

func (b *Builtins) dehtml(args []value.Value) vm.Outcome {
	return vm.Ready(value.FromString(b.deps.HTML.Normalise(args[0].Str)))
}

// intToString formats the unsigned 32-bit wraparound view of an Int
// value (spec §8, testable property 5: int_to_string(0) == "0").
func (b *Builtins) intToString(args []value.Value) vm.Outcome {
	return vm.Ready(value.FromString(fmt.Sprintf("%d", uint32(args[0].Int))))
}

// stringToInt parses an unsigned decimal string, returning the
// documented 0xFFFFFFFF sentinel for anything that isn't all digits
// (spec §8, testable property 5).
func (b *Builtins) stringToInt(args []value.Value) vm.Outcome {
	s := args[0].Str
	if s == "" {
		return vm.Ready(value.FromInt(StringToIntSentinel))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return vm.Ready(value.FromInt(StringToIntSentinel))
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return vm.Ready(value.FromInt(StringToIntSentinel))
	}
	return vm.Ready(value.FromInt(int64(n)))
}

func (b *Builtins) loadFromFile(args []value.Value) vm.Outcome {
	data, err := b.deps.FS.ReadFile(args[0].Str)
	if err != nil {
		return vm.Failed(err)
	}
	return vm.Ready(value.FromString(string(data)))
}

func (b *Builtins) saveToFile(args []value.Value) vm.Outcome {
	if err := b.deps.FS.WriteFile(args[0].Str, []byte(args[1].Str)); err != nil {
		return vm.Failed(err)
	}
	return void()
}

// createParserForFile(filename, parserType) reads filename, binds it as
// the source for subsequent parse calls, resets every rule's cursor
// state, and reports ok_parser_ready (spec §6).
func (b *Builtins) createParserForFile(args []value.Value) vm.Outcome {
	data, err := b.deps.FS.ReadFile(args[0].Str)
	if err != nil {
		return vm.Failed(err)
	}
	b.boundSource = string(data)
	b.boundPos = 0
	b.deps.Rules.Reset()
	return vm.ReadyParserReady(value.FromString(""))
}

func (b *Builtins) addParsingRule(args []value.Value) vm.Outcome {
	b.deps.Rules.Add(args[0].Str, args[1].Str, args[2].Str, args[3].Str)
	return void()
}
