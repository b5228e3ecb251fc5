package builtin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"riascript/builtin"
	"riascript/compiler"
	"riascript/parserrule"
	"riascript/transport"
	"riascript/value"
)

type fakeHTTP struct {
	status  int
	body    string
	headers map[string]string
	failErr error

	lastURL  string
	lastPost []byte

	lastNormalise bool
}

func newFakeHTTP() *fakeHTTP { return &fakeHTTP{headers: map[string]string{}, status: 200} }

func (f *fakeHTTP) Init(string)          {}
func (f *fakeHTTP) Connect(string) error { return f.failErr }
func (f *fakeHTTP) Send(url string, postBody []byte) error {
	f.lastURL, f.lastPost = url, postBody
	return f.failErr
}
func (f *fakeHTTP) Receive(toFile, toDump string, normalise bool) (string, error) {
	f.lastNormalise = normalise
	return f.body, nil
}
func (f *fakeHTTP) StatusCode() int { return f.status }
func (f *fakeHTTP) GetHeader(name string) (string, bool) {
	v, ok := f.headers[name]
	return v, ok
}
func (f *fakeHTTP) SetHeader(name, value string) { f.headers[name] = value }
func (f *fakeHTTP) CloseRequest()                {}
func (f *fakeHTTP) Disconnect()                  {}
func (f *fakeHTTP) Shutdown()                    {}

type fakeFS struct {
	files map[string]string
}

func newFakeFS() *fakeFS { return &fakeFS{files: map[string]string{}} }

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return []byte(data), nil
}
func (f *fakeFS) WriteFile(path string, data []byte) error {
	f.files[path] = string(data)
	return nil
}
func (f *fakeFS) Open(path string) (transport.File, error) { return nil, errors.New("unsupported") }

type fakeCookies struct {
	loaded bool
	data   map[string]string
}

func newFakeCookies() *fakeCookies { return &fakeCookies{data: map[string]string{}} }

func (c *fakeCookies) Load(site string) error { c.loaded = true; return nil }
func (c *fakeCookies) Save(site string) error  { return nil }
func (c *fakeCookies) Get(site, user, key string) (string, bool) {
	v, ok := c.data[site+"|"+user+":"+key]
	return v, ok
}
func (c *fakeCookies) Set(site, user, key, value string, expireUnix int64) {
	c.data[site+"|"+user+":"+key] = value
}

type passthroughHTML struct{}

func (passthroughHTML) Normalise(s string) string { return "normalised:" + s }

func newDeps() (builtin.Deps, *fakeHTTP, *fakeFS, *fakeCookies) {
	http := newFakeHTTP()
	fs := newFakeFS()
	cookies := newFakeCookies()
	deps := builtin.Deps{
		HTTP:    http,
		Cookies: cookies,
		FS:      fs,
		HTML:    passthroughHTML{},
		Rules:   parserrule.NewTable(),
	}
	return deps, http, fs, cookies
}

func TestGetHTMLFetchesAndNormalises(t *testing.T) {
	deps, http, _, _ := newDeps()
	http.body = "<p>hi</p>"
	http.status = 200
	b := builtin.New(deps)

	fn := b.Table()[compiler.FuncGetHTML]
	out := fn([]value.Value{value.FromString("http://example.test")})
	require.False(t, out.IsFailed())
	require.Equal(t, int64(200), out.Value().Int)
	require.Equal(t, "http://example.test", http.lastURL)
	require.True(t, http.lastNormalise)

	last := b.Table()[compiler.FuncLastResponse]([]value.Value{})
	require.Equal(t, "<p>hi</p>", last.Value().Str)
}

func TestGetHTMLPropagatesTransportFailure(t *testing.T) {
	deps, http, _, _ := newDeps()
	http.failErr = errors.New("connection refused")
	b := builtin.New(deps)

	fn := b.Table()[compiler.FuncGetHTML]
	out := fn([]value.Value{value.FromString("http://example.test")})
	require.True(t, out.IsFailed())
}

func TestPostSendsBodyAndReturnsResponse(t *testing.T) {
	deps, http, _, _ := newDeps()
	http.body = "ok"
	b := builtin.New(deps)

	fn := b.Table()[compiler.FuncPost]
	out := fn([]value.Value{value.FromString("http://example.test"), value.FromString("a=1")})
	require.False(t, out.IsFailed())
	require.Equal(t, int64(200), out.Value().Int)
	require.Equal(t, []byte("a=1"), http.lastPost)
}

func TestSubstringClampsOutOfRangeLength(t *testing.T) {
	deps, _, _, _ := newDeps()
	b := builtin.New(deps)
	fn := b.Table()[compiler.FuncSubstring]
	out := fn([]value.Value{value.FromString("hello"), value.FromInt(1), value.FromInt(100)})
	require.Equal(t, "ello", out.Value().Str)
}

func TestIntToStringWrapsUnsigned32(t *testing.T) {
	deps, _, _, _ := newDeps()
	b := builtin.New(deps)
	fn := b.Table()[compiler.FuncIntToString]
	out := fn([]value.Value{value.FromInt(0)})
	require.Equal(t, "0", out.Value().Str)
	out = fn([]value.Value{value.FromInt(-1)})
	require.Equal(t, "4294967295", out.Value().Str)
}

func TestStringToIntSentinelOnNonDigit(t *testing.T) {
	deps, _, _, _ := newDeps()
	b := builtin.New(deps)
	fn := b.Table()[compiler.FuncStringToInt]
	out := fn([]value.Value{value.FromString("abc")})
	require.Equal(t, int64(builtin.StringToIntSentinel), out.Value().Int)
}

func TestStringToIntParsesDigits(t *testing.T) {
	deps, _, _, _ := newDeps()
	b := builtin.New(deps)
	fn := b.Table()[compiler.FuncStringToInt]
	out := fn([]value.Value{value.FromString("42")})
	require.Equal(t, int64(42), out.Value().Int)
}

func TestLoadFromFileAndSaveToFileRoundTrip(t *testing.T) {
	deps, _, fs, _ := newDeps()
	fs.files["in.txt"] = "hello"
	b := builtin.New(deps)

	load := b.Table()[compiler.FuncLoadFromFile]
	got := load([]value.Value{value.FromString("in.txt")})
	require.Equal(t, "hello", got.Value().Str)

	save := b.Table()[compiler.FuncSaveToFile]
	save([]value.Value{value.FromString("out.txt"), value.FromString("world")})
	require.Equal(t, "world", fs.files["out.txt"])
}

func TestCreateParserForFileBindsSourceAndReportsParserReady(t *testing.T) {
	deps, _, fs, _ := newDeps()
	fs.files["sample.html"] = "prefix<b>hello</b>suffix"
	b := builtin.New(deps)

	out := b.Table()[compiler.FuncCreateParserForFile]([]value.Value{
		value.FromString("sample.html"), value.FromInt(0),
	})
	require.True(t, out.IsParserReady())

	text, pos := b.BoundSource()
	require.Equal(t, "prefix<b>hello</b>suffix", text)
	require.Equal(t, 0, *pos)
}

func TestAddParsingRuleRegistersOnSharedTable(t *testing.T) {
	deps, _, _, _ := newDeps()
	b := builtin.New(deps)

	b.Table()[compiler.FuncAddParsingRule]([]value.Value{
		value.FromString("bold"), value.FromString("<b>"), value.FromString("</b>"), value.FromString(""),
	})

	rule, ok := b.Rules().Lookup("bold")
	require.True(t, ok)
	require.Equal(t, "<b>", rule.Begin)
	require.Equal(t, "</b>", rule.End)
}

func TestLoadAndSaveCookieRoundTrip(t *testing.T) {
	deps, http, _, cookies := newDeps()
	http.headers["Set-Cookie"] = "sessid=abc123"
	b := builtin.New(deps)

	b.Table()[compiler.FuncSaveCookie]([]value.Value{
		value.FromString("example.test"), value.FromString("alice"), value.FromString("Set-Cookie"),
	})
	require.False(t, cookies.loaded) // save doesn't require a prior load

	got := b.Table()[compiler.FuncLoadCookie]([]value.Value{
		value.FromString("example.test"), value.FromString("alice"), value.FromString("Set-Cookie"),
	})
	require.Equal(t, "sessid=abc123", got.Value().Str)
}
