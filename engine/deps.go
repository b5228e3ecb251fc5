package engine

import (
	"riascript/builtin"
	"riascript/parserrule"
	"riascript/transport"
)

// DefaultDeps wires the stdlib/x-net-backed default collaborators: a
// real net/http transport, a file-backed cookie jar rooted at
// cfg.TempDir, the OS filesystem, the x/net/html-based normaliser, and a
// fresh parser-rule table. Tests and alternative hosts construct
// builtin.Deps directly with fakes instead of calling this.
func DefaultDeps(cfg Config) builtin.Deps {
	normaliser := transport.XNetHTMLNormaliser{}
	return builtin.Deps{
		HTTP:    transport.NewDefaultHTTPTransport(normaliser),
		Cookies: transport.NewFileCookieJar(cfg.TempDir),
		FS:      transport.OSFilesystem{},
		HTML:    normaliser,
		Rules:   parserrule.NewTable(),
	}
}
