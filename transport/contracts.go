// Package transport implements the collaborator contracts the core VM's
// built-in functions call through to: an HTTP transport, a per-site
// cookie jar, a filesystem wrapper, and an HTML normaliser (spec §6
// "Collaborator contracts"). Each contract is exposed as a small
// interface so `builtin` can substitute a stub for suspension tests
// without touching a real network or filesystem.
package transport

import "io"

// SeekOrigin mirrors the three origins spec §6's filesystem contract
// names; values line up with io.Seek* so Filesystem implementations can
// pass them straight through.
type SeekOrigin int

const (
	SeekBegin   SeekOrigin = io.SeekStart
	SeekCurrent SeekOrigin = io.SeekCurrent
	SeekEnd     SeekOrigin = io.SeekEnd
)

// HTTPTransport is the single per-engine HTTP session contract (spec §6):
// init once, then connect/send/receive per request. Every step may block
// synchronously in the default implementation; an async implementation is
// free to return ErrWouldBlock-style behavior through a higher-level
// Outcome in package builtin instead of through this interface directly.
type HTTPTransport interface {
	Init(userAgent string)
	Connect(site string) error
	Send(url string, postBody []byte) error
	// Receive reads the response body, optionally writing it to toFile
	// and/or a raw dump path, optionally running it through the HTML
	// normaliser, and returns the decoded text.
	Receive(toFile, toDump string, normalise bool) (string, error)
	StatusCode() int
	GetHeader(name string) (string, bool)
	SetHeader(name, value string)
	CloseRequest()
	Disconnect()
	Shutdown()
}

// CookieJar is the per-site cookie store (spec §6 "Cookie jar").
type CookieJar interface {
	Load(site string) error
	Save(site string) error
	Get(site, user, key string) (string, bool)
	Set(site, user, key, value string, expireUnix int64)
}

// Filesystem is the collaborator the filesystem-facing built-ins
// (load_from_file, save_to_file, extract_string_from_file,
// get_*_to_file) delegate to (spec §6 "Filesystem").
type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Open(path string) (File, error)
}

// File is a single open file handle, matching the
// fopen/fread/fwrite/fseek/ftell/fclose contract.
type File interface {
	io.ReadWriteCloser
	Seek(offset int64, origin SeekOrigin) (int64, error)
	Tell() (int64, error)
}

// HTMLNormaliser collapses whitespace, elides tag content, and decodes
// simple entities while preserving <script> body boundaries (spec §6
// "HTML normaliser").
type HTMLNormaliser interface {
	Normalise(html string) string
}
