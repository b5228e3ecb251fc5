package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DefaultHTTPTransport is the stdlib-backed HTTPTransport default
// implementation (spec §6). No example repo in the corpus vendors a
// third-party HTTP client, so this uses net/http directly — see
// DESIGN.md for why no pack library fits this concern.
type DefaultHTTPTransport struct {
	client    *http.Client
	userAgent string
	normalise HTMLNormaliser

	site    string
	headers http.Header

	resp       *http.Response
	statusCode int
}

func NewDefaultHTTPTransport(normaliser HTMLNormaliser) *DefaultHTTPTransport {
	return &DefaultHTTPTransport{
		client:  &http.Client{},
		headers: make(http.Header),
		normalise: normaliser,
	}
}

func (t *DefaultHTTPTransport) Init(userAgent string) { t.userAgent = userAgent }

func (t *DefaultHTTPTransport) Connect(site string) error {
	t.site = site
	return nil
}

func (t *DefaultHTTPTransport) Send(url string, postBody []byte) error {
	var req *http.Request
	var err error
	if postBody == nil {
		req, err = http.NewRequest(http.MethodGet, url, nil)
	} else {
		req, err = http.NewRequest(http.MethodPost, url, bytes.NewReader(postBody))
	}
	if err != nil {
		return err
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	for name, values := range t.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	t.resp = resp
	t.statusCode = resp.StatusCode
	return nil
}

func (t *DefaultHTTPTransport) Receive(toFile, toDump string, normalise bool) (string, error) {
	if t.resp == nil {
		return "", fmt.Errorf("receive called before send")
	}
	defer t.resp.Body.Close()

	body, err := io.ReadAll(t.resp.Body)
	if err != nil {
		return "", err
	}

	if toDump != "" {
		if err := os.WriteFile(toDump, body, 0o644); err != nil {
			return "", err
		}
	}

	text := string(body)
	if normalise && t.normalise != nil {
		text = t.normalise.Normalise(text)
	}

	if toFile != "" {
		if err := os.WriteFile(toFile, []byte(text), 0o644); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (t *DefaultHTTPTransport) StatusCode() int { return t.statusCode }

func (t *DefaultHTTPTransport) GetHeader(name string) (string, bool) {
	if t.resp == nil {
		return "", false
	}
	v := t.resp.Header.Get(name)
	return v, v != ""
}

func (t *DefaultHTTPTransport) SetHeader(name, value string) { t.headers.Set(name, value) }

func (t *DefaultHTTPTransport) CloseRequest() {
	if t.resp != nil {
		t.resp.Body.Close()
		t.resp = nil
	}
}

func (t *DefaultHTTPTransport) Disconnect() { t.site = "" }

func (t *DefaultHTTPTransport) Shutdown() {
	t.CloseRequest()
	t.client = nil
}
