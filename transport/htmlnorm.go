package transport

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// XNetHTMLNormaliser implements the HTML normaliser collaborator (spec
// §6) over x/net/html's streaming Tokenizer rather than a hand-rolled
// scanner — see SPEC_FULL.md's Domain Stack table for why this library
// was chosen.
type XNetHTMLNormaliser struct{}

// Normalise collapses whitespace runs to a single space, strips tag
// markup, decodes simple entities, and keeps <script>...</script> body
// text intact rather than treating its angle brackets as tag delimiters
// (ria_core.c-adjacent original behavior, supplemented per SPEC_FULL.md).
func (XNetHTMLNormaliser) Normalise(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var out strings.Builder
	inScript := false
	lastWasSpace := true // collapses any leading whitespace too

	writeText := func(text string) {
		for _, r := range text {
			if unicode.IsSpace(r) {
				if !lastWasSpace {
					out.WriteByte(' ')
					lastWasSpace = true
				}
				continue
			}
			out.WriteRune(r)
			lastWasSpace = false
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(out.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "script" && tt == html.StartTagToken {
				inScript = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "script" {
				inScript = false
			}

		case html.TextToken, html.CommentToken:
			if tt == html.CommentToken {
				continue
			}
			text := html.UnescapeString(string(z.Text()))
			if inScript {
				out.WriteString(text)
				lastWasSpace = false
			} else {
				writeText(text)
			}
		}
	}
}
