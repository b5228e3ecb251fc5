// Package parserrule implements the regex-like begin/end pattern scanner
// (spec §4.4 "Regex-like extractor") and the insertion-ordered parser-rule
// table consumed by the engine's Parse operation once a module has gone
// parser-ready (spec §6, "Parser-ready").
//
// The scanner deliberately does not replicate ria_func.c's _search_regexp,
// which recurses on every embedded '*' to support an arbitrarily nested
// wildcard grammar. spec.md's own prose simplifies this down to a single
// leading implicit '*' plus literal, case-insensitive matching for the
// rest of the pattern, and that is what matchFrom below implements -
// multiple explicit '*' in one pattern still work (each splits the pattern
// into another literal/rest pair, recursively), only the *leading* star is
// implicit rather than requiring the caller to write it.
package parserrule

import "strings"

// Pair is one exclude-pair boundary (spec §4.4's "exclude-pair set, e.g.
// "", [], {} for JSON") that the hint-aware scanner skips over when
// locating markers, so a begin/end pattern can't match inside a quoted
// string or a bracketed sub-structure.
type Pair struct {
	Open, Close string
}

// DefaultExcludePairs covers the JSON-ish shapes named in spec §4.4.
var DefaultExcludePairs = []Pair{
	{Open: `"`, Close: `"`},
	{Open: "[", Close: "]"},
	{Open: "{", Close: "}"},
}

type span struct{ start, end int }

// excludedSpans does a single left-to-right pass pairing each Open with the
// next Close of the same pair, non-nested. That is enough to keep a rule's
// markers from firing inside a quoted value or a bracketed block without
// implementing a full balanced-nesting parser.
func excludedSpans(haystack string, pairs []Pair) []span {
	if len(pairs) == 0 {
		return nil
	}
	var spans []span
	pos := 0
	for pos < len(haystack) {
		advanced := false
		for _, p := range pairs {
			if !strings.HasPrefix(haystack[pos:], p.Open) {
				continue
			}
			closeIdx := strings.Index(haystack[pos+len(p.Open):], p.Close)
			if closeIdx < 0 {
				continue
			}
			end := pos + len(p.Open) + closeIdx + len(p.Close)
			spans = append(spans, span{start: pos, end: end})
			pos = end
			advanced = true
			break
		}
		if !advanced {
			pos++
		}
	}
	return spans
}

func insideSpan(spans []span, idx int) bool {
	for _, s := range spans {
		if idx >= s.start && idx < s.end {
			return true
		}
	}
	return false
}

// indexFold finds the first case-insensitive occurrence of substr in s at
// or after from, skipping any candidate start index that falls inside one
// of the given excluded spans.
func indexFold(s, substr string, from int, spans []span) int {
	if substr == "" {
		for from <= len(s) {
			if !insideSpan(spans, from) {
				return from
			}
			from++
		}
		return -1
	}
	for i := from; i+len(substr) <= len(s); i++ {
		if insideSpan(spans, i) {
			continue
		}
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// matchFrom locates pattern in haystack starting the search no earlier
// than pos, honoring "*" as a zero-or-more wildcard (including an implicit
// one before the first literal segment). It returns the byte offset where
// the match begins and the offset just past its end.
func matchFrom(haystack, pattern string, pos int, spans []span) (start, end int, ok bool) {
	starIdx := strings.IndexByte(pattern, '*')
	literal, rest := pattern, ""
	if starIdx >= 0 {
		literal, rest = pattern[:starIdx], pattern[starIdx+1:]
	}

	if literal == "" {
		if rest == "" {
			return pos, pos, true
		}
		return matchFrom(haystack, rest, pos, spans)
	}

	search := pos
	for {
		idx := indexFold(haystack, literal, search, spans)
		if idx < 0 {
			return 0, 0, false
		}
		afterLiteral := idx + len(literal)
		if rest == "" {
			return idx, afterLiteral, true
		}
		if _, restEnd, ok := matchFrom(haystack, rest, afterLiteral, spans); ok {
			return idx, restEnd, true
		}
		search = idx + 1
	}
}

// ExtractString implements the extract_string/extract_string_from_file
// built-ins' shape directly (spec §4.4): locate begin (if non-empty),
// then capture up to end (or to the end of the haystack if end is empty).
// A non-empty begin that fails to match is reported as no match at all,
// mirroring ria_func.c's _extract_string leaving its begin pointer NULL.
func ExtractString(haystack string, pos int, begin, end string) (result string, newPos int, ok bool) {
	return extractString(haystack, pos, begin, end, nil)
}

// ExtractStringExcluding is ExtractString with the rule table's
// exclude-pair skipping applied to both the begin and end scans.
func ExtractStringExcluding(haystack string, pos int, begin, end string, pairs []Pair) (string, int, bool) {
	return extractString(haystack, pos, begin, end, excludedSpans(haystack, pairs))
}

func extractString(haystack string, pos int, begin, end string, spans []span) (string, int, bool) {
	if pos < 0 || pos > len(haystack) {
		return "", pos, false
	}

	captureFrom := pos
	if begin != "" {
		_, afterBegin, ok := matchFrom(haystack, begin, pos, spans)
		if !ok {
			return "", pos, false
		}
		captureFrom = afterBegin
	}

	if end == "" {
		return haystack[captureFrom:], len(haystack), true
	}

	endStart, endAfter, ok := matchFrom(haystack, end, captureFrom, spans)
	if !ok {
		return "", pos, false
	}
	return haystack[captureFrom:endStart], endAfter, true
}
