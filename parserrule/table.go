package parserrule

import (
	"strconv"
	"strings"
)

// Rule is one registered begin/end pattern (spec §6's add_parsing_rule).
// Hint is "" for a plain rule, "?" for a detection rule, "+" or "+N" for
// an unbounded or capped iteration rule, or "+D" for an iteration rule
// that reports matches as a sentinel rather than the captured text (spec
// §8, testable property 8).
type Rule struct {
	Name, Begin, End, Hint string
}

// ruleState is a Rule plus the per-invocation cursor state that iteration
// and detection rules carry on the rule itself rather than in the
// caller's pos variable (spec §4.4/§6: "hints starting with + mark an
// iteration rule whose per-invocation cursor state lives on the rule").
type ruleState struct {
	Rule
	pos     int
	matched int
	done    bool
}

// Table is the insertion-ordered parser-rule table owned by one VM
// instance (spec §4.4: "owned by the VM instance, not the module").
type Table struct {
	order []string
	rules map[string]*ruleState
	pairs []Pair
}

// NewTable builds an empty table using DefaultExcludePairs for marker
// scans.
func NewTable() *Table {
	return &Table{rules: make(map[string]*ruleState), pairs: DefaultExcludePairs}
}

// Add registers or replaces a rule, preserving its original insertion
// position on replace.
func (t *Table) Add(name, begin, end, hint string) {
	if _, exists := t.rules[name]; !exists {
		t.order = append(t.order, name)
	}
	t.rules[name] = &ruleState{Rule: Rule{Name: name, Begin: begin, End: end, Hint: hint}}
}

// Names returns registered rule names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Lookup returns the registered rule definition, if any.
func (t *Table) Lookup(name string) (Rule, bool) {
	rs, ok := t.rules[name]
	if !ok {
		return Rule{}, false
	}
	return rs.Rule, true
}

// iterationCap parses a "+N" hint's N; ok is false for "+", "+D", or a
// malformed suffix (treated as uncapped).
func iterationCap(hint string) (n int, ok bool) {
	suffix := hint[1:]
	if suffix == "" || suffix == "D" {
		return 0, false
	}
	v, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Parse runs the named rule against source and returns the matched text.
// Plain and detection rules search from *pos and advance it; iteration
// rules search from, and advance, their own cursor and leave *pos
// untouched. found reports whether name
// is a registered rule at all; a registered rule that simply has no more
// matches returns ("", true).
func (t *Table) Parse(source, name string, pos *int) (result string, found bool) {
	rs, ok := t.rules[name]
	if !ok {
		return "", false
	}

	switch {
	case strings.HasPrefix(rs.Hint, "?"):
		if rs.done {
			return "", true
		}
		rs.done = true
		text, newPos, matched := ExtractStringExcluding(source, *pos, rs.Begin, rs.End, t.pairs)
		if !matched {
			return "", true
		}
		*pos = newPos
		return text, true

	case strings.HasPrefix(rs.Hint, "+"):
		if cap, capped := iterationCap(rs.Hint); capped && rs.matched >= cap {
			return "", true
		}
		text, newPos, matched := ExtractStringExcluding(source, rs.pos, rs.Begin, rs.End, t.pairs)
		if !matched {
			return "", true
		}
		rs.pos = newPos
		rs.matched++
		if rs.Hint[1:] == "D" {
			return "+", true
		}
		return text, true

	default:
		text, newPos, matched := ExtractStringExcluding(source, *pos, rs.Begin, rs.End, t.pairs)
		if !matched {
			return "", true
		}
		*pos = newPos
		return text, true
	}
}

// Reset clears every rule's per-invocation cursor state, used when
// create_parser_for_file rebinds the table to a fresh source.
func (t *Table) Reset() {
	for _, rs := range t.rules {
		rs.pos, rs.matched, rs.done = 0, 0, false
	}
}
