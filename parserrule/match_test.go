package parserrule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"riascript/parserrule"
)

func TestExtractStringCapturesBetweenMarkers(t *testing.T) {
	text, pos, ok := parserrule.ExtractString(`name="alice" age="30"`, 0, `name="`, `"`)
	require.True(t, ok)
	require.Equal(t, "alice", text)
	require.Equal(t, len(`name="alice"`), pos)
}

func TestExtractStringImplicitLeadingStar(t *testing.T) {
	text, _, ok := parserrule.ExtractString("noise noise <title>Hello</title>", 0, "<title>", "</title>")
	require.True(t, ok)
	require.Equal(t, "Hello", text)
}

func TestExtractStringEmptyEndCapturesToEnd(t *testing.T) {
	text, pos, ok := parserrule.ExtractString("prefix: the rest of it", 0, "prefix: ", "")
	require.True(t, ok)
	require.Equal(t, "the rest of it", text)
	require.Equal(t, len("prefix: the rest of it"), pos)
}

func TestExtractStringMissingBeginFails(t *testing.T) {
	_, pos, ok := parserrule.ExtractString("no marker here", 5, "absent", "")
	require.False(t, ok)
	require.Equal(t, 5, pos)
}

func TestExtractStringEmbeddedWildcard(t *testing.T) {
	text, _, ok := parserrule.ExtractString("<a href=\"x\" class=\"y\">", 0, "<a*class=\"", "\"")
	require.True(t, ok)
	require.Equal(t, "y", text)
}

func TestTableIterationHintReturnsEachMatchThenEmpty(t *testing.T) {
	table := parserrule.NewTable()
	table.Add("items", "<li>", "</li>", "+")
	source := "<li>a</li><li>b</li><li>c</li>"
	pos := 0

	for _, want := range []string{"a", "b", "c"} {
		got, found := table.Parse(source, "items", &pos)
		require.True(t, found)
		require.Equal(t, want, got)
	}
	got, found := table.Parse(source, "items", &pos)
	require.True(t, found)
	require.Equal(t, "", got)
}

func TestTableIterationHintCapLimitsMatches(t *testing.T) {
	table := parserrule.NewTable()
	table.Add("items", "<li>", "</li>", "+2")
	source := "<li>a</li><li>b</li><li>c</li>"
	pos := 0

	got1, _ := table.Parse(source, "items", &pos)
	got2, _ := table.Parse(source, "items", &pos)
	got3, _ := table.Parse(source, "items", &pos)
	require.Equal(t, "a", got1)
	require.Equal(t, "b", got2)
	require.Equal(t, "", got3)
}

// Testable property 8: a rule with hint +D returns the literal "+" once
// per real occurrence in the source, then "" once exhausted.
func TestTableDetectionIterationHintReturnsPlusSentinel(t *testing.T) {
	table := parserrule.NewTable()
	table.Add("marks", "<li>", "</li>", "+D")
	source := "<li>a</li><li>b</li><li>c</li><li>d</li><li>e</li>"
	pos := 0
	k := 5

	for i := 0; i < k; i++ {
		got, found := table.Parse(source, "marks", &pos)
		require.True(t, found)
		require.Equal(t, "+", got)
	}
	got, found := table.Parse(source, "marks", &pos)
	require.True(t, found)
	require.Equal(t, "", got)
}

func TestTableDetectionHintMatchesAtMostOnce(t *testing.T) {
	table := parserrule.NewTable()
	table.Add("title", "<title>", "</title>", "?")
	source := "<title>first</title><title>second</title>"
	pos := 0

	got1, found1 := table.Parse(source, "title", &pos)
	require.True(t, found1)
	require.Equal(t, "first", got1)

	got2, found2 := table.Parse(source, "title", &pos)
	require.True(t, found2)
	require.Equal(t, "", got2)
}

func TestTableUnknownRuleNotFound(t *testing.T) {
	table := parserrule.NewTable()
	pos := 0
	_, found := table.Parse("anything", "nope", &pos)
	require.False(t, found)
}

func TestExtractStringSkipsMarkersInsideExcludedQuotes(t *testing.T) {
	source := `{"note": "looks like <li>fake</li> but is just text"}<li>real</li>`
	got, _, ok := parserrule.ExtractStringExcluding(source, 0, "<li>", "</li>", parserrule.DefaultExcludePairs)
	require.True(t, ok)
	require.Equal(t, "real", got)
}
