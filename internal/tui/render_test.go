package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/rewind/internal/history"
	"github.com/chazuruo/rewind/internal/testutil"
)

func testRenderer(style Style) Renderer {
	return Renderer{Title: "Rewind v1", Style: style, Now: func() time.Time { return testNow }}
}

func renderedLines(f Frame) []string {
	return strings.Split(ansi.Strip(f.View), "\n")
}

func threeState() State {
	return State{
		Results: []history.History{
			testutil.Record("git status", testNow, time.Minute),
			testutil.Record("go test ./...", testNow, time.Hour),
			testutil.Record("make", testNow, 2*time.Hour),
		},
		Selection: SelectAt(0),
	}
}

func TestCompact(t *testing.T) {
	assert.True(t, Compact(StyleAuto, 13))
	assert.False(t, Compact(StyleAuto, 14))
	assert.True(t, Compact(StyleAuto, 0), "unknown height is compact")
	assert.True(t, Compact(StyleCompact, 100))
	assert.False(t, Compact(StyleFull, 5))
}

func TestRender_CompactLayout(t *testing.T) {
	f := testRenderer(StyleCompact).Render(threeState(), Size{Width: 60, Height: 6}, 3)
	require.True(t, f.Compact)

	lines := renderedLines(f)
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 60, runewidth.StringWidth(l), "line %q", l)
	}

	assert.Equal(t, " Rewind v1              Esc to exit        history count: 3 ", lines[0])
	assert.Equal(t, strings.Repeat(" ", 60), lines[1])
	assert.Equal(t, "     2 1s 2h ago make", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "     1 1s 1h ago go test ./...", strings.TrimRight(lines[3], " "))
	assert.Equal(t, " >>    1s 1m ago git status", strings.TrimRight(lines[4], " "))
	assert.Equal(t, " ]", strings.TrimRight(lines[5], " "))

	assert.Equal(t, Cursor{X: 3, Y: 5}, f.Cursor)
}

func TestRender_CompactCursorFollowsInput(t *testing.T) {
	st := threeState()
	st.Input = "gité"

	f := testRenderer(StyleCompact).Render(st, Size{Width: 60, Height: 6}, 3)
	assert.Equal(t, Cursor{X: 7, Y: 5}, f.Cursor)
	assert.Equal(t, " ] gité", strings.TrimRight(renderedLines(f)[5], " "))
}

func TestRender_FullLayout(t *testing.T) {
	st := threeState()
	st.Input = "git"

	f := testRenderer(StyleAuto).Render(st, Size{Width: 60, Height: 20}, 42)
	require.False(t, f.Compact)

	lines := renderedLines(f)
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.Equal(t, 60, runewidth.StringWidth(l), "line %q", l)
	}

	assert.Equal(t, strings.Repeat(" ", 60), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], " Rewind v1"))
	assert.True(t, strings.HasSuffix(lines[1], "history count: 42 "))
	assert.Equal(t, " Press Esc to exit.", strings.TrimRight(lines[2], " "))

	assert.Equal(t, " ┌History"+strings.Repeat("─", 49)+"┐ ", lines[3])
	assert.Equal(t, " │>>    1s 1m ago git status", lines[14][:len(" │>>    1s 1m ago git status")])
	assert.Equal(t, " └"+strings.Repeat("─", 56)+"┘ ", lines[15])

	assert.Equal(t, " ┌Query"+strings.Repeat("─", 51)+"┐ ", lines[16])
	assert.Equal(t, " │git", strings.TrimRight(lines[17], " │"))
	assert.Equal(t, " └"+strings.Repeat("─", 56)+"┘ ", lines[18])
	assert.Equal(t, strings.Repeat(" ", 60), lines[19])

	assert.Equal(t, Cursor{X: 5, Y: 17}, f.Cursor)
}

func TestResultLines_NoSelectionHasNoHighlightColumn(t *testing.T) {
	st := threeState()
	st.Selection = NoSelection

	lines := resultLines(st, 3, 40, testNow)
	assert.Equal(t, "   1s 1m ago git status", strings.TrimRight(ansi.Strip(lines[2]), " "))
}

func TestResultLines_AlignsAgoColumn(t *testing.T) {
	st := State{
		Results: []history.History{
			{Command: "sleep", Duration: int64(3 * 24 * time.Hour), Timestamp: testNow.Add(-time.Minute)},
			{Command: "ls", Duration: int64(250 * time.Millisecond), Timestamp: testNow.Add(-2 * time.Hour), Exit: 2},
		},
		Selection: SelectAt(0),
	}

	lines := resultLines(st, 2, 40, testNow)
	assert.Equal(t, "    1 250ms 2h ago ls", strings.TrimRight(ansi.Strip(lines[0]), " "))
	assert.Equal(t, ">>    3d    1m ago sleep", strings.TrimRight(ansi.Strip(lines[1]), " "))
}

func TestResultLines_CollapsesWhitespaceAndTruncates(t *testing.T) {
	st := State{
		Results: []history.History{
			{Command: "echo a\nb\tc " + strings.Repeat("x", 100), Timestamp: testNow},
		},
		Selection: SelectAt(0),
	}

	lines := resultLines(st, 1, 30, testNow)
	got := ansi.Strip(lines[0])
	assert.Equal(t, 30, runewidth.StringWidth(got))
	assert.True(t, strings.HasPrefix(got, ">>    0s 0s ago echo a b c xx"), got)
}

func TestResultLines_FutureTimestamp(t *testing.T) {
	st := State{
		Results:   []history.History{{Command: "x", Timestamp: testNow.Add(5 * time.Second), Duration: history.DurationUnknown}},
		Selection: SelectAt(0),
	}

	got := strings.TrimRight(ansi.Strip(resultLines(st, 1, 40, testNow)[0]), " ")
	assert.Equal(t, ">>    0s 0s ago x", got)
}

func TestResultLines_ScrollsToSelection(t *testing.T) {
	var results []history.History
	for i := 0; i < 30; i++ {
		results = append(results, history.History{Command: string(rune('a' + i%26)), Timestamp: testNow})
	}
	st := State{Results: results, Selection: SelectAt(15)}

	lines := resultLines(st, 11, 40, testNow)
	require.Len(t, lines, 11)

	// Rows 5..15 are visible, 15 on top and 5 at the bottom
	assert.True(t, strings.HasPrefix(ansi.Strip(lines[0]), ">> "))
	assert.True(t, strings.HasSuffix(strings.TrimRight(ansi.Strip(lines[10]), " "), " f"))
	assert.Equal(t, 5, listOffset(st.Selection, 11))
	assert.Equal(t, 0, listOffset(SelectAt(10), 11))
	assert.Equal(t, 0, listOffset(NoSelection, 11))
}

func TestResultLines_JumpHintsStopAtNine(t *testing.T) {
	var results []history.History
	for i := 0; i < 12; i++ {
		results = append(results, history.History{Command: "c", Timestamp: testNow})
	}
	st := State{Results: results, Selection: SelectAt(0)}

	lines := resultLines(st, 12, 40, testNow)
	// line 11 is index 0, line 2 is index 9, line 1 is index 10
	assert.True(t, strings.HasPrefix(ansi.Strip(lines[2]), "    9 "))
	assert.True(t, strings.HasPrefix(ansi.Strip(lines[1]), "      0s"))
}

func TestResultLines_EmptyResults(t *testing.T) {
	lines := resultLines(State{}, 3, 10, testNow)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, strings.Repeat(" ", 10), l)
	}
}

func TestResultLines_Colors(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	failed := testutil.Record("make", testNow, time.Hour)
	failed.Exit = 1
	unknown := testutil.Record("flaky", testNow, 2*time.Hour)
	unknown.Exit = 3
	unknown.Duration = history.DurationUnknown

	st := State{
		Results:   []history.History{testutil.Record("git status", testNow, time.Minute), failed, unknown},
		Selection: SelectAt(0),
	}
	lines := resultLines(st, 3, 40, testNow)

	assert.Contains(t, lines[2], "\x1b[32m1s\x1b[0m", "exit 0 is green")
	assert.Contains(t, lines[1], "\x1b[31m1s\x1b[0m", "non-zero exit is red")
	assert.Contains(t, lines[0], "\x1b[32m0s\x1b[0m", "unknown duration is green whatever the exit")

	assert.Contains(t, lines[2], "\x1b[34m1m ago\x1b[0m")
	assert.Contains(t, lines[1], "\x1b[34m1h ago\x1b[0m")
	assert.Contains(t, lines[0], "\x1b[34m2h ago\x1b[0m")

	assert.Contains(t, lines[2], "\x1b[1;31mgit status\x1b[0m")
	assert.NotContains(t, lines[1], "\x1b[1;")
	assert.NotContains(t, lines[0], "\x1b[1;")
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), " make"))
}

func TestSegment_AlignsAndClips(t *testing.T) {
	assert.Equal(t, "ab   ", segment(5, lipgloss.Left, plain("ab")))
	assert.Equal(t, "   ab", segment(5, lipgloss.Right, plain("ab")))
	assert.Equal(t, " ab  ", segment(5, lipgloss.Center, plain("ab")))
	assert.Equal(t, "ab c", segment(4, lipgloss.Left, plain("ab cd"), plain("ef")), "clips without wrapping")
	assert.Equal(t, "", segment(0, lipgloss.Left, plain("ab")))
}

func TestBox_EmptyPaneHasOnlyEdges(t *testing.T) {
	rows := box("History", nil, 10)
	assert.Equal(t, []string{"┌History─┐", "└────────┘"}, rows)

	rows = box("Query", []string{"git     "}, 10)
	assert.Equal(t, []string{"┌Query───┐", "│git     │", "└────────┘"}, rows)
}
