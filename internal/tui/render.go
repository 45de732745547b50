package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/chazuruo/rewind/internal/history"
	"github.com/chazuruo/rewind/internal/humantime"
)

// Auto style switches to the compact layout below this many rows.
const compactHeight = 14

const (
	highlightSymbol = ">> "
	noHighlight     = "   "
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimBoldStyle  = dimStyle.Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	agoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Size is the terminal size in cells. Zero means unknown.
type Size struct {
	Width  int
	Height int
}

// Cursor is a cell position, zero-based from the top-left corner.
type Cursor struct {
	X int
	Y int
}

// Frame is one rendered screen.
type Frame struct {
	View    string
	Cursor  Cursor
	Compact bool
}

// Renderer draws session state. It keeps no state between frames.
type Renderer struct {
	Title string
	Style Style
	// Now is the clock used for "ago" columns.
	Now func() time.Time
}

// Compact reports whether a terminal of the given height gets the compact
// layout under style.
func Compact(style Style, height int) bool {
	switch style {
	case StyleCompact:
		return true
	case StyleFull:
		return false
	default:
		return height <= 0 || height < compactHeight
	}
}

// Render lays out st for a terminal of the given size.
func (r Renderer) Render(st State, size Size, count int64) Frame {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	if Compact(r.Style, size.Height) {
		return r.renderCompact(st, size, count, now)
	}
	return r.renderFull(st, size, count, now)
}

type span struct {
	text  string
	style *lipgloss.Style
}

func plain(s string) span { return span{text: s} }

func styled(s string, st lipgloss.Style) span { return span{text: s, style: &st} }

// segment renders spans clipped to width cells and padded out to exactly
// width, placed at pos.
func segment(width int, pos lipgloss.Position, spans ...span) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for _, sp := range spans {
		switch {
		case sp.text == "":
		case sp.style != nil:
			b.WriteString(sp.style.Render(sp.text))
		default:
			b.WriteString(sp.text)
		}
	}
	return lipgloss.NewStyle().
		Inline(true).
		Width(width).
		MaxWidth(width).
		Align(pos).
		Render(ansi.Truncate(b.String(), width, ""))
}

func line(width int, spans ...span) string {
	return segment(width, lipgloss.Left, spans...)
}

func (r Renderer) statsText(count int64) string {
	return fmt.Sprintf("history count: %d", count)
}

// queryView draws the input line with a throwaway textinput positioned at
// the end of input. Keys never reach it; State owns the text. It returns the
// view and the width of the text before the cursor.
func queryView(input, prompt string) (string, int) {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	ti.SetValue(input)
	ti.CursorEnd()
	return ti.View(), runewidth.StringWidth(ti.Value())
}

func (r Renderer) renderFull(st State, size Size, count int64, now time.Time) Frame {
	width := max(size.Width-2, 0)
	height := max(size.Height-2, 0)

	left := width / 2
	right := width - left

	resultsHeight := max(height-2-3, 2)

	var rows []string
	rows = append(rows,
		lipgloss.JoinHorizontal(lipgloss.Top,
			segment(left, lipgloss.Left, styled(r.Title, titleStyle)),
			segment(right, lipgloss.Right, plain(r.statsText(count))),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			segment(left, lipgloss.Left, plain("Press "), styled("Esc", boldStyle), plain(" to exit.")),
			segment(right, lipgloss.Left),
		),
	)

	inner := max(width-2, 0)
	rows = append(rows, box("History", resultLines(st, resultsHeight-2, inner, now), width)...)

	query, typed := queryView(st.Input, "")
	rows = append(rows, box("Query", []string{line(inner, plain(query))}, width)...)

	inputTop := 1 + 2 + resultsHeight
	pos := Cursor{
		X: 1 + 1 + typed,
		Y: inputTop + 1,
	}

	view := lipgloss.NewStyle().Margin(1, margin(size.Width)).Render(strings.Join(rows, "\n"))
	return Frame{View: view, Cursor: pos, Compact: false}
}

func (r Renderer) renderCompact(st State, size Size, count int64, now time.Time) Frame {
	width := max(size.Width-2, 0)
	third := width / 3
	last := width - 2*third

	resultsHeight := max(size.Height-2, 1)

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
		segment(third, lipgloss.Left, styled(r.Title, dimStyle)),
		segment(third, lipgloss.Center, styled("Esc", dimBoldStyle), styled(" to exit", dimStyle)),
		segment(last, lipgloss.Right, styled(r.statsText(count), dimStyle)),
	))
	rows = append(rows, resultLines(st, resultsHeight, width, now)...)

	query, typed := queryView(st.Input, "] ")
	rows = append(rows, line(width, plain(query)))

	pos := Cursor{
		X: 1 + 2 + typed,
		Y: 1 + resultsHeight,
	}

	view := lipgloss.NewStyle().Margin(0, margin(size.Width)).Render(strings.Join(rows, "\n"))
	return Frame{View: view, Cursor: pos, Compact: true}
}

// margin is the horizontal margin for a terminal width cells wide.
func margin(width int) int {
	if width < 2 {
		return 0
	}
	return 1
}

// box draws a bordered pane around content, which must already be width-2
// wide, with title set into the top edge.
func box(title string, content []string, width int) []string {
	inner := max(width-2, 0)
	border := lipgloss.NormalBorder()

	out := strings.Split(lipgloss.NewStyle().
		Border(border).
		Width(inner).
		Render(strings.Join(content, "\n")), "\n")
	if len(content) == 0 {
		// An empty pane still renders one blank row.
		out = []string{out[0], out[len(out)-1]}
	}

	// lipgloss has no border titles, so the title replaces the start of the
	// top edge.
	titleText := ansi.Truncate(title, inner, "")
	out[0] = border.TopLeft + titleText + ansi.Cut(out[0], 1+ansi.StringWidth(titleText), ansi.StringWidth(out[0]))
	return out
}

// listOffset is the index of the bottom row so that sel stays visible.
func listOffset(sel Selection, rows int) int {
	i, ok := sel.Index()
	if !ok || rows <= 0 || i < rows {
		return 0
	}
	return i - rows + 1
}

type timing struct {
	duration string
	ago      string
}

func timings(results []history.History, now time.Time) []timing {
	out := make([]timing, len(results))
	for i, h := range results {
		out[i] = timing{
			duration: humantime.Duration(h.Duration),
			ago:      humantime.Ago(h.Timestamp, now),
		}
	}
	return out
}

var commandCleaner = strings.NewReplacer("\n", " ", "\t", " ")

// resultLines renders exactly rows lines of the result list, top to bottom.
// Index 0 sits on the bottom line and higher indexes stack upward.
func resultLines(st State, rows, width int, now time.Time) []string {
	if rows <= 0 {
		return nil
	}

	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line(width)
	}

	offset := listOffset(st.Selection, rows)
	end := min(offset+rows, len(st.Results))
	if offset >= end {
		return lines
	}
	visible := st.Results[offset:end]

	times := timings(visible, now)
	longest := 0
	for _, t := range times {
		longest = max(longest, len(t.duration)+len(t.ago))
	}

	sel, hasSel := st.Selection.Index()

	for j, h := range visible {
		i := offset + j
		t := times[j]

		var spans []span
		if hasSel {
			if i == sel {
				spans = append(spans, plain(highlightSymbol))
			} else {
				spans = append(spans, plain(noHighlight))
			}
		}

		hint := "   "
		if hasSel {
			if diff := i - sel; diff > 0 && diff < 10 {
				hint = fmt.Sprintf(" %d ", diff)
			}
		}
		spans = append(spans, plain(hint))

		durStyle := failureStyle
		if h.Exit == 0 || h.Duration == history.DurationUnknown {
			durStyle = successStyle
		}
		ago := strings.Repeat(" ", longest-len(t.duration)-len(t.ago)) + t.ago

		cmd := commandCleaner.Replace(h.Command)
		cmdSpan := plain(cmd)
		if hasSel && i == sel {
			cmdSpan = styled(cmd, selectedStyle)
		}

		spans = append(spans,
			styled(t.duration, durStyle),
			plain(" "),
			styled(ago, agoStyle),
			plain(" "),
			cmdSpan,
		)

		lines[rows-1-j] = line(width, spans...)
	}

	return lines
}
