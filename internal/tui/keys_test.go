package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/chazuruo/rewind/internal/history"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func stateWith(input string, sel Selection, cmds ...string) State {
	results := make([]history.History, len(cmds))
	for i, c := range cmds {
		results[i] = history.History{Command: c}
	}
	return State{Input: input, Results: results, Selection: sel}
}

func TestInterpret_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyCtrlD},
		{Type: tea.KeyCtrlG},
	} {
		t.Run(msg.String(), func(t *testing.T) {
			st := stateWith("git", SelectAt(0), "git status")
			_, out := Interpret(msg, st)
			assert.Equal(t, Outcome{Done: true, Output: ""}, out)
		})
	}
}

func TestInterpret_Submit(t *testing.T) {
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	_, out := Interpret(enter, stateWith("gi", SelectAt(1), "git status", "git push"))
	assert.Equal(t, Outcome{Done: true, Output: "git push"}, out)

	_, out = Interpret(enter, stateWith("nothing", NoSelection))
	assert.Equal(t, Outcome{Done: true, Output: "nothing"}, out)
}

func TestInterpret_Jump(t *testing.T) {
	st := stateWith("g", SelectAt(1), "a", "b", "c", "d")

	_, out := Interpret(altKey('2'), st)
	assert.Equal(t, Outcome{Done: true, Output: "d"}, out)

	// Past the end falls back to the raw input
	_, out = Interpret(altKey('3'), st)
	assert.Equal(t, Outcome{Done: true, Output: "g"}, out)

	_, out = Interpret(altKey('1'), stateWith("raw", NoSelection))
	assert.Equal(t, Outcome{Done: true, Output: "raw"}, out)
}

func TestInterpret_AltNonDigitIsNoop(t *testing.T) {
	st := stateWith("g", SelectAt(0), "a")

	next, out := Interpret(altKey('x'), st)
	assert.Equal(t, st, next)
	assert.Equal(t, Outcome{}, out)

	next, out = Interpret(altKey('0'), st)
	assert.Equal(t, st, next)
	assert.Equal(t, Outcome{}, out)
}

func TestInterpret_Typing(t *testing.T) {
	next, out := Interpret(keyRunes("g"), stateWith("", NoSelection))
	assert.Equal(t, "g", next.Input)
	assert.True(t, out.InputChanged)
	assert.False(t, out.Done)

	next, _ = Interpret(tea.KeyMsg{Type: tea.KeySpace}, next)
	assert.Equal(t, "g ", next.Input)

	next, _ = Interpret(keyRunes("ité"), next)
	assert.Equal(t, "g ité", next.Input)
}

func TestInterpret_TypingDropsControlRunes(t *testing.T) {
	next, out := Interpret(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\x07b"), Paste: true}, State{})
	assert.Equal(t, "ab", next.Input)
	assert.True(t, out.InputChanged)

	next, out = Interpret(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'\x1b'}}, State{})
	assert.Equal(t, "", next.Input)
	assert.False(t, out.InputChanged)
}

func TestInterpret_Backspace(t *testing.T) {
	backspace := tea.KeyMsg{Type: tea.KeyBackspace}

	next, out := Interpret(backspace, stateWith("gité", NoSelection))
	assert.Equal(t, "git", next.Input)
	assert.True(t, out.InputChanged)

	next, out = Interpret(backspace, stateWith("", NoSelection))
	assert.Equal(t, "", next.Input)
	assert.True(t, out.InputChanged)
}

func TestInterpret_DeleteWord(t *testing.T) {
	altBackspace := tea.KeyMsg{Type: tea.KeyBackspace, Alt: true}

	tests := []struct{ in, want string }{
		{"git commit -m", "git commit"},
		{"git", ""},
		{"", ""},
		{"git status ", "git status"},
	}
	for _, tt := range tests {
		next, out := Interpret(altBackspace, stateWith(tt.in, NoSelection))
		assert.Equal(t, tt.want, next.Input, "input %q", tt.in)
		assert.True(t, out.InputChanged)
	}
}

func TestInterpret_Clear(t *testing.T) {
	next, out := Interpret(tea.KeyMsg{Type: tea.KeyCtrlU}, stateWith("git status", NoSelection))
	assert.Equal(t, "", next.Input)
	assert.True(t, out.InputChanged)
}

func TestInterpret_Navigation(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}
	ctrlN := tea.KeyMsg{Type: tea.KeyCtrlN}
	ctrlP := tea.KeyMsg{Type: tea.KeyCtrlP}

	st := stateWith("", SelectAt(1), "a", "b", "c")

	next, out := Interpret(down, st)
	assert.Equal(t, SelectAt(0), next.Selection)
	assert.Equal(t, Outcome{}, out)

	next, _ = Interpret(ctrlN, next)
	assert.Equal(t, SelectAt(0), next.Selection, "down saturates at 0")

	next, _ = Interpret(up, next)
	assert.Equal(t, SelectAt(1), next.Selection)

	next, _ = Interpret(ctrlP, next)
	next, _ = Interpret(up, next)
	assert.Equal(t, SelectAt(2), next.Selection, "up saturates at len-1")
}

func TestInterpret_NavigationOnEmptyResults(t *testing.T) {
	st := stateWith("zz", NoSelection)

	next, _ := Interpret(tea.KeyMsg{Type: tea.KeyUp}, st)
	assert.Equal(t, NoSelection, next.Selection)

	next, _ = Interpret(tea.KeyMsg{Type: tea.KeyDown}, st)
	assert.Equal(t, NoSelection, next.Selection)
}

func TestInterpret_OtherKeysAreNoops(t *testing.T) {
	st := stateWith("git", SelectAt(0), "git status")

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyTab},
		{Type: tea.KeyLeft},
		{Type: tea.KeyF1},
		{Type: tea.KeyCtrlA},
	} {
		next, out := Interpret(msg, st)
		assert.Equal(t, st, next, msg.String())
		assert.Equal(t, Outcome{}, out, msg.String())
	}
}
