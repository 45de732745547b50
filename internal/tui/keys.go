package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines the search session's key bindings.
type keyMap struct {
	Cancel     key.Binding
	Submit     key.Binding
	Jump       key.Binding
	DeleteChar key.Binding
	DeleteWord key.Binding
	Clear      key.Binding
	// Down moves toward index 0, which is drawn at the bottom of the list.
	Down key.Binding
	Up   key.Binding
}

var keys = keyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c", "ctrl+d", "ctrl+g"),
		key.WithHelp("esc", "exit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Jump: key.NewBinding(
		key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
		key.WithHelp("alt+1..9", "select row N"),
	),
	DeleteChar: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("backspace", "delete char"),
	),
	DeleteWord: key.NewBinding(
		key.WithKeys("alt+backspace"),
		key.WithHelp("alt+backspace", "delete word"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓/ctrl+n", "newer"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/ctrl+p", "older"),
	),
}

// Outcome is what a key press asks the session to do next.
type Outcome struct {
	// Done ends the session with Output. An empty Output after a cancel key
	// tells the caller nothing was chosen.
	Done   bool
	Output string
	// InputChanged asks for a requery.
	InputChanged bool
}

// Interpret applies a key press to st. It never touches the store; callers
// requery when the outcome says the input changed.
func Interpret(msg tea.KeyMsg, st State) (State, Outcome) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return st, Outcome{Done: true}

	case key.Matches(msg, keys.Submit):
		if cmd, ok := st.SelectedCommand(); ok {
			return st, Outcome{Done: true, Output: cmd}
		}
		return st, Outcome{Done: true, Output: st.Input}

	case key.Matches(msg, keys.Jump):
		offset := int(msg.Runes[0] - '0')
		if i, ok := st.Selection.Index(); ok && i+offset < len(st.Results) {
			return st, Outcome{Done: true, Output: st.Results[i+offset].Command}
		}
		return st, Outcome{Done: true, Output: st.Input}

	case key.Matches(msg, keys.DeleteChar):
		if r := []rune(st.Input); len(r) > 0 {
			st.Input = string(r[:len(r)-1])
		}
		return st, Outcome{InputChanged: true}

	case key.Matches(msg, keys.DeleteWord):
		st.Input = dropLastWord(st.Input)
		return st, Outcome{InputChanged: true}

	case key.Matches(msg, keys.Clear):
		st.Input = ""
		return st, Outcome{InputChanged: true}

	case key.Matches(msg, keys.Down):
		st.Selection = st.Selection.towardFirst(len(st.Results))
		return st, Outcome{}

	case key.Matches(msg, keys.Up):
		st.Selection = st.Selection.towardLast(len(st.Results))
		return st, Outcome{}
	}

	if text, ok := printable(msg); ok {
		st.Input += text
		return st, Outcome{InputChanged: true}
	}

	return st, Outcome{}
}

// dropLastWord removes everything after the last space, and the space itself.
func dropLastWord(s string) string {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return ""
	}
	return s[:i]
}

// printable returns the text a key inserts, with control characters removed.
func printable(msg tea.KeyMsg) (string, bool) {
	if msg.Alt {
		return "", false
	}
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		var b strings.Builder
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) || r == ' ' {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			return "", false
		}
		return b.String(), true
	}
	return "", false
}
