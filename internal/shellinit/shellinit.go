// Package shellinit generates the shell snippets that bind interactive
// search to a key.
//
// The widgets swap stdout and stderr around `rewind search -i` so the
// command substitution captures the chosen command while the interface
// itself still reaches the terminal.
package shellinit

import (
	"fmt"
	"strings"
)

// Shells lists the shells with a widget.
var Shells = []string{"bash", "zsh"}

// HookGenerator generates shell key bindings for interactive search.
type HookGenerator struct {
	// Binary is the rewind executable the widget calls.
	Binary string
	// DisableCtrlR leaves the shell's own Ctrl-R binding alone; the widget
	// is still defined so users can bind it themselves.
	DisableCtrlR bool
}

// NewHookGenerator creates a new hook generator calling binary, or "rewind"
// from $PATH when binary is empty.
func NewHookGenerator(binary string) *HookGenerator {
	if binary == "" {
		binary = "rewind"
	}
	return &HookGenerator{Binary: binary}
}

// GenerateBashHook generates the bash widget. It needs bash 4 for bind -x.
func (h *HookGenerator) GenerateBashHook() string {
	var b strings.Builder
	fmt.Fprintf(&b, `# rewind search widget
_rewind_search() {
    local output
    output=$(%s search -i -- "$READLINE_LINE" 3>&1 1>&2 2>&3)

    # Empty output means the search was cancelled
    [[ -z "$output" ]] && return

    READLINE_LINE="$output"
    READLINE_POINT=${#READLINE_LINE}
}
`, shellQuote(h.Binary))

	if !h.DisableCtrlR {
		b.WriteString(`bind -x '"\C-r": _rewind_search'
`)
	}
	return b.String()
}

// GenerateZshHook generates the zsh widget.
func (h *HookGenerator) GenerateZshHook() string {
	var b strings.Builder
	fmt.Fprintf(&b, `# rewind search widget
_rewind_search() {
    emulate -L zsh
    zle -I

    local output
    output=$(%s search -i -- ${=BUFFER} 3>&1 1>&2 2>&3)

    if [[ -n "$output" ]]; then
        RBUFFER=""
        LBUFFER="$output"
    fi

    zle reset-prompt
}

zle -N _rewind_search_widget _rewind_search
`, shellQuote(h.Binary))

	if !h.DisableCtrlR {
		b.WriteString(`bindkey '^r' _rewind_search_widget
`)
	}
	return b.String()
}

// GenerateInitScript generates an init script for the given shell.
func (h *HookGenerator) GenerateInitScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return h.GenerateBashHook(), nil
	case "zsh":
		return h.GenerateZshHook(), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: %s)", shell, strings.Join(Shells, ", "))
	}
}

// shellQuote single-quotes s unless it is made only of safe characters.
func shellQuote(s string) string {
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("/._-+", r)) {
			safe = false
			break
		}
	}
	if safe && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
