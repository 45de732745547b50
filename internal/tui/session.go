package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
	"github.com/chazuruo/rewind/internal/history"
)

// defaultWidth is used until the terminal reports its size.
const defaultWidth = 80

// Options configures an interactive search session.
type Options struct {
	// Query pre-seeds the input; tokens are joined by single spaces.
	Query  []string
	Mode   history.SearchMode
	Style  Style
	Title  string
	Logger *slog.Logger

	// Input and Output replace the terminal when set.
	Input  io.Reader
	Output io.Writer
}

// Model is the Bubble Tea model behind Run. Every key press is handled to
// completion, including any requery and the count refresh, before the next
// message is read.
type Model struct {
	ctx      context.Context
	engine   *Engine
	renderer Renderer
	logger   *slog.Logger

	state State
	size  Size
	count int64

	done   bool
	output string
	err    error
}

// NewModel builds a model around an already-queried state.
func NewModel(ctx context.Context, engine *Engine, renderer Renderer, st State, count int64, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		ctx:      ctx,
		engine:   engine,
		renderer: renderer,
		logger:   logger,
		state:    st,
		count:    count,
	}
}

// State returns the current session state.
func (m Model) State() State { return m.state }

// Output returns the emitted text and whether the session finished.
func (m Model) Output() (string, bool) { return m.output, m.done }

// Err returns the store error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = Size{Width: msg.Width, Height: msg.Height}
		return m, nil

	case tea.KeyMsg:
		next, out := Interpret(msg, m.state)
		m.state = next

		if out.Done {
			m.done = true
			m.output = out.Output
			return m, tea.Quit
		}

		if out.InputChanged {
			st, err := m.engine.Requery(m.ctx, m.state)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.state = st
		}

		count, err := m.engine.Count(m.ctx)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.count = count
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.err != nil {
		return ""
	}
	return m.Frame().View
}

// Frame renders the current state.
func (m Model) Frame() Frame {
	size := m.size
	if size.Width <= 0 {
		size.Width = defaultWidth
	}
	return m.renderer.Render(m.state, size, m.count)
}

// Run starts an interactive search and returns the chosen command, or an
// empty string when the user cancelled. The terminal is switched to the
// alternate screen with mouse capture for the session and restored on every
// return path, including store errors.
func Run(ctx context.Context, store history.Store, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := NewEngine(store, opts.Mode, logger)

	// Store errors surface here, before the terminal is taken over.
	st, err := engine.Requery(ctx, NewState(opts.Query))
	if err != nil {
		return "", err
	}
	count, err := engine.Count(ctx)
	if err != nil {
		return "", err
	}

	renderer := Renderer{Title: opts.Title, Style: opts.Style, Now: time.Now}
	m := NewModel(ctx, engine, renderer, st, count, logger)

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	logger.Debug("session start", "query", st.Input, "mode", opts.Mode.String(), "style", opts.Style.String())

	final, err := tea.NewProgram(m, programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &rwerrors.TerminalError{Err: err}
	}

	fm, ok := final.(Model)
	if !ok {
		return "", rwerrors.Newf("unexpected final model %T", final)
	}
	if fm.err != nil {
		return "", fm.err
	}

	logger.Debug("session end", "emitted", fm.output != "")
	return fm.output, nil
}
