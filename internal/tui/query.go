package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/chazuruo/rewind/internal/history"
)

// resultLimit caps each interactive list or search call.
const resultLimit = 200

// Engine runs the store queries behind the interactive list.
type Engine struct {
	store  history.Store
	mode   history.SearchMode
	logger *slog.Logger
}

// NewEngine returns an Engine searching store under mode.
func NewEngine(store history.Store, mode history.SearchMode, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: store, mode: mode, logger: logger}
}

// Requery fetches results for st.Input and resets the selection. An empty
// input lists the most recent distinct commands. Store errors are returned
// unchanged and st is left as it was.
func (e *Engine) Requery(ctx context.Context, st State) (State, error) {
	start := time.Now()

	var (
		results []history.History
		err     error
	)
	if st.Input == "" {
		results, err = e.store.List(ctx, resultLimit, true)
	} else {
		results, err = e.store.Search(ctx, e.mode, st.Input, resultLimit)
	}
	if err != nil {
		e.logger.Error("requery failed", "query", st.Input, "error", err)
		return st, err
	}

	e.logger.Debug("requery", "query", st.Input, "mode", e.mode.String(), "results", len(results), "elapsed", time.Since(start))
	return st.WithResults(results), nil
}

// Count returns the total number of stored records.
func (e *Engine) Count(ctx context.Context) (int64, error) {
	return e.store.Count(ctx)
}
