package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rewind/internal/config"
	rwerrors "github.com/chazuruo/rewind/internal/errors"
	"github.com/chazuruo/rewind/internal/history"
	"github.com/chazuruo/rewind/internal/output"
	"github.com/chazuruo/rewind/internal/tui"
)

// runTUI starts the interactive session. Tests replace it.
var runTUI = tui.Run

// SearchOptions contains the options for the search command.
type SearchOptions struct {
	Cwd         string
	ExcludeCwd  string
	Exit        int64
	ExcludeExit int64
	Before      string
	After       string

	Interactive bool
	Human       bool
	CmdOnly     bool
	Format      string

	// Exit codes only filter when their flag was given.
	exitSet        bool
	excludeExitSet bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(version string) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search shell history",
		Long: `Search the recorded shell history.

Interactive mode (-i):
- Results refresh as you type
- Up/Down or Ctrl-P/Ctrl-N move the selection, Alt-1..9 pick a row
- Enter prints the chosen command to stderr, Esc prints nothing

Batch mode (default, or --no-tui):
- Results matching the query and every filter are printed to stdout
- Use --human for a readable table, --cmd-only for command text only,
  --format json|yaml for structured output

Time bounds accept expressions such as "3 days ago", "last friday 8pm",
"2024-03-01" or "01/03/2024 14:30".`,
		Example: `  # Pick a recent git command
  rewind search -i git

  # Failed commands run in the current directory this week
  rewind search --cwd . --exclude-exit 0 --after "7 days ago"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.exitSet = cmd.Flags().Changed("exit")
			opts.excludeExitSet = cmd.Flags().Changed("exclude-exit")
			return runSearch(cmd, opts, args, version)
		},
	}

	cmd.Flags().StringVarP(&opts.Cwd, "cwd", "c", "", `only commands run in this directory ("." for the current one)`)
	cmd.Flags().StringVar(&opts.ExcludeCwd, "exclude-cwd", "", "skip commands run in this directory")
	cmd.Flags().Int64VarP(&opts.Exit, "exit", "e", 0, "only commands that exited with this code")
	cmd.Flags().Int64Var(&opts.ExcludeExit, "exclude-exit", 0, "skip commands that exited with this code")
	cmd.Flags().StringVarP(&opts.Before, "before", "b", "", "only commands run before this time")
	cmd.Flags().StringVar(&opts.After, "after", "", "only commands run after this time")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "open the interactive search")
	cmd.Flags().BoolVar(&opts.Human, "human", false, "print a readable table")
	cmd.Flags().BoolVar(&opts.CmdOnly, "cmd-only", false, "print only the command text")
	cmd.Flags().StringVar(&opts.Format, "format", "", "structured output format: json or yaml")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, args []string, version string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	db, err := env.openStore()
	if err != nil {
		return err
	}

	s := searcher{
		store:  db,
		cfg:    env.cfg,
		logger: env.logger,
		title:  "Rewind v" + version,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	return s.run(cmd.Context(), opts, args)
}

// searcher runs one search invocation against an already-open store.
type searcher struct {
	store  history.Store
	cfg    *config.Config
	logger *slog.Logger
	title  string

	out    io.Writer
	errOut io.Writer
}

func (s searcher) run(ctx context.Context, opts *SearchOptions, query []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	mode, err := history.ParseSearchMode(s.cfg.Search.Mode)
	if err != nil {
		return err
	}

	if opts.Interactive && !IsNoTUI() {
		return s.interactive(ctx, mode, query)
	}
	return s.batch(ctx, mode, opts, query)
}

func (s searcher) interactive(ctx context.Context, mode history.SearchMode, query []string) error {
	style, err := tui.ParseStyle(s.cfg.Search.Style)
	if err != nil {
		return err
	}

	choice, err := runTUI(ctx, s.store, tui.Options{
		Query:  query,
		Mode:   mode,
		Style:  style,
		Title:  s.title,
		Logger: s.logger,
	})
	if rwerrors.IsTerminal(err) {
		return rwerrors.Wrap(err, "interactive search needs a terminal (try --no-tui)")
	}
	if err != nil {
		return err
	}

	// stderr, so shell widgets can capture it apart from stdout
	fmt.Fprintln(s.errOut, choice)
	return nil
}

func (s searcher) batch(ctx context.Context, mode history.SearchMode, opts *SearchOptions, query []string) error {
	format, err := output.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	filter := history.FilterOptions{
		Cwd:        opts.Cwd,
		ExcludeCwd: opts.ExcludeCwd,
		Before:     opts.Before,
		After:      opts.After,
	}
	if opts.exitSet {
		filter.Exit = &opts.Exit
	}
	if opts.excludeExitSet {
		filter.ExcludeExit = &opts.ExcludeExit
	}

	preds, err := filter.Predicates(history.DefaultFilterEnv())
	if err != nil {
		return err
	}

	q := strings.Join(query, " ")
	records, err := s.store.Search(ctx, mode, q, 0)
	if err != nil {
		return err
	}

	kept := history.Filter(records, preds)
	s.logger.Debug("batch search", "query", q, "matched", len(records), "kept", len(kept))

	return output.Print(s.out, kept, output.Options{
		Human:   opts.Human,
		CmdOnly: opts.CmdOnly,
		Format:  format,
	})
}
