package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rewind/internal/config"
	"github.com/chazuruo/rewind/internal/history"
)

// ImportOptions contains the options for the import command.
type ImportOptions struct {
	Path         string
	SkipBuiltins bool
	KeepDups     bool
	Skip         []string
}

// inserter is the write side of the history database.
type inserter interface {
	Insert(ctx context.Context, records []history.History) (int64, error)
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:       "import [bash|zsh|auto]",
		Short:     "Import a shell history file",
		ValidArgs: append([]string{"auto"}, history.Shells...),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Import commands from a shell history file into the rewind database.

The shell defaults to "auto", which picks the parser from $SHELL. The file
defaults to $HISTFILE or the shell's usual location.

Bash histories carry no durations. Lines without a timestamp keep their
file order. Records already stored with the same time, directory and
command are skipped.`,
		Example: `  # Import the current shell's history
  rewind import

  # Import a copied zsh history
  rewind import zsh --path ~/backup/.zsh_history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "auto"
			if len(args) > 0 {
				shell = args[0]
			}
			return runImport(cmd, opts, shell)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "history file (default: detect)")
	cmd.Flags().BoolVar(&opts.SkipBuiltins, "skip-builtins", false, "drop shell builtins such as cd, ls and exit")
	cmd.Flags().BoolVar(&opts.KeepDups, "keep-dups", false, "keep consecutive duplicate commands")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "drop commands starting with this prefix (repeatable)")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions, shell string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	db, err := env.openStore()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("skip-builtins") {
		env.cfg.Import.SkipBuiltins = opts.SkipBuiltins
	}
	if cmd.Flags().Changed("keep-dups") {
		env.cfg.Import.RemoveDuplicates = !opts.KeepDups
	}

	im := importer{
		db:     db,
		cfg:    env.cfg.Import,
		logger: env.logger,
		out:    cmd.OutOrStdout(),
	}
	return im.run(cmd.Context(), shell, opts)
}

// importer reads one history file into the database.
type importer struct {
	db     inserter
	cfg    config.ImportConfig
	logger *slog.Logger
	out    io.Writer

	// hostname is stamped on every record; os.Hostname when empty.
	hostname string
}

func (im importer) run(ctx context.Context, shell string, opts *ImportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if shell == "" || shell == "auto" {
		shell = history.DetectShell()
	}
	parser := history.NewParser(shell)
	if parser == nil {
		return fmt.Errorf("unsupported shell %q (supported: %s)", shell, strings.Join(history.Shells, ", "))
	}

	path := opts.Path
	if path == "" {
		detected, err := parser.DetectPath()
		if err != nil {
			return fmt.Errorf("failed to find %s history: %w", shell, err)
		}
		path = detected
	}

	lines, err := parser.Parse(path)
	if err != nil {
		return fmt.Errorf("failed to read %s history: %w", shell, err)
	}

	lines = history.CleanLines(lines, history.CleanOptions{
		RemoveDuplicates: im.cfg.RemoveDuplicates,
		SkipBuiltins:     im.cfg.SkipBuiltins,
		SkipCommands:     opts.Skip,
	})

	hostname := im.hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	records := history.ToRecords(lines, history.RecordOptions{Hostname: hostname})

	added, err := im.db.Insert(ctx, records)
	if err != nil {
		return err
	}

	im.logger.Info("history imported", "shell", shell, "path", path, "read", len(records), "added", added)
	fmt.Fprintf(im.out, "Imported %d new of %d commands from %s\n", added, len(records), path)
	return nil
}
