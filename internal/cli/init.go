package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chazuruo/rewind/internal/config"
)

var (
	searchModes  = []string{"fuzzy", "prefix", "fulltext"}
	searchStyles = []string{"auto", "compact", "full"}
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	// Scriptable/flag options for --no-tui mode
	Mode   string
	Style  string
	DBPath string

	Force bool
	Print bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rewind configuration",
		Long: `Initialize rewind configuration.

The init command guides you through the search settings:
- Choose the search mode (fuzzy, prefix or fulltext)
- Choose the interactive layout (auto, compact or full)
- Set where the history database lives

Use --no-tui with flags for scripted setup, and --print to see the
resulting file without writing it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "search mode: fuzzy, prefix or fulltext")
	cmd.Flags().StringVar(&opts.Style, "style", "", "interactive layout: auto, compact or full")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "history database path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "print the config instead of writing it")

	return cmd
}

func runInit(opts *InitOptions, out io.Writer) error {
	path := configPath()
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if !opts.Force && !opts.Print {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := config.DefaultConfig()
	applyInitFlags(cfg, opts)

	// Check if --no-tui mode
	if !IsNoTUI() {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if opts.Print {
		fmt.Fprint(out, cfg.String())
		return nil
	}

	if err := config.Write(path, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Configuration written to: %s\n", path)
	fmt.Fprintf(out, "  Mode:     %s\n", cfg.Search.Mode)
	fmt.Fprintf(out, "  Style:    %s\n", cfg.Search.Style)
	fmt.Fprintf(out, "  Database: %s\n", cfg.Store.Path)
	return nil
}

func applyInitFlags(cfg *config.Config, opts *InitOptions) {
	if opts.Mode != "" {
		cfg.Search.Mode = opts.Mode
	}
	if opts.Style != "" {
		cfg.Search.Style = opts.Style
	}
	if opts.DBPath != "" {
		cfg.Store.Path = opts.DBPath
	}
}

// runInitForm asks for the search settings, starting from cfg's values.
func runInitForm(cfg *config.Config) error {
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Search mode").
				Description("How typed text matches history").
				Options(titledOptions(searchModes)...).
				Value(&cfg.Search.Mode),
			huh.NewSelect[string]().
				Title("Layout").
				Description("Compact fits small terminals; auto picks by height").
				Options(titledOptions(searchStyles)...).
				Value(&cfg.Search.Style),
			huh.NewInput().
				Title("History database").
				Value(&cfg.Store.Path).
				Placeholder(cfg.Store.Path),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

// titledOptions labels each value in title case ("fulltext" -> "Fulltext").
func titledOptions(values []string) []huh.Option[string] {
	caser := cases.Title(language.English)
	options := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		options = append(options, huh.NewOption(caser.String(v), v))
	}
	return options
}
