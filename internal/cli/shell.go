package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rewind/internal/history"
	"github.com/chazuruo/rewind/internal/shellinit"
)

// ShellOptions contains the options for the shell command.
type ShellOptions struct {
	Binary       string
	DisableCtrlR bool
}

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	opts := &ShellOptions{}

	cmd := &cobra.Command{
		Use:       "shell [bash|zsh]",
		Short:     "Print the Ctrl-R key binding for a shell",
		ValidArgs: shellinit.Shells,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Print a script that binds Ctrl-R to the interactive search.

The chosen command replaces the current command line. Add the output to
your shell's startup file.`,
		Example: `  # ~/.zshrc
  eval "$(rewind shell zsh)"

  # ~/.bashrc
  eval "$(rewind shell bash)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := history.DetectShell()
			if len(args) > 0 {
				shell = args[0]
			}
			return runShell(cmd.OutOrStdout(), opts, shell)
		},
	}

	cmd.Flags().StringVar(&opts.Binary, "binary", "", "rewind executable the widget runs (default: rewind from $PATH)")
	cmd.Flags().BoolVar(&opts.DisableCtrlR, "disable-ctrl-r", false, "define the widget without binding Ctrl-R")

	return cmd
}

func runShell(w io.Writer, opts *ShellOptions, shell string) error {
	gen := shellinit.NewHookGenerator(opts.Binary)
	gen.DisableCtrlR = opts.DisableCtrlR

	script, err := gen.GenerateInitScript(shell)
	if err != nil {
		return err
	}

	fmt.Fprint(w, script)
	return nil
}
