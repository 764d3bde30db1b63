package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/tty"
)

// TTYOptions holds options for the tty command.
type TTYOptions struct {
	File     string
	ReadOnly bool
	NoWatch  bool
}

// NewTTYCommand creates the tty command.
func NewTTYCommand(global *GlobalOptions) *cobra.Command {
	opts := &TTYOptions{}

	cmd := &cobra.Command{
		Use:   "tty",
		Short: "Edit interactively on the terminal",
		Long:  "Open an interactive session on the terminal. Press Ctrl+Q to quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTTY(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "File to edit")
	cmd.Flags().BoolVarP(&opts.ReadOnly, "readonly", "R", false, "Open the file read-only")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload the keymap when it changes")

	return cmd
}

func runTTY(cmd *cobra.Command, global *GlobalOptions, opts *TTYOptions) error {
	appOpts := global.appOptions(cmd)
	appOpts.File = opts.File
	appOpts.ReadOnly = opts.ReadOnly
	appOpts.WatchKeymap = !opts.NoWatch
	appOpts.ClipboardOutput = os.Stdout

	a, err := app.New(appOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	term, err := tty.NewTerminal(a)
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
