// Package cli defines the vselect command line.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/config"
)

// BuildInfo describes the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// GlobalOptions holds flags shared by all commands.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "vselect",
		Short:         "vselect - a visual selection mode engine",
		Long:          "vselect runs Vim-style visual selection over a text buffer, headless or on a terminal.",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath(), "Path to configuration file")
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "Write logs to stderr")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTTYCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewVersionCommand(info))

	return cmd
}

// appOptions converts the global flags into application options.
func (g *GlobalOptions) appOptions(cmd *cobra.Command) app.Options {
	opts := app.Options{ConfigPath: g.ConfigPath}
	if g.Verbose {
		opts.LogOutput = cmd.ErrOrStderr()
	}
	return opts
}

// writeLine writes s and a newline, ignoring errors like fmt.Fprintln.
func writeLine(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\n")
}
