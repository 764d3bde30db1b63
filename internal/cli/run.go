package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/register"
)

// reportRegisters are the registers printed after a run, in order.
var reportRegisters = []rune{register.Unnamed, register.Yank, '1', '2', '3', register.Clipboard}

// RunOptions holds options for the run command.
type RunOptions struct {
	File     string
	Text     string
	Keys     string
	Write    bool
	ReadOnly bool
	JSON     bool
}

// NewRunCommand creates the run command.
func NewRunCommand(global *GlobalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Feed keys to a headless session",
		Long: "Load a file (or --text), feed the space separated keys and print the\n" +
			"resulting buffer, mode and registers.",
		Example: `  vselect run --text "abcdef" --keys "l l l v l l y"
  vselect run -f notes.txt -k "v e d" --write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "File to edit")
	cmd.Flags().StringVar(&opts.Text, "text", "", "Initial buffer text when no file is given")
	cmd.Flags().StringVarP(&opts.Keys, "keys", "k", "", "Space separated keys, e.g. \"v l l d\"")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the buffer back to the file")
	cmd.Flags().BoolVarP(&opts.ReadOnly, "readonly", "R", false, "Open the file read-only")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the result as JSON")
	_ = cmd.MarkFlagRequired("keys")

	return cmd
}

func runKeys(cmd *cobra.Command, global *GlobalOptions, opts *RunOptions) error {
	appOpts := global.appOptions(cmd)
	appOpts.File = opts.File
	appOpts.Text = opts.Text
	appOpts.ReadOnly = opts.ReadOnly
	appOpts.ClipboardOutput = cmd.ErrOrStderr()

	a, err := app.New(appOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Feed(context.Background(), opts.Keys); err != nil {
		return err
	}

	if opts.Write {
		if err := a.Save(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		doc, err := runJSON(a)
		if err != nil {
			return err
		}
		writeLine(out, string(doc))
		return nil
	}

	writeLine(out, a.Buffer().Text())
	writeLine(out, "--")
	writeLine(out, a.StatusLine())
	for _, name := range reportRegisters {
		reg := a.Registers().Get(name)
		if reg.Content == "" {
			continue
		}
		writeLine(out, fmt.Sprintf("\"%c  %s", name, strconv.Quote(reg.Content)))
	}
	return nil
}

// runJSON encodes the session state.
func runJSON(a *app.Application) ([]byte, error) {
	pos := a.Cursor()
	fields := []struct {
		path  string
		value any
	}{
		{"buffer", a.Buffer().Text()},
		{"mode", a.Mode()},
		{"cursor.line", pos.Line},
		{"cursor.column", pos.Column},
	}

	doc := []byte(`{}`)
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.path, err)
		}
	}
	for _, name := range reportRegisters {
		reg := a.Registers().Get(name)
		if reg.Content == "" {
			continue
		}
		// Register names such as '"' and '+' are escaped as path components.
		path := "registers." + escapePath(string(name))
		if doc, err = sjson.SetBytes(doc, path, reg.Content); err != nil {
			return nil, fmt.Errorf("encode register %q: %w", name, err)
		}
	}
	return doc, nil
}

// escapePath escapes the sjson path syntax characters in s.
func escapePath(s string) string {
	var out []rune
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '"', ':', '!', '=', '<', '>', '%', '+', '-':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
