package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/input/keymap"
)

// KeysOptions holds options for the keys command.
type KeysOptions struct {
	Mode string
	JSON bool
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(global *GlobalOptions) *cobra.Command {
	opts := &KeysOptions{}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key bindings",
		Long:  "List the effective key bindings: the defaults merged with the configured keymap.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeys(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Only list bindings of this mode")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in the JSON keymap format")

	return cmd
}

func listKeys(cmd *cobra.Command, global *GlobalOptions, opts *KeysOptions) error {
	a, err := app.New(global.appOptions(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	km := a.Keymap()
	if opts.Mode != "" {
		km, err = filterMode(km, opts.Mode)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		doc, err := km.ExportJSON()
		if err != nil {
			return err
		}
		writeLine(out, string(doc))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tKEYS\tCOMMAND")
	for _, b := range km.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Mode, b.Keys, b.Command)
	}
	return tw.Flush()
}

// filterMode returns a keymap holding only the bindings of mode.
func filterMode(km *keymap.Keymap, mode string) (*keymap.Keymap, error) {
	bindings := km.Bindings(mode)
	if len(bindings) == 0 {
		return nil, fmt.Errorf("no bindings for mode %q", mode)
	}
	filtered := keymap.New(km.Name)
	for _, b := range bindings {
		if err := filtered.Bind(b.Mode, b.Keys, b.Command); err != nil {
			return nil, err
		}
	}
	return filtered, nil
}
