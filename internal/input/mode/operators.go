package mode

import (
	"sort"

	"github.com/dshills/vselect/internal/operator"
)

// OperatorTable maps key sequences, in canonical key notation joined
// without separators, to operators.
type OperatorTable map[string]operator.Operator

// Keys returns the bound key sequences, sorted.
func (t OperatorTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// VisualOption configures a VisualMode at construction.
type VisualOption func(*visualOptions)

type visualOptions struct {
	unnamedPlus bool
	extra       OperatorTable
}

// WithOperator binds keys to op in addition to the default operators.
// A binding for a default key replaces it.
func WithOperator(keys string, op operator.Operator) VisualOption {
	return func(o *visualOptions) {
		o.extra[keys] = op
	}
}

// WithUnnamedPlus mirrors yanks to the clipboard register.
func WithUnnamedPlus(enabled bool) VisualOption {
	return func(o *visualOptions) {
		o.unnamedPlus = enabled
	}
}

// newOperatorTable builds the default table: d and x delete, c changes,
// y yanks.
func newOperatorTable(cfg Config, o visualOptions) OperatorTable {
	buf := cfg.Motion.Buffer()
	del := operator.NewDelete(buf, cfg.Registers)

	table := OperatorTable{
		"d": del,
		"x": del,
		"c": operator.NewChange(buf, cfg.Registers),
		"y": operator.NewYank(buf, cfg.Registers, operator.WithUnnamedPlus(o.unnamedPlus)),
	}
	for k, op := range o.extra {
		table[k] = op
	}
	return table
}
