package mode

import (
	"strings"

	"github.com/dshills/vselect/internal/operator"
)

// Resolve finds the operator bound to the longest trailing run of history.
// Windows are tried from the whole history down to the last key alone; the
// first window present in table wins. history is not modified.
func Resolve(history []string, table OperatorTable) (operator.Operator, string, bool) {
	op, keys, window := resolveWindow(history, table)
	return op, keys, window > 0
}

// resolveWindow is Resolve that also reports how many keys matched.
// window is 0 when nothing matched.
func resolveWindow(history []string, table OperatorTable) (op operator.Operator, keys string, window int) {
	for window = len(history); window > 0; window-- {
		keys = strings.Join(history[len(history)-window:], "")
		if op, ok := table[keys]; ok {
			return op, keys, window
		}
	}
	return nil, "", 0
}

// Pending reports whether some binding could still be completed by more
// keys: a trailing run of at least minWindow keys is a proper prefix of a
// bound sequence.
func Pending(history []string, table OperatorTable, minWindow int) bool {
	if minWindow < 1 {
		minWindow = 1
	}
	for window := len(history); window >= minWindow; window-- {
		keys := strings.Join(history[len(history)-window:], "")
		for bound := range table {
			if len(bound) > len(keys) && strings.HasPrefix(bound, keys) {
				return true
			}
		}
	}
	return false
}
