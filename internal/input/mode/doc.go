// Package mode provides the modal editing system.
//
// The mode system implements Vim-style modal editing with:
//   - Normal mode: navigation; the baseline mode
//   - Insert mode: text input
//   - Visual mode: character-wise selection with operators
//
// # Architecture
//
// The mode system is built around the Mode interface. The Manager owns the
// registered modes, the current and previous mode, and the keystroke
// dispatch loop. Modes share a BaseMode holding the cursor Motion, the
// keymap, the registers, the key history and the count prefix.
//
// # Mode Lifecycle
//
//	┌─────────┐  HandleActivation   ┌─────────┐
//	│ Mode A  │ ──────────────────▶ │ Mode B  │
//	└─────────┘                     └─────────┘
//	     ▲                               │
//	     │      HandleDeactivation       │
//	     └───────────────────────────────┘
//
// When switching modes:
//  1. Current mode's HandleDeactivation() is called
//  2. New mode's HandleActivation() is called
//  3. Mode change callbacks are notified, outside the manager lock
//
// # Key Dispatch
//
// Manager.HandleKey processes one keystroke at a time:
//  1. Count prefix digits accumulate in modes that take counts
//  2. A mode whose ShouldBeActivated reports true is switched to
//  3. A key bound to "mode.normal" returns to normal mode
//  4. A key bound to a command with a registered action runs HandleAction
//  5. Anything else goes to the current mode's HandleKey. When that fires
//     an operator, the manager enters the operator's next mode and places
//     the cursor on the operator's landing point.
//
// # Visual Mode
//
// Visual mode tracks an anchor, fixed on activation, and a focus that
// follows every motion. The displayed selection includes both endpoint
// characters: a forward selection is [anchor, focus], a backward one is
// [anchor.Right(), focus]. Operator keys are resolved from the key
// history by longest trailing match against the operator table.
package mode
