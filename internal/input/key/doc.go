// Package key provides key event types and parsing for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4"
//   - Vim-style: "<C-s>", "<A-f>", "<CR>", "<Esc>"
//
// Event.VimString is the canonical spelling used as a key-history entry
// by the modes, so "<Esc>", "Escape" and a terminal Escape press all map
// to the same string.
//
// # Sequences
//
// ParseSequence splits a space separated list of specs, as used by
// scripted sessions: "v l l d" is four events.
package key
