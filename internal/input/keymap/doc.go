// Package keymap provides the key configuration for the modal editor.
//
// A Keymap maps a single key, in canonical Vim notation, to a Command for
// a given mode. Lookups try the mode's own table first and then the global
// table, so arrow keys can be bound once for every mode.
//
// # Key Concepts
//
// Command: A named editor command such as "mode.visual" or "cursor.left".
// Commands prefixed with "lua." name user motions written in Lua.
//
// Binding: One (mode, keys, command) entry.
//
// # File Formats
//
// Keymaps load from TOML, YAML or JSON, chosen by file extension. All
// three share one schema:
//
//	name = "user"
//
//	[[bindings]]
//	mode = "normal"
//	keys = "v"
//	command = "mode.visual"
//
// Keys accept every notation key.Parse understands ("<C-v>", "Ctrl+V",
// "Escape") and are stored in canonical form, so "<Esc>" and "Escape"
// are the same binding.
//
// Operator keys of visual mode (d, x, c, y) are not part of the keymap:
// they are resolved from the key history by the mode itself.
package keymap
