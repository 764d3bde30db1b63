// Package config loads vselect settings.
//
// Settings come from three places, applied in order:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (Load, Parse)
//  3. Environment overrides (ApplyEnv): VSELECT_LOG_LEVEL, VSELECT_KEYMAP
//     and VSELECT_CLIPBOARD
//
// A file looks like:
//
//	[log]
//	level = "debug"
//	file = "/tmp/vselect.log"
//
//	[keymap]
//	path = "~/.config/vselect/keys.toml"
//
//	[clipboard]
//	provider = "osc52"
//	unnamedplus = true
//
//	[lua.motions]
//	paragraph = "~/.config/vselect/paragraph.lua"
//
// Watcher reports changes to a single file (normally the keymap) through
// fsnotify so the application can reload it without restarting.
package config
