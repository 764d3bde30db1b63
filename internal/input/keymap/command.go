package keymap

import "strings"

// Command identifies an editor command a key can be bound to.
type Command string

// Mode commands.
const (
	CommandNone            Command = ""
	CommandEnterVisualMode Command = "mode.visual"
	CommandEnterInsertMode Command = "mode.insert"
	CommandAppend          Command = "mode.append"
	CommandExitMode        Command = "mode.normal"
)

// Cursor motion commands.
const (
	CommandCursorLeft          Command = "cursor.left"
	CommandCursorRight         Command = "cursor.right"
	CommandCursorUp            Command = "cursor.up"
	CommandCursorDown          Command = "cursor.down"
	CommandCursorWordForward   Command = "cursor.wordForward"
	CommandCursorWordBackward  Command = "cursor.wordBackward"
	CommandCursorWordEnd       Command = "cursor.wordEnd"
	CommandCursorLineStart     Command = "cursor.lineStart"
	CommandCursorLineEnd       Command = "cursor.lineEnd"
	CommandCursorFirstNonBlank Command = "cursor.firstNonBlank"
	CommandCursorFileStart     Command = "cursor.fileStart"
	CommandCursorFileEnd       Command = "cursor.fileEnd"
)

// Editing commands.
const (
	CommandPasteAfter  Command = "editor.pasteAfter"
	CommandPasteBefore Command = "editor.pasteBefore"
)

// luaPrefix marks commands implemented by Lua motions.
const luaPrefix = "lua."

// String returns the command name.
func (c Command) String() string {
	return string(c)
}

// IsMode returns true for mode switching commands.
func (c Command) IsMode() bool {
	return strings.HasPrefix(string(c), "mode.")
}

// IsLua returns true for commands implemented in Lua.
func (c Command) IsLua() bool {
	return strings.HasPrefix(string(c), luaPrefix)
}

// LuaName returns the Lua motion name of a "lua." command.
func (c Command) LuaName() string {
	return strings.TrimPrefix(string(c), luaPrefix)
}

// LuaCommand returns the command for the Lua motion called name.
func LuaCommand(name string) Command {
	return Command(luaPrefix + name)
}
