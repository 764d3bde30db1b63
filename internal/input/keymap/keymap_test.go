package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func TestBindCanonicalizes(t *testing.T) {
	km := New("test")

	if err := km.Bind(ModeVisual, "Escape", CommandExitMode); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind(ModeNormal, "Ctrl+V", CommandEnterVisualMode); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if got := km.Lookup(ModeVisual, "<Esc>"); got != CommandExitMode {
		t.Errorf("Lookup(<Esc>) = %q", got)
	}
	if got := km.Lookup(ModeNormal, "<C-v>"); got != CommandEnterVisualMode {
		t.Errorf("Lookup(<C-v>) = %q", got)
	}
}

func TestBindErrors(t *testing.T) {
	km := New("test")

	tests := []struct {
		name string
		mode string
		keys string
		cmd  Command
		want error
	}{
		{"no mode", "", "v", CommandEnterVisualMode, ErrEmptyMode},
		{"no keys", ModeNormal, "", CommandEnterVisualMode, ErrEmptyKeys},
		{"no command", ModeNormal, "v", CommandNone, ErrEmptyCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := km.Bind(tt.mode, tt.keys, tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Errorf("Bind() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := km.Bind(ModeNormal, "<C-", CommandEnterVisualMode); err == nil {
		t.Error("Bind should reject malformed keys")
	}
}

func TestLookupGlobalFallback(t *testing.T) {
	km := New("test")
	km.MustBind(Global, "<Left>", CommandCursorLeft)
	km.MustBind(ModeInsert, "<Left>", CommandCursorWordBackward)

	if got := km.Lookup(ModeVisual, "<Left>"); got != CommandCursorLeft {
		t.Errorf("visual <Left> = %q, want global binding", got)
	}
	if got := km.Lookup(ModeInsert, "<Left>"); got != CommandCursorWordBackward {
		t.Errorf("insert <Left> = %q, want mode binding", got)
	}
	if got := km.Lookup(ModeVisual, "z"); got != CommandNone {
		t.Errorf("unbound key = %q", got)
	}
}

func TestUnbindAndMerge(t *testing.T) {
	base := New("base")
	base.MustBind(ModeNormal, "v", CommandEnterVisualMode)
	base.MustBind(ModeNormal, "i", CommandEnterInsertMode)

	base.Unbind(ModeNormal, "i")
	if got := base.Lookup(ModeNormal, "i"); got != CommandNone {
		t.Errorf("after Unbind, i = %q", got)
	}

	user := New("user")
	user.MustBind(ModeNormal, "v", CommandExitMode)
	user.MustBind(ModeVisual, "q", CommandExitMode)
	base.Merge(user)

	if got := base.Lookup(ModeNormal, "v"); got != CommandExitMode {
		t.Errorf("merged v = %q", got)
	}
	if got := base.Lookup(ModeVisual, "q"); got != CommandExitMode {
		t.Errorf("merged q = %q", got)
	}
	if base.Len() != 2 {
		t.Errorf("Len() = %d, want 2", base.Len())
	}
}

func TestReplace(t *testing.T) {
	km := Default()
	user := New("user")
	user.MustBind(ModeNormal, "s", CommandEnterVisualMode)

	km.Replace(user)
	if km.Name != "user" {
		t.Errorf("Name = %q", km.Name)
	}
	if got := km.Lookup(ModeNormal, "v"); got != CommandNone {
		t.Errorf("old binding survived Replace: %q", got)
	}
	if got := km.Lookup(ModeNormal, "s"); got != CommandEnterVisualMode {
		t.Errorf("new binding = %q", got)
	}

	user.MustBind(ModeNormal, "t", CommandExitMode)
	if km.Lookup(ModeNormal, "t") != CommandNone {
		t.Error("Replace must copy the bindings")
	}
}

func TestBindingsSorted(t *testing.T) {
	km := New("test")
	km.MustBind(ModeNormal, "l", CommandCursorRight)
	km.MustBind(ModeNormal, "h", CommandCursorLeft)
	km.MustBind(ModeNormal, "j", CommandCursorDown)

	got := km.Bindings(ModeNormal)
	want := []string{"h", "j", "l"}
	if len(got) != len(want) {
		t.Fatalf("Bindings() len = %d", len(got))
	}
	for i, b := range got {
		if b.Keys != want[i] || b.Mode != ModeNormal {
			t.Errorf("Bindings()[%d] = %+v", i, b)
		}
	}
}

func TestDefaultKeymap(t *testing.T) {
	km := Default()

	tests := []struct {
		mode string
		keys string
		want Command
	}{
		{ModeNormal, "v", CommandEnterVisualMode},
		{ModeNormal, "i", CommandEnterInsertMode},
		{ModeNormal, "p", CommandPasteAfter},
		{ModeNormal, "l", CommandCursorRight},
		{ModeVisual, "l", CommandCursorRight},
		{ModeVisual, "G", CommandCursorFileEnd},
		{ModeVisual, "$", CommandCursorLineEnd},
		{ModeVisual, "<Esc>", CommandExitMode},
		{ModeVisual, "<Left>", CommandCursorLeft},
		{ModeInsert, "<Esc>", CommandExitMode},
		{ModeInsert, "l", CommandNone},
		{ModeVisual, "d", CommandNone},
		{ModeVisual, "y", CommandNone},
	}

	for _, tt := range tests {
		if got := km.Lookup(tt.mode, tt.keys); got != tt.want {
			t.Errorf("Lookup(%s, %q) = %q, want %q", tt.mode, tt.keys, got, tt.want)
		}
	}
}

func TestCommandPredicates(t *testing.T) {
	if !CommandEnterVisualMode.IsMode() || CommandCursorLeft.IsMode() {
		t.Error("IsMode mismatch")
	}

	c := LuaCommand("paragraph")
	if c != "lua.paragraph" || !c.IsLua() || c.LuaName() != "paragraph" {
		t.Errorf("LuaCommand = %q", c)
	}
}

const tomlKeymap = `
name = "mine"

[[bindings]]
mode = "normal"
keys = "Ctrl+V"
command = "mode.visual"

[[bindings]]
mode = "visual"
keys = "q"
command = "mode.normal"
`

const yamlKeymap = `
name: mine
bindings:
  - mode: normal
    keys: Ctrl+V
    command: mode.visual
  - mode: visual
    keys: q
    command: mode.normal
`

const jsonKeymap = `{
  "name": "mine",
  "bindings": [
    {"mode": "normal", "keys": "Ctrl+V", "command": "mode.visual"},
    {"mode": "visual", "keys": "q", "command": "mode.normal"}
  ]
}`

func TestParseFormats(t *testing.T) {
	parsers := map[string]func([]byte) (*Keymap, error){
		"toml": func(b []byte) (*Keymap, error) { return ParseTOML(b) },
		"yaml": func(b []byte) (*Keymap, error) { return ParseYAML(b) },
		"json": func(b []byte) (*Keymap, error) { return ParseJSON(b) },
	}
	inputs := map[string]string{
		"toml": tomlKeymap,
		"yaml": yamlKeymap,
		"json": jsonKeymap,
	}

	for format, parse := range parsers {
		t.Run(format, func(t *testing.T) {
			km, err := parse([]byte(inputs[format]))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if km.Name != "mine" {
				t.Errorf("Name = %q", km.Name)
			}
			if got := km.Lookup(ModeNormal, "<C-v>"); got != CommandEnterVisualMode {
				t.Errorf("normal <C-v> = %q", got)
			}
			if got := km.Lookup(ModeVisual, "q"); got != CommandExitMode {
				t.Errorf("visual q = %q", got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"bindings": [`)); err == nil {
		t.Error("ParseJSON should reject invalid documents")
	}
	if _, err := ParseTOML([]byte(`name = `)); err == nil {
		t.Error("ParseTOML should reject invalid documents")
	}
	_, err := ParseYAML([]byte("bindings:\n  - mode: normal\n    keys: v\n"))
	if !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("ParseYAML missing command error = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "custom.toml")
	data := "[[bindings]]\nmode = \"visual\"\nkeys = \"q\"\ncommand = \"mode.normal\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	km, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if km.Name != "custom" {
		t.Errorf("Name = %q, want file stem", km.Name)
	}
	if got := km.Lookup(ModeVisual, "q"); got != CommandExitMode {
		t.Errorf("visual q = %q", got)
	}

	bad := filepath.Join(dir, "keys.ini")
	if err := os.WriteFile(bad, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadFile(.ini) error = %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile should fail for missing files")
	}
}

func TestExportJSON(t *testing.T) {
	km := New("export")
	km.MustBind(ModeVisual, "<Esc>", CommandExitMode)
	km.MustBind(ModeNormal, "v", CommandEnterVisualMode)

	data, err := km.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	doc := gjson.ParseBytes(data)
	if doc.Get("name").String() != "export" {
		t.Errorf("name = %q", doc.Get("name").String())
	}
	if n := doc.Get("bindings.#").Int(); n != 2 {
		t.Fatalf("bindings = %d, want 2", n)
	}
	if got := doc.Get("bindings.0.mode").String(); got != ModeNormal {
		t.Errorf("first binding mode = %q, want normal", got)
	}
	if got := doc.Get("bindings.1.keys").String(); got != "<Esc>" {
		t.Errorf("second binding keys = %q", got)
	}

	round, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON(export): %v", err)
	}
	if round.Len() != km.Len() {
		t.Errorf("round trip Len = %d, want %d", round.Len(), km.Len())
	}
}
