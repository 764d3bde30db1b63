// Package app wires the selection engine into a single editing session:
// one buffer, its cursor, the registers, the keymap, the actions and the
// mode manager. It is the surface used by the command line tools.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/clipboard"
	"github.com/dshills/vselect/internal/config"
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/engine/cursor"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/input/mode"
	"github.com/dshills/vselect/internal/logging"
	"github.com/dshills/vselect/internal/register"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML config file. Ignored when Config is set.
	ConfigPath string

	// Config supplies settings directly.
	Config *config.Config

	// File is the document to edit. When empty, Text is used.
	File string

	// Text is the initial content of an unnamed document.
	Text string

	// ReadOnly opens the document read-only.
	ReadOnly bool

	// LogOutput receives log output, overriding the configured log file.
	// With neither set, logs are discarded.
	LogOutput io.Writer

	// ClipboardOutput receives OSC52 sequences. Defaults to os.Stdout.
	ClipboardOutput io.Writer

	// WatchKeymap reloads the user keymap when its file changes.
	WatchKeymap bool
}

// Application is one editing session.
type Application struct {
	config  *config.Config
	session string
	logger  *logging.Logger
	logFile *os.File

	path      string
	buffer    *buffer.Buffer
	motion    *cursor.Motion
	clipboard *clipboard.Clipboard
	registers *register.Store
	keymap    *keymap.Keymap
	actions   *action.Registry
	lua       []*action.LuaAction
	visual    *mode.VisualMode
	manager   *mode.Manager
	watcher   *config.Watcher

	closed atomic.Bool
	boot   *bootstrapper
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{}
	app.boot = newBootstrapper(app, opts)
	if err := app.boot.bootstrap(); err != nil {
		return nil, err
	}
	app.logger.Info("session started")
	return app, nil
}

// HandleKey dispatches a single key event.
func (app *Application) HandleKey(ctx context.Context, ev key.Event) (mode.Result, error) {
	if app.closed.Load() {
		return mode.Result{}, ErrClosed
	}
	return app.manager.HandleKey(ctx, ev)
}

// Feed parses a space separated key sequence such as "v l l d" and
// dispatches each key in turn. It stops at the first failing key.
func (app *Application) Feed(ctx context.Context, keys string) error {
	events, err := key.ParseSequence(keys)
	if err != nil {
		return fmt.Errorf("parse keys %q: %w", keys, err)
	}
	for i, ev := range events {
		if _, err := app.HandleKey(ctx, ev); err != nil {
			return fmt.Errorf("key %d (%s): %w", i+1, ev.VimString(), err)
		}
	}
	return nil
}

// StatusLine describes the current mode, cursor and selection,
// e.g. "VISUAL 1:4 sel 1:2-1:4". Positions are 1-based.
func (app *Application) StatusLine() string {
	var sb strings.Builder

	name := "-"
	if m := app.manager.Current(); m != nil {
		name = m.DisplayName()
	}
	sb.WriteString(name)

	pos := app.motion.Position()
	fmt.Fprintf(&sb, " %s", formatPoint(pos))

	if sel, ok := app.motion.Selection(); ok {
		fmt.Fprintf(&sb, " sel %s-%s", formatPoint(sel.Start()), formatPoint(sel.End()))
	}
	if app.buffer.ReadOnly() {
		sb.WriteString(" [RO]")
	}
	return sb.String()
}

func formatPoint(p buffer.Point) string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Save writes the buffer back to its file.
func (app *Application) Save() error {
	if app.path == "" {
		return ErrNoFile
	}
	if app.buffer.ReadOnly() {
		return ErrReadOnly
	}
	if err := os.WriteFile(app.path, []byte(app.buffer.Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", app.path, err)
	}
	app.logger.Info("saved %s", app.path)
	return nil
}

// reloadKeymap is the watcher callback. On failure the current keymap
// stays active.
func (app *Application) reloadKeymap(path string) {
	if err := app.loadKeymap(path); err != nil {
		app.logger.Warn("%v", err)
	}
}

// ReloadKeymap reloads the configured user keymap now.
func (app *Application) ReloadKeymap() error {
	if app.config.Keymap.Path == "" {
		return nil
	}
	return app.loadKeymap(app.config.Keymap.Path)
}

// loadKeymap rebuilds the keymap from path and swaps it into the
// running session.
func (app *Application) loadKeymap(path string) error {
	km, err := buildKeymap(path)
	if err != nil {
		return fmt.Errorf("reload keymap: %w", err)
	}
	app.manager.ReplaceKeymap(km)
	app.logger.Info("keymap reloaded from %s (%d bindings)", path, km.Len())
	return nil
}

// Close releases the watcher, the Lua states and the log file.
// It is safe to call more than once.
func (app *Application) Close() error {
	if app.closed.Swap(true) {
		return nil
	}
	app.logger.Info("session closed")
	app.boot.cleanup()
	return nil
}

// Buffer returns the document buffer.
func (app *Application) Buffer() *buffer.Buffer { return app.buffer }

// Registers returns the register store.
func (app *Application) Registers() *register.Store { return app.registers }

// Manager returns the mode manager.
func (app *Application) Manager() *mode.Manager { return app.manager }

// Keymap returns the active keymap.
func (app *Application) Keymap() *keymap.Keymap { return app.keymap }

// Config returns the effective settings.
func (app *Application) Config() *config.Config { return app.config }

// Clipboard returns the clipboard backing the + and * registers.
func (app *Application) Clipboard() *clipboard.Clipboard { return app.clipboard }

// SessionID returns the unique id of this session.
func (app *Application) SessionID() string { return app.session }

// Path returns the document file, or "" for an unnamed document.
func (app *Application) Path() string { return app.path }

// Cursor returns the cursor position.
func (app *Application) Cursor() buffer.Point { return app.motion.Position() }

// Selection returns the displayed selection, if any.
func (app *Application) Selection() (cursor.Selection, bool) { return app.motion.Selection() }

// Mode returns the name of the current mode.
func (app *Application) Mode() string { return app.manager.CurrentName() }

// Visual returns the visual mode.
func (app *Application) Visual() *mode.VisualMode { return app.visual }
