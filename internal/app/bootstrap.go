package app

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/clipboard"
	"github.com/dshills/vselect/internal/config"
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/engine/cursor"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/input/mode"
	"github.com/dshills/vselect/internal/logging"
	"github.com/dshills/vselect/internal/register"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initDocument,
		b.initRegisters,
		b.initKeymap,
		b.initActions,
		b.initModes,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads settings unless the caller supplied them.
func (b *bootstrapper) initConfig() error {
	cfg := b.opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(b.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
	} else if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger creates the session logger.
func (b *bootstrapper) initLogger() error {
	cfg := b.app.config

	var out io.Writer = io.Discard
	switch {
	case b.opts.LogOutput != nil:
		out = b.opts.LogOutput
	case cfg.Log.File != "":
		f, err := logging.OpenFile(config.ExpandPath(cfg.Log.File))
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		b.app.logFile = f
		out = f
	}

	b.app.session = uuid.NewString()
	b.app.logger = logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: out,
		Prefix: "vselect",
	}).WithField("session", b.app.session)

	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initDocument loads the buffer from the file or the inline text.
func (b *bootstrapper) initDocument() error {
	opts := []buffer.Option{buffer.WithReadOnly(b.opts.ReadOnly)}

	if b.opts.File == "" {
		b.app.buffer = buffer.NewBufferFromString(b.opts.Text, opts...)
	} else {
		f, err := os.Open(b.opts.File)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		defer f.Close()

		buf, err := buffer.NewBufferFromReader(f, opts...)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		b.app.buffer = buf
		b.app.path = b.opts.File
	}

	b.app.motion = cursor.NewMotion(b.app.buffer)
	b.app.logger.Debug("document loaded: %d lines", b.app.buffer.LineCount())
	b.initOrder = append(b.initOrder, "document")
	return nil
}

// initRegisters creates the register store and its clipboard backend.
func (b *bootstrapper) initRegisters() error {
	out := b.opts.ClipboardOutput
	if out == nil {
		out = os.Stdout
	}
	provider := clipboard.Provider(b.app.config.Clipboard.Provider)
	cb, err := clipboard.New(provider, out)
	if err != nil {
		return &InitError{Component: "clipboard", Err: err}
	}

	b.app.clipboard = cb
	b.app.registers = register.NewStore()
	b.app.registers.SetClipboard(cb)

	b.initOrder = append(b.initOrder, "registers")
	return nil
}

// initKeymap builds the default keymap with the user keymap merged over it.
func (b *bootstrapper) initKeymap() error {
	km, err := buildKeymap(b.app.config.Keymap.Path)
	if err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	b.app.keymap = km
	b.initOrder = append(b.initOrder, "keymap")
	return nil
}

// initActions registers the built-in and Lua actions.
func (b *bootstrapper) initActions() error {
	b.app.actions = action.DefaultRegistry()

	for _, name := range b.app.config.LuaMotionNames() {
		path := config.ExpandPath(b.app.config.Lua.Motions[name])
		la, err := action.LoadLuaFile(name, path)
		if err != nil {
			b.closeLua()
			return &InitError{Component: "lua." + name, Err: err}
		}
		b.app.lua = append(b.app.lua, la)
		b.app.actions.Register(keymap.LuaCommand(name), la)
		b.app.logger.Debug("lua motion %s loaded from %s", name, path)
	}

	b.initOrder = append(b.initOrder, "actions")
	return nil
}

// closeLua closes the loaded Lua states.
func (b *bootstrapper) closeLua() {
	for _, la := range b.app.lua {
		_ = la.Close()
	}
	b.app.lua = nil
}

// initModes registers the modes and enters normal mode.
func (b *bootstrapper) initModes() error {
	cfg := mode.Config{
		Motion:    b.app.motion,
		Keymap:    b.app.keymap,
		Registers: b.app.registers,
		Logger:    b.app.logger,
	}

	b.app.visual = mode.NewVisualMode(cfg, mode.WithUnnamedPlus(b.app.config.Clipboard.UnnamedPlus))

	m := mode.NewManager(cfg, b.app.actions)
	m.Register(mode.NewNormalMode(cfg))
	m.Register(mode.NewInsertMode(cfg))
	m.Register(b.app.visual)
	if err := m.SetInitialMode(context.Background(), mode.ModeNormal); err != nil {
		return &InitError{Component: "modes", Err: err}
	}
	m.OnChange(func(from, to mode.Mode) {
		b.app.logger.Debug("mode %s -> %s", modeName(from), modeName(to))
	})

	b.app.manager = m
	b.initOrder = append(b.initOrder, "modes")
	return nil
}

// initWatcher starts the keymap watcher when requested.
// A watcher that cannot start is logged and skipped.
func (b *bootstrapper) initWatcher() error {
	path := b.app.config.Keymap.Path
	if !b.opts.WatchKeymap || path == "" {
		return nil
	}

	w, err := config.NewWatcher(config.ExpandPath(path), b.app.reloadKeymap,
		config.WithWatcherLogger(b.app.logger.WithComponent("watcher")))
	if err != nil {
		b.app.logger.Warn("keymap watch disabled: %v", err)
		return nil
	}

	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "actions":
		b.closeLua()
	case "logger":
		if b.app.logFile != nil {
			_ = b.app.logFile.Close()
			b.app.logFile = nil
		}
	}
}

// buildKeymap returns the default keymap merged with the keymap at path.
func buildKeymap(path string) (*keymap.Keymap, error) {
	km := keymap.Default()
	if path == "" {
		return km, nil
	}
	user, err := keymap.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	km.Merge(user)
	return km, nil
}

func modeName(m mode.Mode) string {
	if m == nil {
		return "none"
	}
	return m.Name()
}
