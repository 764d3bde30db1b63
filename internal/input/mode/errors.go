package mode

import "errors"

// Errors returned by the mode manager.
var (
	// ErrUnknownMode is returned when switching to an unregistered mode.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoMode is returned when a key arrives before a mode is set.
	ErrNoMode = errors.New("no current mode")

	// ErrCurrentMode is returned when unregistering the current mode.
	ErrCurrentMode = errors.New("cannot unregister current mode")
)
