package lua

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed Lua state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoPluginTable is returned when a script does not assign the
	// global plugin table.
	ErrNoPluginTable = errors.New("no plugin table defined")
)
