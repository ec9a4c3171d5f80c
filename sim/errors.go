package sim

import "errors"

// NOTE ON NAMING
// --------------
// Every message is prefixed with "sim: ...". The sentinels below are
// returned wrapped (fmt.Errorf("...: %w", ErrX)) with the run-specific
// context, so callers match them with errors.Is.

var (
	// ErrDataFilesExist indicates output files from an earlier run are in
	// the way and neither Clean nor Restart was requested.
	ErrDataFilesExist = errors.New("sim: data files exist")

	// ErrUnknownQuantity indicates a gathered column that is not covered
	// by the writer's schema.
	ErrUnknownQuantity = errors.New("sim: unknown quantity")

	// ErrUnknownAction indicates a schedule action name with no matching
	// abbreviation.
	ErrUnknownAction = errors.New("sim: unknown action")

	// ErrDuplicateAction indicates the same action scheduled twice; combine
	// the triggers with When.Or instead.
	ErrDuplicateAction = errors.New("sim: duplicate action")

	// ErrZeroTorque indicates the integration ran into the advance-time
	// ceiling, which usually means a zero-torque starting configuration.
	ErrZeroTorque = errors.New("sim: zero torque configuration suspected")
)
