package sensor

import "errors"

// Sentinel errors for sensor runtime operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotInitialised is returned when a session is requested before
	// the runtime is initialised.
	ErrNotInitialised = errors.New("sensor: runtime not initialised")

	// ErrNoHardware is returned when no supported sensor hardware is
	// attached.
	ErrNoHardware = errors.New("sensor: no hardware attached")

	// ErrQueryFailed is returned when an eye tracking query fails.
	// Per-cycle failures are non-fatal; pollers publish a fallback sample.
	ErrQueryFailed = errors.New("sensor: eye tracking query failed")
)
