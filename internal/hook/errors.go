package hook

import "errors"

// Sentinel errors for hook installation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotPatchable is returned when a resolved interface does not
	// expose the dispatch-table contract.
	ErrNotPatchable = errors.New("hook: interface is not a dispatch table")

	// ErrBadSlot is returned by dispatch tables for out-of-range slots.
	ErrBadSlot = errors.New("hook: slot index out of range")
)
