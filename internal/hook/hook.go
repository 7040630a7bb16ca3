package hook

import (
	"fmt"
	"sync"

	"github.com/tallowisp/gazeshim/internal/openvr"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Table is the dispatch-table contract a host interface must satisfy to
// be patchable: numbered slots holding function values.
type Table interface {
	// Slot returns the function currently installed in the given slot.
	Slot(index int) (any, error)

	// SetSlot replaces the function in the given slot.
	SetSlot(index int, fn any) error
}

// Registration records one installed detour. Immutable once installed.
type Registration struct {
	// Interface is the generic-interface name the slot was resolved on.
	Interface string

	// Slot is the dispatch-table slot index.
	Slot int

	// Original is the trampoline: the function that occupied the slot
	// before installation, invokable with identical arguments.
	Original any

	// Detour is the replacement now occupying the slot.
	Detour any
}

// slotKey identifies one dispatch slot.
type slotKey struct {
	iface string
	slot  int
}

// Registry maps (interface identity, slot) to (original, replacement)
// and performs slot substitution against a host's dispatch tables.
//
// Installation is attempted at most once per slot: a second install
// request is a no-op that returns the already-preserved trampoline.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Registry struct {
	mu      sync.Mutex
	entries map[slotKey]*Registration
	logger  Logger
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[slotKey]*Registration),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Install resolves interfaceName through the host's generic-interface
// lookup, builds the replacement slot function through makeDetour and
// swaps it into dispatch slot slotIndex, returning the trampoline to
// the original slot function.
//
// makeDetour receives the original slot function before the swap. The
// replacement it returns must be self-contained: a concurrent host
// thread can invoke the slot the instant it is patched, before Install
// returns, so the detour cannot rely on state assigned after the call.
// A makeDetour error aborts the install with the slot untouched.
//
// Failure to resolve or patch the interface is reported to the caller,
// who treats it as non-fatal: the system continues unshimmed and the
// host's own behavior is unaffected.
//
// Parameters:
//   - ctx: Host context used for interface resolution
//   - interfaceName: Versioned generic-interface name
//   - slotIndex: Dispatch-table slot to replace
//   - makeDetour: Builds the replacement from the original slot function
//
// Returns:
//   - any: Trampoline to the original slot function
//   - error: If the interface cannot be resolved or is not patchable
func (r *Registry) Install(ctx openvr.DriverContext, interfaceName string, slotIndex int, makeDetour func(original any) (any, error)) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey{iface: interfaceName, slot: slotIndex}
	if existing, ok := r.entries[key]; ok {
		r.logger.Debug("hook already installed, ignoring",
			"interface", interfaceName,
			"slot", slotIndex,
		)
		return existing.Original, nil
	}

	obj, err := ctx.GetGenericInterface(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", interfaceName, err)
	}

	table, ok := obj.(Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPatchable, interfaceName)
	}

	original, err := table.Slot(slotIndex)
	if err != nil {
		return nil, fmt.Errorf("reading slot %d of %s: %w", slotIndex, interfaceName, err)
	}

	detour, err := makeDetour(original)
	if err != nil {
		return nil, fmt.Errorf("building detour for slot %d of %s: %w", slotIndex, interfaceName, err)
	}

	if err := table.SetSlot(slotIndex, detour); err != nil {
		return nil, fmt.Errorf("patching slot %d of %s: %w", slotIndex, interfaceName, err)
	}

	r.entries[key] = &Registration{
		Interface: interfaceName,
		Slot:      slotIndex,
		Original:  original,
		Detour:    detour,
	}

	r.logger.Info("hook installed",
		"interface", interfaceName,
		"slot", slotIndex,
	)

	return original, nil
}

// Installed reports whether a detour occupies the given slot.
func (r *Registry) Installed(interfaceName string, slotIndex int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[slotKey{iface: interfaceName, slot: slotIndex}]
	return ok
}

// Registrations returns a snapshot of all installed hooks.
func (r *Registry) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, *reg)
	}
	return out
}
