// Package hook performs runtime interface substitution against host
// dispatch tables.
//
// A detour replaces one numbered slot of a named host interface; the
// function previously occupying the slot is preserved as a trampoline so
// the replacement can always delegate to the original with identical
// arguments. The Registry maps (interface identity, slot) to
// (original, replacement) and guarantees at-most-once installation.
//
// Hooks are never removed once installed; the registration is immutable
// for the life of the process.
//
// Failure to resolve the named interface is non-fatal by policy: callers
// log it and continue unshimmed, leaving the host's own behavior
// untouched.
package hook
