// Package shim implements the eye tracking driver shim.
//
// The Plugin provider boots the vendor sensor runtime, verifies the
// attached headset against the configured hardware allow-list and
// detours the host's device registration slot. Registrations arriving
// from the configured target module are wrapped in a Device decorator
// that publishes eye tracking data through the host's input subsystem
// on a fixed cadence; all other registrations pass through untouched.
//
// Every bootstrap failure is non-fatal: the plugin stays resident
// unshimmed so the host continues operating its remaining drivers.
package shim
