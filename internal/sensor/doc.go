// Package sensor defines the boundary to the eye tracking vendor SDK.
//
// The real SDK is an external collaborator; this package declares the
// Runtime/Session contract the shim depends on and provides Simulator,
// an in-process implementation used by the harness binary and tests.
//
// # Lifecycle
//
// The plugin bootstrap owns the only Runtime and Session per process:
// Initialise and CreateSession happen once during detection, Destroy and
// Shutdown during host-driven cleanup. Sessions are stateless per query
// and shared read-only by every active poller.
package sensor
