// Package hostsim provides an in-process server driver host for the
// harness binary and integration tests.
//
// The Host owns the device registry, property store and input
// subsystem, all reachable through generic-interface lookup. Its
// registration surface is a patchable dispatch table, so the shim's
// detour installs against it exactly as it would against a real host.
package hostsim
