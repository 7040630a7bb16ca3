// Package openvr models the boundary of the OpenVR-style driver host that
// the gaze shim runs inside.
//
// The host itself is an external collaborator: this package only declares
// the contracts the shim depends on, in Go terms.
//
//   - DriverContext: the host's generic-interface lookup, the single entry
//     point for resolving every other host surface by name.
//   - ServerDriverHost / TrackedDeviceAddedFunc: the device-registration
//     surface whose dispatch slot the shim detours.
//   - TrackedDeviceServer: the capability set every registered device
//     implements, and therefore the set a decorator must forward.
//   - PropertyStore and DriverInputInternal: the property system and the
//     undocumented input subsystem the poller publishes through.
//
// # Dispatch contract
//
// Hosts expose the registration surface both as a plain interface and as a
// numbered dispatch table (see the hook package). The host's registration
// method invokes the table slot directly, with no intermediate frames, so a
// detour installed in a slot observes its external caller exactly two
// stack frames above itself.
//
// # Wire formats
//
// Two mutually incompatible sample shapes exist across host generations:
// PackedEyeTrackingData (bit flags plus a single gaze vector, the shape
// current hosts consume) and SplitEyeTrackingData (three booleans plus
// origin/target vectors). Which one a deployment needs is selected by
// configuration; both are defined here because neither is documented as
// canonical.
package openvr
