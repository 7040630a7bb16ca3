package openvr

import "errors"

// Sentinel errors for host boundary operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInterfaceNotFound is the standardized "interface not found"
	// result of the driver factory and of GetGenericInterface.
	ErrInterfaceNotFound = errors.New("openvr: interface not found")

	// ErrDeviceActivationFailed is returned by device drivers whose
	// activation did not complete.
	ErrDeviceActivationFailed = errors.New("openvr: device activation failed")

	// ErrInvalidDeviceIndex is returned when a property or input call
	// references a device slot that is not activated.
	ErrInvalidDeviceIndex = errors.New("openvr: invalid device index")
)
