package openvr

// Names under which hosts expose their generic interfaces.
const (
	// ServerDriverHostInterface is the registration surface the shim
	// detours. The target driver uses the 006 flavor.
	ServerDriverHostInterface = "IVRServerDriverHost_006"

	// PropertiesInterface is the device property system.
	PropertiesInterface = "IVRProperties_001"

	// DriverInputInternalInterface is the internal input subsystem.
	// The name is fixed but undocumented.
	DriverInputInternalInterface = "IVRDriverInputInternal_XXX"
)

// TrackedDeviceAddedSlot is the dispatch-table slot of TrackedDeviceAdded
// on ServerDriverHostInterface.
const TrackedDeviceAddedSlot = 0

// DriverContext is the host context handed to a driver provider at Init.
// Every other host surface is resolved through it by name.
type DriverContext interface {
	// GetGenericInterface resolves a host interface by versioned name.
	// Returns ErrInterfaceNotFound if the host does not expose the name.
	GetGenericInterface(name string) (any, error)
}

// ServerDriverHost is the host surface a device driver registers its
// devices with.
type ServerDriverHost interface {
	// TrackedDeviceAdded registers a new device. The returned bool is the
	// host's acceptance status and must be passed through unchanged by
	// any interceptor.
	TrackedDeviceAdded(serial string, class DeviceClass, device TrackedDeviceServer) bool
}

// TrackedDeviceAddedFunc is the signature of TrackedDeviceAddedSlot.
// The host parameter is the dispatching host itself, so replacements can
// reach host state without capturing it.
type TrackedDeviceAddedFunc func(host ServerDriverHost, serial string, class DeviceClass, device TrackedDeviceServer) bool

// TrackedDeviceServer is the capability set of a registered device.
// A decorator must implement all of it and forward what it does not override.
type TrackedDeviceServer interface {
	// Activate is called by the host when the device enters service.
	// objectID is the host-assigned device slot, valid until Deactivate.
	Activate(objectID DeviceIndex) error

	// Deactivate is called by the host when the device leaves service.
	Deactivate()

	// EnterStandby notifies the device of host standby.
	EnterStandby()

	// GetComponent resolves a device sub-component by versioned name.
	// Returns nil when the component is not provided.
	GetComponent(nameAndVersion string) any

	// GetPose returns the device's current pose.
	GetPose() Pose

	// DebugRequest handles an opaque debug string and returns the response.
	DebugRequest(request string) string
}

// ServerTrackedDeviceProvider is the top-level plugin object the host
// obtains through the driver factory.
type ServerTrackedDeviceProvider interface {
	// Init is called once with the host context. A provider that cannot
	// offer its feature set must still return nil so the host keeps
	// operating the rest of its plugin set.
	Init(ctx DriverContext) error

	// Cleanup releases everything Init acquired.
	Cleanup()

	// InterfaceVersions lists the host interface versions the provider
	// was built against.
	InterfaceVersions() []string

	// RunFrame is called once per host frame.
	RunFrame()

	// ShouldBlockStandbyMode reports whether the provider vetoes standby.
	ShouldBlockStandbyMode() bool

	// EnterStandby and LeaveStandby bracket host standby.
	EnterStandby()
	LeaveStandby()
}

// PropertyStore is the host's device property system.
type PropertyStore interface {
	// TrackedDeviceToPropertyContainer maps an activated device slot to
	// its property container.
	TrackedDeviceToPropertyContainer(index DeviceIndex) PropertyContainerHandle

	// SetBoolProperty sets a boolean device property.
	SetBoolProperty(container PropertyContainerHandle, prop Property, value bool) error
}

// Property identifies a device property.
type Property int32

// PropSupportsEyeTracking advertises that the device publishes eye
// tracking data. Undocumented; the numeric value is what hosts match on.
const PropSupportsEyeTracking Property = 6009
