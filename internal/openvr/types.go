package openvr

import "math"

// DeviceClass identifies the kind of device being registered with the host.
type DeviceClass int32

// Device classes, numbered as the host numbers them.
const (
	DeviceClassInvalid           DeviceClass = 0
	DeviceClassHMD               DeviceClass = 1
	DeviceClassController        DeviceClass = 2
	DeviceClassGenericTracker    DeviceClass = 3
	DeviceClassTrackingReference DeviceClass = 4
)

// String returns a short name for the device class.
func (c DeviceClass) String() string {
	switch c {
	case DeviceClassHMD:
		return "hmd"
	case DeviceClassController:
		return "controller"
	case DeviceClassGenericTracker:
		return "generic_tracker"
	case DeviceClassTrackingReference:
		return "tracking_reference"
	default:
		return "invalid"
	}
}

// DeviceIndex is the host-assigned slot of an activated device.
type DeviceIndex uint32

// InvalidDeviceIndex marks a device that is not currently activated.
const InvalidDeviceIndex DeviceIndex = 0xFFFFFFFF

// PropertyContainerHandle identifies a device's property container.
type PropertyContainerHandle uint64

// InputComponentHandle identifies a component created through the input
// subsystem.
type InputComponentHandle uint64

// Vec3 is a 3-component vector in the host's tracking space.
// The baseline forward direction is -Z.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Forward is the identity gaze direction, straight ahead.
var Forward = Vec3{X: 0, Y: 0, Z: -1}

// Normalize returns the unit vector pointing in the same direction.
// The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	mag := math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y) + float64(v.Z)*float64(v.Z))
	if mag == 0 {
		return v
	}
	return Vec3{
		X: float32(float64(v.X) / mag),
		Y: float32(float64(v.Y) / mag),
		Z: float32(float64(v.Z) / mag),
	}
}

// Pose is a device pose as reported by a device driver. Only the fields
// the shim forwards are modelled.
type Pose struct {
	Position          Vec3
	Rotation          [4]float32
	PoseIsValid       bool
	DeviceIsConnected bool
}
