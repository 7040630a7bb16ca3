package telemetry

import "github.com/tallowisp/gazeshim/internal/openvr"

// Sample is one derived gaze sample, as published to the host's input
// subsystem. Samples are transient: produced each poll cycle, never
// persisted.
type Sample struct {
	// Valid, Tracked and Active report whether the sensor produced
	// usable data this cycle. A fallback sample has all three cleared.
	Valid   bool `json:"valid"`
	Tracked bool `json:"tracked"`
	Active  bool `json:"active"`

	// Direction is the unit gaze direction, -Z forward.
	Direction openvr.Vec3 `json:"direction"`

	// Pitch and Yaw are the derived gaze angles in radians.
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`

	// SensorTime is the raw sample's timestamp against the sensor
	// runtime's time reference, zero for fallback samples.
	SensorTime float64 `json:"sensor_time"`
}

// Fallback returns the sample published when the sensor reports no
// usable data: validity flags cleared, direction straight ahead.
func Fallback() Sample {
	return Sample{Direction: openvr.Forward}
}
