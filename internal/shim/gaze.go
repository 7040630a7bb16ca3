package shim

import (
	"math"

	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/sensor"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// deriveSample converts one sensor reading into a combined-gaze sample.
//
// The sensor reports per-eye gaze as tangents of the horizontal and
// vertical deflection angles. The two eyes are averaged in tangent
// space, converted back to angles, and projected onto a unit vector in
// the head frame, where -Z points out of the user's face.
//
// A reading with a non-positive timestamp means the sensor produced no
// fresh data for this cycle; the neutral fallback sample is returned so
// the host sees an explicit "not tracking" state rather than a stale
// direction.
func deriveSample(info sensor.EyeTrackingInfo) telemetry.Sample {
	if info.TimeSeconds <= 0 {
		return telemetry.Fallback()
	}

	left := info.GazeTan[sensor.EyeLeft]
	right := info.GazeTan[sensor.EyeRight]

	yaw := math.Atan(float64(left.X+right.X) / 2)
	pitch := math.Atan(float64(left.Y+right.Y) / 2)

	sinYaw, cosYaw := math.Sin(yaw), math.Cos(yaw)
	sinPitch, cosPitch := math.Sin(pitch), math.Cos(pitch)

	dir := openvr.Vec3{
		X: float32(sinYaw * cosPitch),
		Y: float32(sinPitch),
		Z: float32(-cosYaw * cosPitch),
	}.Normalize()

	return telemetry.Sample{
		Valid:      true,
		Tracked:    true,
		Active:     true,
		Direction:  dir,
		Pitch:      float32(pitch),
		Yaw:        float32(yaw),
		SensorTime: info.TimeSeconds,
	}
}
