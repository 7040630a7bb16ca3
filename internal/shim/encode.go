package shim

import (
	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// encodeSample serialises a sample into the wire shape selected by the
// protocol_variant setting.
//
// The packed variant collapses the state booleans into the two flag
// words the input subsystem expects: 0x0101 when tracking, zero
// otherwise. The split variant carries the booleans individually plus
// an origin (always the head-frame origin here) and a target point one
// unit along the gaze direction.
func encodeSample(variant string, s telemetry.Sample) openvr.EyeTrackingData {
	switch variant {
	case config.ProtocolSplit:
		return openvr.SplitEyeTrackingData{
			Valid:   s.Valid,
			Tracked: s.Tracked,
			Active:  s.Active,
			Origin:  openvr.Vec3{},
			Target:  s.Direction,
		}
	default:
		var flags uint16
		var flagsEx uint8
		if s.Valid {
			flags = openvr.PackedFlagsValid
			flagsEx = openvr.PackedFlagsExValid
		}
		return openvr.PackedEyeTrackingData{
			Flags:   flags,
			FlagsEx: flagsEx,
			Gaze:    s.Direction,
		}
	}
}
