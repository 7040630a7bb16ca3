package openvr

// EyeTrackingComponentPath is the logical path of the eye tracking input
// component. The host matches on the exact string; it must not vary.
const EyeTrackingComponentPath = "/eyetracking"

// DriverInputInternal is the host's internal input subsystem.
//
// Resolved through DriverContext.GetGenericInterface with
// DriverInputInternalInterface. The interface is undocumented and its
// shape differs across host generations; see EyeTrackingData.
type DriverInputInternal interface {
	// CreateEyeTrackingComponent creates the eye tracking component in the
	// given property container under the fixed component path.
	CreateEyeTrackingComponent(container PropertyContainerHandle, name string) (InputComponentHandle, error)

	// UpdateEyeTrackingComponent pushes one sample to the component.
	// Called every poll cycle, including for invalid fallback samples:
	// absence of data is itself a published state.
	UpdateEyeTrackingComponent(component InputComponentHandle, data EyeTrackingData) error
}

// EyeTrackingData is one published sample in one of the two known host
// wire shapes.
type EyeTrackingData interface {
	eyeTrackingData()
}

// Bit patterns observed in the packed wire shape when data is present.
// The meaning of the individual bits is not fully understood; the whole
// pattern means "there is data to pass".
const (
	PackedFlagsValid   uint16 = 0x0101
	PackedFlagsExValid uint8  = 0x01
)

// PackedEyeTrackingData is the packed wire shape: two bit-flag fields and
// a single gaze direction. Current host generations consume this shape.
type PackedEyeTrackingData struct {
	Flags   uint16
	FlagsEx uint8
	Gaze    Vec3
}

func (PackedEyeTrackingData) eyeTrackingData() {}

// SplitEyeTrackingData is the older wire shape: explicit status booleans
// plus gaze origin and target vectors.
type SplitEyeTrackingData struct {
	Valid   bool
	Tracked bool
	Active  bool
	Origin  Vec3
	Target  Vec3
}

func (SplitEyeTrackingData) eyeTrackingData() {}
