package sensor

// Eye indices into per-eye measurement arrays.
const (
	EyeLeft  = 0
	EyeRight = 1
)

// Vec2 is a per-eye gaze measurement: the tangent of the gaze angle on
// the horizontal (X) and vertical (Y) axes.
type Vec2 struct {
	X float32
	Y float32
}

// HmdInfo identifies the attached headset.
type HmdInfo struct {
	VendorID  uint16
	ProductID uint16
}

// EyeTrackingInfo is one raw sample from the sensor.
//
// TimeSeconds is the sample timestamp against the runtime's time
// reference. A zero or negative timestamp means the sensor produced no
// usable data for the query.
type EyeTrackingInfo struct {
	TimeSeconds float64
	GazeTan     [2]Vec2
}

// Runtime is the vendor SDK environment. Opened once per process by the
// plugin bootstrap and shared read-only afterwards.
type Runtime interface {
	// Initialise prepares the runtime. Must be called before CreateSession.
	Initialise() error

	// CreateSession opens a session against the attached hardware.
	CreateSession() (Session, error)

	// TimeSeconds returns the runtime's current time reference.
	TimeSeconds() float64

	// Shutdown tears the runtime down. The runtime is unusable afterwards.
	Shutdown()
}

// Session is an open sensor session. Queries are stateless and safe to
// issue from multiple pollers concurrently.
type Session interface {
	// HmdInfo queries the attached headset's vendor and product identifiers.
	HmdInfo() (HmdInfo, error)

	// EyeTracking queries the latest sample timestamped against the given
	// runtime time. A failed query returns promptly with an error rather
	// than blocking.
	EyeTracking(atSeconds float64) (EyeTrackingInfo, error)

	// Destroy closes the session.
	Destroy()
}
