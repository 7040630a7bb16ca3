package sensor

import (
	"math"
	"sync"
	"time"
)

// SimulatorConfig configures the simulated sensor runtime.
type SimulatorConfig struct {
	// VendorID and ProductID are what HmdInfo reports.
	VendorID  uint16
	ProductID uint16

	// Amplitude is the peak gaze tangent of the generated sweep.
	// Default: 0.25.
	Amplitude float32

	// Frequency is the sweep frequency in Hz. Default: 0.5.
	Frequency float64
}

// Simulator is an in-process sensor runtime producing a deterministic
// horizontal gaze sweep. It stands in for the vendor SDK in the harness
// binary and in tests.
//
// Thread Safety:
//   - All methods are safe for concurrent use; pollers query sessions
//     while tests adjust injected failures.
type Simulator struct {
	cfg   SimulatorConfig
	start time.Time

	mu            sync.Mutex
	initialised   bool
	initErr       error
	sessionErr    error
	hmdInfoErr    error
	trackingErr   error
	zeroTimestamp bool
	fixedGaze     *[2]Vec2
	queries       int
}

// NewSimulator creates a simulated runtime.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.Amplitude == 0 {
		cfg.Amplitude = 0.25
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = 0.5
	}
	return &Simulator{
		cfg:   cfg,
		start: time.Now(),
	}
}

// Initialise prepares the simulated runtime.
func (s *Simulator) Initialise() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return s.initErr
	}
	s.initialised = true
	return nil
}

// CreateSession opens a simulated session.
func (s *Simulator) CreateSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialised {
		return nil, ErrNotInitialised
	}
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return &simSession{sim: s}, nil
}

// TimeSeconds returns seconds since the simulator was created.
func (s *Simulator) TimeSeconds() float64 {
	return time.Since(s.start).Seconds()
}

// Shutdown tears the simulated runtime down.
func (s *Simulator) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialised = false
}

// QueryCount returns the number of eye tracking queries served so far.
func (s *Simulator) QueryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// SetInitialiseError injects a failure into Initialise.
func (s *Simulator) SetInitialiseError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initErr = err
}

// SetSessionError injects a failure into CreateSession.
func (s *Simulator) SetSessionError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionErr = err
}

// SetHmdInfoError injects a failure into Session.HmdInfo.
func (s *Simulator) SetHmdInfoError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hmdInfoErr = err
}

// SetEyeTrackingError injects a failure into Session.EyeTracking.
func (s *Simulator) SetEyeTrackingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackingErr = err
}

// SetZeroTimestamp makes queries report a zero timestamp, the sensor's
// way of signalling "no usable data" without failing.
func (s *Simulator) SetZeroTimestamp(zero bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zeroTimestamp = zero
}

// SetFixedGaze pins both eyes to the given measurements instead of the
// generated sweep. Pass nil values via ClearFixedGaze to resume sweeping.
func (s *Simulator) SetFixedGaze(left, right Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedGaze = &[2]Vec2{left, right}
}

// ClearFixedGaze resumes the generated sweep.
func (s *Simulator) ClearFixedGaze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedGaze = nil
}

// simSession is the Session implementation backed by a Simulator.
type simSession struct {
	sim *Simulator
}

func (ss *simSession) HmdInfo() (HmdInfo, error) {
	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	if ss.sim.hmdInfoErr != nil {
		return HmdInfo{}, ss.sim.hmdInfoErr
	}
	return HmdInfo{
		VendorID:  ss.sim.cfg.VendorID,
		ProductID: ss.sim.cfg.ProductID,
	}, nil
}

func (ss *simSession) EyeTracking(atSeconds float64) (EyeTrackingInfo, error) {
	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()

	ss.sim.queries++

	if ss.sim.trackingErr != nil {
		return EyeTrackingInfo{}, ss.sim.trackingErr
	}
	if ss.sim.zeroTimestamp {
		return EyeTrackingInfo{TimeSeconds: 0}, nil
	}

	gaze := ss.sim.sweep(atSeconds)
	if ss.sim.fixedGaze != nil {
		gaze = *ss.sim.fixedGaze
	}

	return EyeTrackingInfo{
		TimeSeconds: atSeconds,
		GazeTan:     gaze,
	}, nil
}

func (ss *simSession) Destroy() {}

// sweep generates the horizontal gaze sweep for the given time.
// Both eyes report the same measurement; real sensors differ slightly,
// which is why consumers average them.
func (s *Simulator) sweep(atSeconds float64) [2]Vec2 {
	tan := s.cfg.Amplitude * float32(math.Sin(2*math.Pi*s.cfg.Frequency*atSeconds))
	eye := Vec2{X: tan, Y: 0}
	return [2]Vec2{eye, eye}
}
