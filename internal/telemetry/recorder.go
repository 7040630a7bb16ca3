package telemetry

import (
	"sync"
	"sync/atomic"
)

// Counters is a snapshot of the recorder's instrumentation counters.
type Counters struct {
	// Cycles counts poller loop iterations, including ones that only
	// observed the stop flag.
	Cycles uint64 `json:"cycles"`

	// Publishes counts samples pushed to the host's input subsystem.
	Publishes uint64 `json:"publishes"`

	// Fallbacks counts published samples that carried no sensor data.
	Fallbacks uint64 `json:"fallbacks"`
}

// Recorder tracks the shim's observable state: the last published sample
// and instrumentation counters. The diagnostics API and tests read it;
// pollers write it.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Counter updates are lock-free; sample reads take a short RLock.
type Recorder struct {
	cycles    atomic.Uint64
	publishes atomic.Uint64
	fallbacks atomic.Uint64

	mu      sync.RWMutex
	last    Sample
	serial  string
	hasLast bool

	cbMu     sync.RWMutex
	onSample func(serial string, s Sample)
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Cycle records one poller loop iteration.
func (r *Recorder) Cycle() {
	r.cycles.Add(1)
}

// Publish records one sample pushed to the host and invokes the
// OnSample callback, if any.
func (r *Recorder) Publish(serial string, s Sample) {
	r.publishes.Add(1)
	if !s.Valid {
		r.fallbacks.Add(1)
	}

	r.mu.Lock()
	r.last = s
	r.serial = serial
	r.hasLast = true
	r.mu.Unlock()

	r.cbMu.RLock()
	callback := r.onSample
	r.cbMu.RUnlock()
	if callback != nil {
		callback(serial, s)
	}
}

// Last returns the most recently published sample and the serial of the
// device it belongs to. ok is false before the first publish.
func (r *Recorder) Last() (serial string, s Sample, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.serial, r.last, r.hasLast
}

// Counters returns a snapshot of the instrumentation counters.
func (r *Recorder) Counters() Counters {
	return Counters{
		Cycles:    r.cycles.Load(),
		Publishes: r.publishes.Load(),
		Fallbacks: r.fallbacks.Load(),
	}
}

// SetOnSample sets a callback invoked on every published sample.
// Used by the diagnostics API to stream samples to websocket clients.
// The callback runs on the poller goroutine and must not block.
func (r *Recorder) SetOnSample(fn func(serial string, s Sample)) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	r.onSample = fn
}
