package telemetry

import (
	"testing"
	"time"
)

func TestPublisherNilSinks(t *testing.T) {
	p := NewPublisher(nil, nil, 40, nil)

	// Nothing to assert beyond "does not panic": both sinks are absent.
	p.PublishSample("HMD-1", Fallback())
	p.PublishEvent("activated", map[string]any{"serial": "HMD-1"})
}

func TestActivityLifecycle(t *testing.T) {
	p := NewPublisher(nil, nil, 0, nil)

	a := p.StartActivity("hook_install")
	if a.ID() == "" {
		t.Error("activity ID is empty")
	}
	time.Sleep(time.Millisecond)
	a.End(map[string]any{"interface": "IVRServerDriverHost_006"})

	b := p.StartActivity("hook_install")
	if b.ID() == a.ID() {
		t.Error("consecutive activities share an ID")
	}
}

func TestPublisherMirrorEveryDisabled(t *testing.T) {
	p := NewPublisher(nil, nil, 0, nil)
	for i := 0; i < 10; i++ {
		p.PublishSample("HMD-1", Fallback())
	}
	if got := p.seq.Load(); got != 10 {
		t.Errorf("sequence counter = %d, want 10", got)
	}
}
