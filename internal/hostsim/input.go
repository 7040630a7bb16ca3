package hostsim

import (
	"errors"
	"sync"

	"github.com/tallowisp/gazeshim/internal/openvr"
)

// ErrUnknownComponent is returned for updates against a handle the
// input subsystem never issued.
var ErrUnknownComponent = errors.New("hostsim: unknown input component")

// component is one registered input component.
type component struct {
	container openvr.PropertyContainerHandle
	name      string

	updates uint64
	last    openvr.EyeTrackingData
}

// InputSubsystem is the host's internal input surface. It issues
// component handles and records every update pushed through them, so
// the harness and diagnostics API can observe the published stream.
type InputSubsystem struct {
	mu         sync.Mutex
	nextHandle openvr.InputComponentHandle
	components map[openvr.InputComponentHandle]*component
}

// NewInputSubsystem creates an empty input subsystem.
func NewInputSubsystem() *InputSubsystem {
	return &InputSubsystem{
		nextHandle: 1,
		components: make(map[openvr.InputComponentHandle]*component),
	}
}

// CreateEyeTrackingComponent registers an eye tracking component on a
// property container and returns its handle.
func (s *InputSubsystem) CreateEyeTrackingComponent(container openvr.PropertyContainerHandle, name string) (openvr.InputComponentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := s.nextHandle
	s.nextHandle++
	s.components[handle] = &component{container: container, name: name}
	return handle, nil
}

// UpdateEyeTrackingComponent pushes one sample into a component.
func (s *InputSubsystem) UpdateEyeTrackingComponent(handle openvr.InputComponentHandle, data openvr.EyeTrackingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.components[handle]
	if !ok {
		return ErrUnknownComponent
	}
	c.updates++
	c.last = data
	return nil
}

// ComponentCount returns the number of registered components.
func (s *InputSubsystem) ComponentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.components)
}

// UpdateCount returns the total updates across all components.
func (s *InputSubsystem) UpdateCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total uint64
	for _, c := range s.components {
		total += c.updates
	}
	return total
}

// LastUpdate returns the most recent sample pushed into the named
// component on any container. ok is false when no update arrived yet.
func (s *InputSubsystem) LastUpdate(name string) (openvr.EyeTrackingData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.components {
		if c.name == name && c.updates > 0 {
			return c.last, true
		}
	}
	return nil, false
}
