package hostsim

import (
	"sync"

	"github.com/tallowisp/gazeshim/internal/openvr"
)

// containerBase keeps container handles visibly distinct from device
// indices in logs and debug output.
const containerBase = 0x2000

// PropertyStore is the host's device property system.
type PropertyStore struct {
	mu    sync.Mutex
	bools map[openvr.PropertyContainerHandle]map[openvr.Property]bool
}

// NewPropertyStore creates an empty property store.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{
		bools: make(map[openvr.PropertyContainerHandle]map[openvr.Property]bool),
	}
}

// TrackedDeviceToPropertyContainer maps a device index to its property
// container. The mapping is stable for the life of the host.
func (p *PropertyStore) TrackedDeviceToPropertyContainer(index openvr.DeviceIndex) openvr.PropertyContainerHandle {
	return openvr.PropertyContainerHandle(containerBase + uint64(index))
}

// SetBoolProperty sets a boolean property on a container.
func (p *PropertyStore) SetBoolProperty(container openvr.PropertyContainerHandle, prop openvr.Property, value bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bools[container] == nil {
		p.bools[container] = make(map[openvr.Property]bool)
	}
	p.bools[container][prop] = value
	return nil
}

// BoolProperty reads a boolean property back. ok is false when the
// property was never set.
func (p *PropertyStore) BoolProperty(container openvr.PropertyContainerHandle, prop openvr.Property) (value, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok = p.bools[container][prop]
	return value, ok
}
