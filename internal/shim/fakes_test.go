package shim

import (
	"fmt"
	"sync"

	"github.com/tallowisp/gazeshim/internal/openvr"
)

// fakeInner is a hand-rolled vendor device driver.
type fakeInner struct {
	mu          sync.Mutex
	activateErr error
	activations []openvr.DeviceIndex
	deactivated int
	standby     int
	component   any
	pose        openvr.Pose
	debugResp   string
}

func (f *fakeInner) Activate(objectID openvr.DeviceIndex) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activations = append(f.activations, objectID)
	return nil
}

func (f *fakeInner) Deactivate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated++
}

func (f *fakeInner) EnterStandby() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.standby++
}

func (f *fakeInner) GetComponent(string) any    { return f.component }
func (f *fakeInner) GetPose() openvr.Pose       { return f.pose }
func (f *fakeInner) DebugRequest(string) string { return f.debugResp }

// fakeProps records property writes.
type fakeProps struct {
	mu    sync.Mutex
	bools map[openvr.PropertyContainerHandle]map[openvr.Property]bool
}

func newFakeProps() *fakeProps {
	return &fakeProps{bools: make(map[openvr.PropertyContainerHandle]map[openvr.Property]bool)}
}

func (f *fakeProps) TrackedDeviceToPropertyContainer(index openvr.DeviceIndex) openvr.PropertyContainerHandle {
	return openvr.PropertyContainerHandle(1000 + uint64(index))
}

func (f *fakeProps) SetBoolProperty(container openvr.PropertyContainerHandle, prop openvr.Property, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bools[container] == nil {
		f.bools[container] = make(map[openvr.Property]bool)
	}
	f.bools[container][prop] = value
	return nil
}

func (f *fakeProps) boolProperty(container openvr.PropertyContainerHandle, prop openvr.Property) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.bools[container][prop]
	return v, ok
}

// fakeInput records component creation and updates.
type fakeInput struct {
	mu        sync.Mutex
	createErr error
	created   []string
	updates   []openvr.EyeTrackingData
}

func (f *fakeInput) CreateEyeTrackingComponent(container openvr.PropertyContainerHandle, name string) (openvr.InputComponentHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, name)
	return openvr.InputComponentHandle(len(f.created)), nil
}

func (f *fakeInput) UpdateEyeTrackingComponent(component openvr.InputComponentHandle, data openvr.EyeTrackingData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, data)
	return nil
}

func (f *fakeInput) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeInput) lastUpdate() (openvr.EyeTrackingData, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil, false
	}
	return f.updates[len(f.updates)-1], true
}

// registeredDevice is one registration the fake host accepted.
type registeredDevice struct {
	serial string
	class  openvr.DeviceClass
	device openvr.TrackedDeviceServer
}

// fakeHost is a simulated server driver host: a patchable dispatch
// table whose registration method invokes slot 0 directly.
type fakeHost struct {
	mu         sync.Mutex
	slots      map[int]any
	accept     bool
	registered []registeredDevice
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		slots:  make(map[int]any),
		accept: true,
	}
	h.slots[openvr.TrackedDeviceAddedSlot] = openvr.TrackedDeviceAddedFunc(
		func(host openvr.ServerDriverHost, serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.registered = append(h.registered, registeredDevice{serial: serial, class: class, device: device})
			return h.accept
		})
	return h
}

func (h *fakeHost) Slot(index int) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn, ok := h.slots[index]
	if !ok {
		return nil, fmt.Errorf("no slot %d", index)
	}
	return fn, nil
}

func (h *fakeHost) SetSlot(index int, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.slots[index]; !ok {
		return fmt.Errorf("no slot %d", index)
	}
	h.slots[index] = fn
	return nil
}

func (h *fakeHost) TrackedDeviceAdded(serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
	fn, err := h.Slot(openvr.TrackedDeviceAddedSlot)
	if err != nil {
		return false
	}
	return fn.(openvr.TrackedDeviceAddedFunc)(h, serial, class, device)
}

func (h *fakeHost) registrations() []registeredDevice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]registeredDevice, len(h.registered))
	copy(out, h.registered)
	return out
}

// eagerHost drives a registration through a freshly patched slot before
// SetSlot returns, the way a concurrent host thread can the instant the
// swap lands.
type eagerHost struct {
	*fakeHost
	eagerSerial string
}

func (h *eagerHost) SetSlot(index int, fn any) error {
	if err := h.fakeHost.SetSlot(index, fn); err != nil {
		return err
	}
	if added, ok := fn.(openvr.TrackedDeviceAddedFunc); ok {
		added(h, h.eagerSerial, openvr.DeviceClassController, &fakeInner{})
	}
	return nil
}

// fakeContext resolves generic interfaces from a fixed map.
type fakeContext struct {
	interfaces map[string]any
}

func (c *fakeContext) GetGenericInterface(name string) (any, error) {
	obj, ok := c.interfaces[name]
	if !ok {
		return nil, openvr.ErrInterfaceNotFound
	}
	return obj, nil
}
