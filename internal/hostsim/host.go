package hostsim

import (
	"fmt"
	"sync"

	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
)

// RegisteredDevice is one device the host accepted.
type RegisteredDevice struct {
	Serial string
	Class  openvr.DeviceClass
	Index  openvr.DeviceIndex
	Device openvr.TrackedDeviceServer
}

// Host is an in-process server driver host: it owns the device registry,
// the property store and the input subsystem, and exposes all of them
// through generic-interface lookup the way a real host does.
//
// Its registration surface is a patchable dispatch table. The public
// TrackedDeviceAdded method reads the current slot function and invokes
// it directly, so a detour installed in the slot sees the registering
// code exactly one stack frame above the host method.
type Host struct {
	logger *logging.Logger

	mu        sync.Mutex
	slots     map[int]any
	devices   []RegisteredDevice
	nextIndex openvr.DeviceIndex

	properties *PropertyStore
	input      *InputSubsystem
}

// NewHost creates a host with an unpatched registration table.
func NewHost(logger *logging.Logger) *Host {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Host{
		logger:     logger,
		slots:      make(map[int]any),
		properties: NewPropertyStore(),
		input:      NewInputSubsystem(),
	}
	h.slots[openvr.TrackedDeviceAddedSlot] = openvr.TrackedDeviceAddedFunc(
		func(host openvr.ServerDriverHost, serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
			return h.registerDevice(serial, class, device)
		})
	return h
}

// GetGenericInterface resolves the host's surfaces by versioned name.
func (h *Host) GetGenericInterface(name string) (any, error) {
	switch name {
	case openvr.ServerDriverHostInterface:
		return h, nil
	case openvr.PropertiesInterface:
		return h.properties, nil
	case openvr.DriverInputInternalInterface:
		return h.input, nil
	default:
		return nil, fmt.Errorf("%w: %s", openvr.ErrInterfaceNotFound, name)
	}
}

// Slot returns the function currently installed in the given dispatch slot.
func (h *Host) Slot(index int) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn, ok := h.slots[index]
	if !ok {
		return nil, fmt.Errorf("host has no slot %d", index)
	}
	return fn, nil
}

// SetSlot replaces the function in the given dispatch slot.
func (h *Host) SetSlot(index int, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.slots[index]; !ok {
		return fmt.Errorf("host has no slot %d", index)
	}
	h.slots[index] = fn
	return nil
}

// TrackedDeviceAdded registers a device by dispatching through the
// registration slot. Must stay a direct slot invocation: interceptors
// rely on finding their caller one frame above this method.
func (h *Host) TrackedDeviceAdded(serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
	fn, err := h.Slot(openvr.TrackedDeviceAddedSlot)
	if err != nil {
		return false
	}
	return fn.(openvr.TrackedDeviceAddedFunc)(h, serial, class, device)
}

// registerDevice is the original slot implementation: assign a device
// index, record the registration and bring the device into service.
func (h *Host) registerDevice(serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
	h.mu.Lock()
	for _, d := range h.devices {
		if d.Serial == serial {
			h.mu.Unlock()
			h.logger.Warn("duplicate device serial rejected", "serial", serial)
			return false
		}
	}
	index := h.nextIndex
	h.nextIndex++
	h.devices = append(h.devices, RegisteredDevice{
		Serial: serial,
		Class:  class,
		Index:  index,
		Device: device,
	})
	h.mu.Unlock()

	if err := device.Activate(index); err != nil {
		h.logger.Error("device activation failed",
			"serial", serial,
			"device_index", uint32(index),
			"error", err,
		)
		return false
	}

	h.logger.Info("device registered",
		"serial", serial,
		"class", class.String(),
		"device_index", uint32(index),
	)
	return true
}

// Properties returns the host's property store.
func (h *Host) Properties() *PropertyStore { return h.properties }

// Input returns the host's input subsystem.
func (h *Host) Input() *InputSubsystem { return h.input }

// Devices returns a snapshot of the accepted registrations.
func (h *Host) Devices() []RegisteredDevice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RegisteredDevice, len(h.devices))
	copy(out, h.devices)
	return out
}

// Shutdown deactivates every registered device in reverse registration
// order, mirroring host teardown.
func (h *Host) Shutdown() {
	h.mu.Lock()
	devices := make([]RegisteredDevice, len(h.devices))
	copy(devices, h.devices)
	h.devices = nil
	h.mu.Unlock()

	for i := len(devices) - 1; i >= 0; i-- {
		devices[i].Device.Deactivate()
		h.logger.Info("device deactivated", "serial", devices[i].Serial)
	}
}
