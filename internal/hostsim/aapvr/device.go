package aapvr

import (
	"sync"

	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
)

// headset is the simulated vendor headset driver object.
type headset struct {
	logger *logging.Logger

	mu     sync.Mutex
	index  openvr.DeviceIndex
	active bool
}

func newHeadset(logger *logging.Logger) *headset {
	if logger == nil {
		logger = logging.Default()
	}
	return &headset{logger: logger, index: openvr.InvalidDeviceIndex}
}

func (h *headset) Activate(objectID openvr.DeviceIndex) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = objectID
	h.active = true
	h.logger.Debug("headset activated", "device_index", uint32(objectID))
	return nil
}

func (h *headset) Deactivate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
	h.index = openvr.InvalidDeviceIndex
}

func (h *headset) EnterStandby() {}

func (h *headset) GetComponent(nameAndVersion string) any { return nil }

func (h *headset) GetPose() openvr.Pose {
	h.mu.Lock()
	defer h.mu.Unlock()
	return openvr.Pose{
		Rotation:          [4]float32{1, 0, 0, 0},
		PoseIsValid:       h.active,
		DeviceIsConnected: true,
	}
}

func (h *headset) DebugRequest(request string) string { return "" }

// controller is the simulated vendor controller. Controllers are never
// wrapped by the interception layer; this one exists so the pass-through
// path is exercised in the harness.
type controller struct {
	logger *logging.Logger

	mu     sync.Mutex
	active bool
}

func newController(logger *logging.Logger) *controller {
	if logger == nil {
		logger = logging.Default()
	}
	return &controller{logger: logger}
}

func (c *controller) Activate(objectID openvr.DeviceIndex) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.logger.Debug("controller activated", "device_index", uint32(objectID))
	return nil
}

func (c *controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

func (c *controller) EnterStandby() {}

func (c *controller) GetComponent(nameAndVersion string) any { return nil }

func (c *controller) GetPose() openvr.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return openvr.Pose{
		Rotation:          [4]float32{1, 0, 0, 0},
		PoseIsValid:       c.active,
		DeviceIsConnected: true,
	}
}

func (c *controller) DebugRequest(request string) string { return "" }
