package aapvr

import (
	"errors"

	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
)

// ErrRegistrationRejected is returned when the host refuses one of the
// driver's devices.
var ErrRegistrationRejected = errors.New("aapvr: host rejected device registration")

// Serial numbers of the simulated hardware set.
const (
	HeadsetSerial    = "LHR-CRYSTAL-0001"
	ControllerSerial = "AAPVR-CTRL-L-0001"
)

// Driver is the simulated vendor headset driver. Its registrations are
// what the interception layer is aimed at: the package path of this
// code is the default target module identity.
type Driver struct {
	host   openvr.ServerDriverHost
	logger *logging.Logger

	headset    *headset
	controller *controller
}

// New creates a driver bound to a host.
func New(host openvr.ServerDriverHost, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Driver{host: host, logger: logger}
}

// Register announces the driver's hardware to the host: the headset
// first, then its controller. The calls must stay inline in this
// method; the interception layer identifies the registering module by
// the return address of the registration call.
func (d *Driver) Register() error {
	d.headset = newHeadset(d.logger)
	if !d.host.TrackedDeviceAdded(HeadsetSerial, openvr.DeviceClassHMD, d.headset) {
		return ErrRegistrationRejected
	}

	d.controller = newController(d.logger)
	if !d.host.TrackedDeviceAdded(ControllerSerial, openvr.DeviceClassController, d.controller) {
		return ErrRegistrationRejected
	}

	d.logger.Info("vendor driver registered",
		"headset", HeadsetSerial,
		"controller", ControllerSerial,
	)
	return nil
}

// Headset returns the driver's headset device, nil before Register.
func (d *Driver) Headset() openvr.TrackedDeviceServer {
	if d.headset == nil {
		return nil
	}
	return d.headset
}
