package aapvr

import (
	"errors"
	"testing"

	"github.com/tallowisp/gazeshim/internal/hostsim"
	"github.com/tallowisp/gazeshim/internal/openvr"
)

func TestDriverRegister(t *testing.T) {
	host := hostsim.NewHost(nil)
	driver := New(host, nil)

	if err := driver.Register(); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	devices := host.Devices()
	if len(devices) != 2 {
		t.Fatalf("registered devices = %d, want 2", len(devices))
	}
	if devices[0].Serial != HeadsetSerial || devices[0].Class != openvr.DeviceClassHMD {
		t.Errorf("first device = %s/%s, want %s/hmd", devices[0].Serial, devices[0].Class, HeadsetSerial)
	}
	if devices[1].Serial != ControllerSerial || devices[1].Class != openvr.DeviceClassController {
		t.Errorf("second device = %s/%s, want %s/controller", devices[1].Serial, devices[1].Class, ControllerSerial)
	}

	if pose := driver.Headset().GetPose(); !pose.PoseIsValid {
		t.Error("activated headset reports an invalid pose")
	}
}

func TestDriverRegisterTwiceRejected(t *testing.T) {
	host := hostsim.NewHost(nil)
	driver := New(host, nil)

	if err := driver.Register(); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := driver.Register(); !errors.Is(err, ErrRegistrationRejected) {
		t.Errorf("second Register() error = %v, want %v", err, ErrRegistrationRejected)
	}
}

func TestHeadsetLifecycle(t *testing.T) {
	h := newHeadset(nil)

	if err := h.Activate(5); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if pose := h.GetPose(); !pose.PoseIsValid || !pose.DeviceIsConnected {
		t.Errorf("active pose = %+v, want valid and connected", pose)
	}

	h.Deactivate()
	if pose := h.GetPose(); pose.PoseIsValid {
		t.Error("deactivated headset still reports a valid pose")
	}
}
