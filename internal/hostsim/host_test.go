package hostsim

import (
	"errors"
	"testing"

	"github.com/tallowisp/gazeshim/internal/openvr"
)

// stubDevice is a minimal device driver for host tests.
type stubDevice struct {
	activateErr error
	index       openvr.DeviceIndex
	deactivated int
}

func (s *stubDevice) Activate(objectID openvr.DeviceIndex) error {
	if s.activateErr != nil {
		return s.activateErr
	}
	s.index = objectID
	return nil
}

func (s *stubDevice) Deactivate()                { s.deactivated++ }
func (s *stubDevice) EnterStandby()              {}
func (s *stubDevice) GetComponent(string) any    { return nil }
func (s *stubDevice) GetPose() openvr.Pose       { return openvr.Pose{} }
func (s *stubDevice) DebugRequest(string) string { return "" }

func TestHostRegistersAndActivates(t *testing.T) {
	h := NewHost(nil)

	first := &stubDevice{}
	second := &stubDevice{}
	if !h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, first) {
		t.Fatal("first registration rejected")
	}
	if !h.TrackedDeviceAdded("DEV-2", openvr.DeviceClassController, second) {
		t.Fatal("second registration rejected")
	}

	if first.index != 0 || second.index != 1 {
		t.Errorf("assigned indices = %d, %d, want 0, 1", first.index, second.index)
	}
	if got := len(h.Devices()); got != 2 {
		t.Errorf("registered devices = %d, want 2", got)
	}
}

func TestHostRejectsDuplicateSerial(t *testing.T) {
	h := NewHost(nil)

	if !h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, &stubDevice{}) {
		t.Fatal("first registration rejected")
	}
	if h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, &stubDevice{}) {
		t.Error("duplicate serial accepted")
	}
	if got := len(h.Devices()); got != 1 {
		t.Errorf("registered devices = %d, want 1", got)
	}
}

func TestHostReportsActivationFailure(t *testing.T) {
	h := NewHost(nil)

	dev := &stubDevice{activateErr: errors.New("no hardware")}
	if h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, dev) {
		t.Error("failed activation reported as accepted")
	}
}

func TestHostShutdownDeactivates(t *testing.T) {
	h := NewHost(nil)

	first := &stubDevice{}
	second := &stubDevice{}
	h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, first)
	h.TrackedDeviceAdded("DEV-2", openvr.DeviceClassController, second)

	h.Shutdown()
	if first.deactivated != 1 || second.deactivated != 1 {
		t.Errorf("deactivations = %d, %d, want 1, 1", first.deactivated, second.deactivated)
	}
	if got := len(h.Devices()); got != 0 {
		t.Errorf("devices after shutdown = %d, want 0", got)
	}
}

func TestHostGenericInterfaceResolution(t *testing.T) {
	h := NewHost(nil)

	obj, err := h.GetGenericInterface(openvr.ServerDriverHostInterface)
	if err != nil {
		t.Fatalf("resolving host interface: %v", err)
	}
	if obj != any(h) {
		t.Error("host interface did not resolve to the host itself")
	}
	if _, err := h.GetGenericInterface(openvr.PropertiesInterface); err != nil {
		t.Errorf("resolving property interface: %v", err)
	}
	if _, err := h.GetGenericInterface(openvr.DriverInputInternalInterface); err != nil {
		t.Errorf("resolving input interface: %v", err)
	}
	if _, err := h.GetGenericInterface("IVRSettings_003"); !errors.Is(err, openvr.ErrInterfaceNotFound) {
		t.Errorf("unknown interface error = %v, want %v", err, openvr.ErrInterfaceNotFound)
	}
}

func TestHostSlotPatching(t *testing.T) {
	h := NewHost(nil)

	original, err := h.Slot(openvr.TrackedDeviceAddedSlot)
	if err != nil {
		t.Fatalf("reading registration slot: %v", err)
	}

	var intercepted int
	replacement := openvr.TrackedDeviceAddedFunc(
		func(host openvr.ServerDriverHost, serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
			intercepted++
			return original.(openvr.TrackedDeviceAddedFunc)(host, serial, class, device)
		})
	if err := h.SetSlot(openvr.TrackedDeviceAddedSlot, replacement); err != nil {
		t.Fatalf("patching registration slot: %v", err)
	}

	if !h.TrackedDeviceAdded("DEV-1", openvr.DeviceClassHMD, &stubDevice{}) {
		t.Fatal("registration through patched slot rejected")
	}
	if intercepted != 1 {
		t.Errorf("interceptor ran %d times, want 1", intercepted)
	}
	if got := len(h.Devices()); got != 1 {
		t.Errorf("registered devices = %d, want 1", got)
	}

	if err := h.SetSlot(99, replacement); err == nil {
		t.Error("patching a nonexistent slot succeeded")
	}
}

func TestInputSubsystemTracksUpdates(t *testing.T) {
	in := NewInputSubsystem()

	handle, err := in.CreateEyeTrackingComponent(0x2000, openvr.EyeTrackingComponentPath)
	if err != nil {
		t.Fatalf("CreateEyeTrackingComponent() error = %v", err)
	}

	data := openvr.PackedEyeTrackingData{Flags: openvr.PackedFlagsValid, Gaze: openvr.Forward}
	if err := in.UpdateEyeTrackingComponent(handle, data); err != nil {
		t.Fatalf("UpdateEyeTrackingComponent() error = %v", err)
	}
	if got := in.UpdateCount(); got != 1 {
		t.Errorf("UpdateCount() = %d, want 1", got)
	}
	last, ok := in.LastUpdate(openvr.EyeTrackingComponentPath)
	if !ok {
		t.Fatal("LastUpdate() found no sample")
	}
	if last != openvr.EyeTrackingData(data) {
		t.Errorf("LastUpdate() = %+v, want %+v", last, data)
	}

	if err := in.UpdateEyeTrackingComponent(999, data); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("unknown handle error = %v, want %v", err, ErrUnknownComponent)
	}
}
