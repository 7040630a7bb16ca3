package shim

import (
	"sync/atomic"
	"time"

	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/sensor"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// Device decorates a vendor headset driver with an eye tracking input
// component. All TrackedDeviceServer calls are forwarded to the wrapped
// driver; Activate and Deactivate additionally manage the component's
// registration and the background update goroutine.
type Device struct {
	inner openvr.TrackedDeviceServer

	runtime    sensor.Runtime
	session    sensor.Session
	properties openvr.PropertyStore
	input      openvr.DriverInputInternal

	variant      string
	pollInterval time.Duration

	recorder  *telemetry.Recorder
	publisher *telemetry.Publisher
	logger    *logging.Logger

	serial    string
	index     openvr.DeviceIndex
	component openvr.InputComponentHandle

	active atomic.Bool
	done   chan struct{}
}

// deviceDeps carries the collaborators a Device needs beyond the
// wrapped driver. The plugin fills one in per wrapped headset.
type deviceDeps struct {
	runtime      sensor.Runtime
	session      sensor.Session
	properties   openvr.PropertyStore
	input        openvr.DriverInputInternal
	variant      string
	pollInterval time.Duration
	recorder     *telemetry.Recorder
	publisher    *telemetry.Publisher
	logger       *logging.Logger
}

func newDevice(inner openvr.TrackedDeviceServer, serial string, deps deviceDeps) *Device {
	logger := deps.logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Device{
		inner:        inner,
		runtime:      deps.runtime,
		session:      deps.session,
		properties:   deps.properties,
		input:        deps.input,
		variant:      deps.variant,
		pollInterval: deps.pollInterval,
		recorder:     deps.recorder,
		publisher:    deps.publisher,
		logger:       logger,
		serial:       serial,
		index:        openvr.InvalidDeviceIndex,
	}
}

// Activate activates the wrapped driver first, then registers the eye
// tracking component and starts the update goroutine. If the wrapped
// driver fails to activate, its error is returned unmodified and no
// component or goroutine is created.
func (d *Device) Activate(index openvr.DeviceIndex) error {
	if err := d.inner.Activate(index); err != nil {
		return err
	}
	d.index = index

	container := d.properties.TrackedDeviceToPropertyContainer(index)
	if err := d.properties.SetBoolProperty(container, openvr.PropSupportsEyeTracking, true); err != nil {
		d.logger.Warn("failed to advertise eye tracking support",
			"serial", d.serial, "error", err)
	}

	component, err := d.input.CreateEyeTrackingComponent(container, openvr.EyeTrackingComponentPath)
	if err != nil {
		d.logger.Error("failed to create eye tracking component",
			"serial", d.serial, "error", err)
		// The headset still works without the component; leave the
		// wrapped driver activated and skip the poller.
		return nil
	}
	d.component = component

	d.done = make(chan struct{})
	d.active.Store(true)
	go d.pollLoop()

	d.logger.Info("eye tracking component activated",
		"serial", d.serial,
		"device_index", uint32(index),
		"poll_interval", d.pollInterval.String(),
	)
	if d.publisher != nil {
		d.publisher.PublishEvent("activated", map[string]any{
			"serial":       d.serial,
			"device_index": uint32(index),
		})
	}
	return nil
}

// Deactivate stops the update goroutine, waits for it to exit, then
// deactivates the wrapped driver. No component updates are published
// after Deactivate returns. Safe to call when Activate never ran or
// already failed.
func (d *Device) Deactivate() {
	if d.active.Swap(false) {
		<-d.done
	}
	d.index = openvr.InvalidDeviceIndex

	d.logger.Info("eye tracking component deactivated", "serial", d.serial)
	if d.publisher != nil {
		d.publisher.PublishEvent("deactivated", map[string]any{"serial": d.serial})
	}

	d.inner.Deactivate()
}

// Serial returns the serial number the device registered under.
func (d *Device) Serial() string {
	return d.serial
}

// Active reports whether the update goroutine is running.
func (d *Device) Active() bool {
	return d.active.Load()
}

// EnterStandby forwards to the wrapped driver. The poller keeps running
// in standby; the sensor decides whether to deliver data.
func (d *Device) EnterStandby() {
	d.inner.EnterStandby()
}

// GetComponent forwards to the wrapped driver.
func (d *Device) GetComponent(nameAndVersion string) any {
	return d.inner.GetComponent(nameAndVersion)
}

// GetPose forwards to the wrapped driver.
func (d *Device) GetPose() openvr.Pose {
	return d.inner.GetPose()
}

// DebugRequest forwards to the wrapped driver.
func (d *Device) DebugRequest(request string) string {
	return d.inner.DebugRequest(request)
}

// pollLoop queries the sensor at the configured cadence and publishes
// one component update per cycle until Deactivate clears the active
// flag. The sleep comes first so the flag is re-checked immediately
// after every wakeup.
func (d *Device) pollLoop() {
	defer close(d.done)

	for {
		time.Sleep(d.pollInterval)
		if !d.active.Load() {
			return
		}
		if d.recorder != nil {
			d.recorder.Cycle()
		}

		sample := d.readSample()
		if err := d.input.UpdateEyeTrackingComponent(d.component, encodeSample(d.variant, sample)); err != nil {
			d.logger.Debug("component update failed", "serial", d.serial, "error", err)
			continue
		}
		if d.recorder != nil {
			d.recorder.Publish(d.serial, sample)
		}
		if d.publisher != nil {
			d.publisher.PublishSample(d.serial, sample)
		}
	}
}

// readSample queries the sensor once. Any failure degrades to the
// neutral fallback sample rather than skipping the update, so the host
// always sees the current tracking state.
func (d *Device) readSample() telemetry.Sample {
	info, err := d.session.EyeTracking(d.runtime.TimeSeconds())
	if err != nil {
		return telemetry.Fallback()
	}
	return deriveSample(info)
}
