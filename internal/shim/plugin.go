package shim

import (
	"sync"
	"sync/atomic"

	"github.com/tallowisp/gazeshim/internal/callerid"
	"github.com/tallowisp/gazeshim/internal/hook"
	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/sensor"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// ServerTrackedDeviceProviderInterface is the factory name under which
// the plugin provider is served to the host.
const ServerTrackedDeviceProviderInterface = "IServerTrackedDeviceProvider_004"

// interfaceVersions lists the host interface versions the plugin was
// built against.
var interfaceVersions = []string{
	ServerTrackedDeviceProviderInterface,
	openvr.ServerDriverHostInterface,
}

// Deps bundles the collaborators a Plugin is constructed over.
// Recorder and Publisher are optional; Hooks defaults to a fresh registry.
type Deps struct {
	Config    *config.Config
	Logger    *logging.Logger
	Runtime   sensor.Runtime
	Hooks     *hook.Registry
	Recorder  *telemetry.Recorder
	Publisher *telemetry.Publisher
}

// Plugin is the provider object the host obtains through the driver
// factory. Init opens the sensor runtime, verifies the attached headset
// and installs the registration detour; every failure along that path
// degrades to unshimmed pass-through operation rather than failing the
// host's plugin load.
type Plugin struct {
	cfg       *config.Config
	logger    *logging.Logger
	runtime   sensor.Runtime
	hooks     *hook.Registry
	recorder  *telemetry.Recorder
	publisher *telemetry.Publisher
	filter    *callerid.Filter

	// armed gates the detour's wrap path. The detour stays installed for
	// the life of the process and can run the instant the slot is
	// patched, so everything else it needs is captured in its closure.
	armed atomic.Bool

	mu          sync.Mutex
	initialised bool
	shimmed     bool
	session     sensor.Session
	hardware    sensor.HmdInfo

	// devMu guards devices on its own: the detour appends while the host
	// dispatches registrations, which may happen mid-bootstrap with mu held.
	devMu   sync.Mutex
	devices []*Device
}

// NewPlugin creates an uninitialised plugin. The host drives the rest of
// the lifecycle through Init and Cleanup.
func NewPlugin(deps Deps) *Plugin {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	hooks := deps.Hooks
	if hooks == nil {
		hooks = hook.NewRegistry()
	}
	hooks.SetLogger(logger)
	return &Plugin{
		cfg:       deps.Config,
		logger:    logger,
		runtime:   deps.Runtime,
		hooks:     hooks,
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		filter:    callerid.NewFilter(deps.Config.Shim.TargetModule),
	}
}

// Init performs the whole bootstrap: sensor runtime, session, hardware
// check, host interface resolution, detour installation.
//
// Init always returns nil. When any step fails the plugin logs the
// reason and stays resident unshimmed, so the host keeps loading its
// remaining plugin set and device registrations flow through untouched.
func (p *Plugin) Init(ctx openvr.DriverContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialised {
		return nil
	}
	p.initialised = true

	var activity *telemetry.Activity
	if p.publisher != nil {
		activity = p.publisher.StartActivity("plugin_init")
	}
	shimmed := p.bootstrap(ctx)
	p.shimmed = shimmed
	if activity != nil {
		activity.End(map[string]any{"shimmed": shimmed})
	}
	if p.publisher != nil {
		p.publisher.PublishEvent("initialised", map[string]any{"shimmed": shimmed})
	}
	return nil
}

// bootstrap runs the fallible part of Init and reports whether the
// detour ended up installed. Called with the mutex held.
func (p *Plugin) bootstrap(ctx openvr.DriverContext) bool {
	if err := p.runtime.Initialise(); err != nil {
		p.logger.Warn("sensor runtime unavailable, running unshimmed", "error", err)
		return false
	}

	session, err := p.runtime.CreateSession()
	if err != nil {
		p.logger.Warn("sensor session failed, running unshimmed", "error", err)
		p.runtime.Shutdown()
		return false
	}

	info, err := session.HmdInfo()
	if err != nil {
		p.logger.Warn("headset query failed, running unshimmed", "error", err)
		session.Destroy()
		p.runtime.Shutdown()
		return false
	}
	if !p.cfg.Shim.Supports(info.VendorID, info.ProductID) {
		p.logger.Warn("running unshimmed",
			"error", ErrUnsupportedHardware,
			"vendor_id", info.VendorID,
			"product_id", info.ProductID,
		)
		session.Destroy()
		p.runtime.Shutdown()
		return false
	}

	props, err := resolveAs[openvr.PropertyStore](ctx, openvr.PropertiesInterface)
	if err != nil {
		p.logger.Warn("property system unavailable, running unshimmed", "error", err)
		session.Destroy()
		p.runtime.Shutdown()
		return false
	}
	input, err := resolveAs[openvr.DriverInputInternal](ctx, openvr.DriverInputInternalInterface)
	if err != nil {
		p.logger.Warn("input subsystem unavailable, running unshimmed", "error", err)
		session.Destroy()
		p.runtime.Shutdown()
		return false
	}

	p.session = session
	p.hardware = info

	deps := deviceDeps{
		runtime:      p.runtime,
		session:      session,
		properties:   props,
		input:        input,
		variant:      p.cfg.Shim.ProtocolVariant,
		pollInterval: p.cfg.Shim.PollInterval,
		recorder:     p.recorder,
		publisher:    p.publisher,
		logger:       p.logger,
	}

	// Armed before the swap: the slot goes live inside Install and the
	// detour must already be able to run end to end.
	p.armed.Store(true)
	_, err = p.hooks.Install(ctx, openvr.ServerDriverHostInterface, openvr.TrackedDeviceAddedSlot,
		func(original any) (any, error) {
			trampoline, ok := original.(openvr.TrackedDeviceAddedFunc)
			if !ok {
				return nil, ErrSlotSignature
			}
			return p.makeDetour(trampoline, deps), nil
		})
	if err != nil {
		p.armed.Store(false)
		p.logger.Warn("hook install failed, running unshimmed", "error", err)
		p.session = nil
		session.Destroy()
		p.runtime.Shutdown()
		return false
	}

	p.logger.Info("registration detour installed",
		"target_module", p.filter.Target(),
		"vendor_id", p.hardware.VendorID,
		"product_id", p.hardware.ProductID,
	)
	return true
}

// makeDetour builds the replacement registration function around the
// trampoline and the collaborators the wrapper needs. Everything is
// captured here; the detour reads no plugin state the bootstrap assigns
// after the slot swap.
//
// The return address is captured two frames up: one for this closure,
// one for the host's own registration method, which invokes the slot
// function directly. That lands on the code that called the host, the
// identity the caller filter matches against.
func (p *Plugin) makeDetour(trampoline openvr.TrackedDeviceAddedFunc, deps deviceDeps) openvr.TrackedDeviceAddedFunc {
	return func(host openvr.ServerDriverHost, serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
		pc := callerid.ReturnAddress(2)
		return p.interceptAdd(pc, trampoline, deps, host, serial, class, device)
	}
}

// interceptAdd wraps qualifying registrations and forwards everything,
// wrapped or not, to the original registration function. The host's
// acceptance status passes through unchanged. Once the plugin is
// disarmed by Cleanup, every registration forwards untouched.
func (p *Plugin) interceptAdd(pc uintptr, trampoline openvr.TrackedDeviceAddedFunc, deps deviceDeps, host openvr.ServerDriverHost, serial string, class openvr.DeviceClass, device openvr.TrackedDeviceServer) bool {
	toRegister := device

	if p.armed.Load() && class == openvr.DeviceClassHMD && p.filter.IsTargetCaller(pc) {
		wrapped := newDevice(device, serial, deps)
		p.devMu.Lock()
		p.devices = append(p.devices, wrapped)
		p.devMu.Unlock()
		toRegister = wrapped

		p.logger.Info("headset registration wrapped",
			"serial", serial,
			"class", class.String(),
		)
	} else {
		p.logger.Debug("registration passed through",
			"serial", serial,
			"class", class.String(),
		)
	}

	return trampoline(host, serial, class, toRegister)
}

// Cleanup releases the sensor session and runtime. Wrapped devices are
// deactivated by the host before it calls Cleanup, so their pollers are
// already stopped. The detour stays installed: it is disarmed first, so
// any late registration forwards through its captured trampoline
// untouched instead of being wrapped over a dead session.
func (p *Plugin) Cleanup() {
	p.armed.Store(false)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialised {
		return
	}
	if p.session != nil {
		p.session.Destroy()
		p.session = nil
		p.runtime.Shutdown()
	}
	p.initialised = false
	p.shimmed = false

	p.devMu.Lock()
	p.devices = nil
	p.devMu.Unlock()

	p.logger.Info("plugin cleaned up")
}

// InterfaceVersions lists the host interface versions the plugin was
// built against.
func (p *Plugin) InterfaceVersions() []string {
	out := make([]string, len(interfaceVersions))
	copy(out, interfaceVersions)
	return out
}

// RunFrame does nothing; the poller runs on its own cadence.
func (p *Plugin) RunFrame() {}

// ShouldBlockStandbyMode never vetoes standby.
func (p *Plugin) ShouldBlockStandbyMode() bool { return false }

// EnterStandby does nothing.
func (p *Plugin) EnterStandby() {}

// LeaveStandby does nothing.
func (p *Plugin) LeaveStandby() {}

// Shimmed reports whether the registration detour ended up installed.
func (p *Plugin) Shimmed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shimmed
}

// TargetModule returns the module identity the caller filter matches.
func (p *Plugin) TargetModule() string {
	return p.filter.Target()
}

// Devices returns a snapshot of the wrapped devices.
func (p *Plugin) Devices() []*Device {
	p.devMu.Lock()
	defer p.devMu.Unlock()
	out := make([]*Device, len(p.devices))
	copy(out, p.devices)
	return out
}

// resolveAs resolves a generic interface and asserts its Go type.
func resolveAs[T any](ctx openvr.DriverContext, name string) (T, error) {
	var zero T
	obj, err := ctx.GetGenericInterface(name)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, openvr.ErrInterfaceNotFound
	}
	return typed, nil
}

// Factory serves provider objects by versioned interface name. The host
// calls it once per name it understands; the plugin instance is a
// singleton across calls.
type Factory struct {
	once   sync.Once
	plugin *Plugin
	deps   Deps
}

// NewFactory creates a factory over the given dependencies.
func NewFactory(deps Deps) *Factory {
	return &Factory{deps: deps}
}

// Driver returns the provider registered under the given interface name,
// or ErrUnknownInterface for names the factory does not serve. Repeated
// requests for the same name return the same instance.
func (f *Factory) Driver(name string) (any, error) {
	if name != ServerTrackedDeviceProviderInterface {
		return nil, ErrUnknownInterface
	}
	f.once.Do(func() {
		f.plugin = NewPlugin(f.deps)
	})
	return f.plugin, nil
}

// Plugin returns the singleton provider, creating it if needed. Used by
// the diagnostics API to read shim state.
func (f *Factory) Plugin() *Plugin {
	f.once.Do(func() {
		f.plugin = NewPlugin(f.deps)
	})
	return f.plugin
}
