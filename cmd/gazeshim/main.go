// Gaze Shim - eye tracking driver shim harness
//
// This is the main entry point for the gaze shim harness binary. It
// assembles the full interception path in one process: a simulated
// server driver host, the vendor headset driver whose registrations are
// intercepted, the sensor runtime, and the shim plugin itself, plus the
// diagnostics API and telemetry sinks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tallowisp/gazeshim/internal/api"
	"github.com/tallowisp/gazeshim/internal/hook"
	"github.com/tallowisp/gazeshim/internal/hostsim"
	"github.com/tallowisp/gazeshim/internal/hostsim/aapvr"
	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
	"github.com/tallowisp/gazeshim/internal/infrastructure/influxdb"
	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/infrastructure/mqtt"
	"github.com/tallowisp/gazeshim/internal/sensor"
	"github.com/tallowisp/gazeshim/internal/shim"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// Simulated headset identity; matches the default hardware allow-list.
const (
	simVendorID  = 0x34A4
	simProductID = 0x0012
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting gaze shim harness",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Telemetry: recorder for diagnostics, publisher for the sinks
	recorder := telemetry.NewRecorder()
	publisher := telemetry.NewPublisher(mqttClient, influxClient, cfg.Shim.SampleMirrorEvery, log)

	// Simulated host and sensor runtime
	host := hostsim.NewHost(log.With("component", "hostsim"))
	runtime := sensor.NewSimulator(sensor.SimulatorConfig{
		VendorID:  simVendorID,
		ProductID: simProductID,
	})

	// Shim plugin: bootstrap against the host the way the real driver
	// loader would, via the factory
	hooks := hook.NewRegistry()
	factory := shim.NewFactory(shim.Deps{
		Config:    cfg,
		Logger:    log.With("component", "shim"),
		Runtime:   runtime,
		Hooks:     hooks,
		Recorder:  recorder,
		Publisher: publisher,
	})
	provider, err := factory.Driver(shim.ServerTrackedDeviceProviderInterface)
	if err != nil {
		return fmt.Errorf("resolving driver provider: %w", err)
	}
	plugin := provider.(*shim.Plugin)
	if err := plugin.Init(host); err != nil {
		return fmt.Errorf("initialising shim plugin: %w", err)
	}
	defer func() {
		log.Info("cleaning up shim plugin")
		plugin.Cleanup()
	}()
	log.Info("shim plugin initialised", "shimmed", plugin.Shimmed())

	// Vendor driver registration: the headset lands wrapped, the
	// controller passes through untouched
	driver := aapvr.New(host, log.With("component", "aapvr"))
	if err := driver.Register(); err != nil {
		return fmt.Errorf("registering vendor driver: %w", err)
	}
	defer func() {
		log.Info("shutting down host")
		host.Shutdown()
	}()
	log.Info("vendor driver registered", "devices", len(host.Devices()))

	// Diagnostics API (optional)
	if cfg.API.Enabled {
		server, apiErr := api.New(api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Logger:   log.With("component", "api"),
			Recorder: recorder,
			Plugin:   plugin,
			Hooks:    hooks,
			Version:  version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating diagnostics server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting diagnostics server: %w", startErr)
		}
		defer func() {
			log.Info("closing diagnostics server")
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing diagnostics server", "error", closeErr)
			}
		}()
		log.Info("diagnostics server started",
			"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		)
	} else {
		log.Info("diagnostics server disabled")
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Diagnostics server
	// 2. Host (deactivates devices, stopping the pollers)
	// 3. Shim plugin (sensor session and runtime)
	// 4. InfluxDB / MQTT

	log.Info("gaze shim stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GAZESHIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GAZESHIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
