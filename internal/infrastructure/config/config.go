package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the gaze shim.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Shim      ShimConfig      `yaml:"shim"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ShimConfig contains the interception and polling settings.
type ShimConfig struct {
	// TargetModule is the module identity of the driver whose device
	// registrations are intercepted. Registrations from any other module
	// pass through untouched. For Go callers this is the package path
	// prefix of the registering code.
	TargetModule string `yaml:"target_module"`

	// PollInterval is the cadence of the background gaze poller.
	// Default: 5ms, the refresh rate the input subsystem expects.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ProtocolVariant selects the wire shape pushed to the input subsystem.
	// "packed" (bit flags + single vector) or "split" (three booleans +
	// origin/target vectors). The two host API generations are mutually
	// incompatible, so this must match the host build.
	ProtocolVariant string `yaml:"protocol_variant"`

	// SampleMirrorEvery mirrors every Nth published sample to MQTT when
	// telemetry is enabled. 0 disables mirroring entirely.
	SampleMirrorEvery int `yaml:"sample_mirror_every"`

	// Hardware is the allow-list of headsets the shim supports.
	// Detection failure results in unshimmed pass-through operation.
	Hardware []HardwareConfig `yaml:"hardware"`
}

// UnmarshalYAML decodes the shim section, parsing poll_interval from Go
// duration syntax ("5ms"). Absent keys keep their current values so the
// file merges over defaults.
func (c *ShimConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TargetModule      string           `yaml:"target_module"`
		PollInterval      string           `yaml:"poll_interval"`
		ProtocolVariant   string           `yaml:"protocol_variant"`
		SampleMirrorEvery *int             `yaml:"sample_mirror_every"`
		Hardware          []HardwareConfig `yaml:"hardware"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TargetModule != "" {
		c.TargetModule = raw.TargetModule
	}
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("shim.poll_interval: %w", err)
		}
		c.PollInterval = d
	}
	if raw.ProtocolVariant != "" {
		c.ProtocolVariant = raw.ProtocolVariant
	}
	if raw.SampleMirrorEvery != nil {
		c.SampleMirrorEvery = *raw.SampleMirrorEvery
	}
	if raw.Hardware != nil {
		c.Hardware = raw.Hardware
	}
	return nil
}

// HardwareConfig identifies one supported headset family by USB identifiers.
type HardwareConfig struct {
	VendorID   uint16   `yaml:"vendor_id"`
	ProductIDs []uint16 `yaml:"product_ids"`
}

// APIConfig contains the diagnostics HTTP server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains the live sample stream settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for the telemetry mirror.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for the trace sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Protocol variant names accepted by ShimConfig.ProtocolVariant.
const (
	ProtocolPacked = "packed"
	ProtocolSplit  = "split"
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GAZESHIM_SECTION_KEY
// For example: GAZESHIM_SHIM_TARGET_MODULE, GAZESHIM_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file: defaults plus environment overrides.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
//
// The default target module and hardware allow-list match the simulated
// host harness, so cmd/gazeshim runs without a config file. Real
// deployments override shim.target_module with the deployed driver's
// module identity.
func Default() *Config {
	return &Config{
		Shim: ShimConfig{
			TargetModule:      "github.com/tallowisp/gazeshim/internal/hostsim/aapvr",
			PollInterval:      5 * time.Millisecond,
			ProtocolVariant:   ProtocolPacked,
			SampleMirrorEvery: 40,
			Hardware: []HardwareConfig{
				// Crystal and Crystal Super.
				{VendorID: 0x34A4, ProductIDs: []uint16{0x0012, 0x0040}},
			},
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8642,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/api/v1/ws",
			MaxMessageSize: 4096,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "gazeshim",
			},
			QoS:         0,
			TopicPrefix: "gazeshim",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GAZESHIM_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Shim
	if v := os.Getenv("GAZESHIM_SHIM_TARGET_MODULE"); v != "" {
		cfg.Shim.TargetModule = v
	}

	// API
	if v := os.Getenv("GAZESHIM_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// MQTT
	if v := os.Getenv("GAZESHIM_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GAZESHIM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GAZESHIM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("GAZESHIM_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Shim validation
	if c.Shim.TargetModule == "" {
		errs = append(errs, "shim.target_module is required")
	}
	if c.Shim.PollInterval <= 0 {
		errs = append(errs, "shim.poll_interval must be positive")
	}
	if c.Shim.ProtocolVariant != ProtocolPacked && c.Shim.ProtocolVariant != ProtocolSplit {
		errs = append(errs, fmt.Sprintf("shim.protocol_variant must be %q or %q", ProtocolPacked, ProtocolSplit))
	}
	if c.Shim.SampleMirrorEvery < 0 {
		errs = append(errs, "shim.sample_mirror_every must not be negative")
	}
	if len(c.Shim.Hardware) == 0 {
		errs = append(errs, "shim.hardware requires at least one entry")
	}
	for _, hw := range c.Shim.Hardware {
		if hw.VendorID == 0 {
			errs = append(errs, "shim.hardware vendor_id must be non-zero")
		}
		if len(hw.ProductIDs) == 0 {
			errs = append(errs, "shim.hardware product_ids requires at least one entry")
		}
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Supports reports whether the given vendor/product pair is on the
// hardware allow-list.
func (c *ShimConfig) Supports(vendorID, productID uint16) bool {
	for _, hw := range c.Hardware {
		if hw.VendorID != vendorID {
			continue
		}
		for _, pid := range hw.ProductIDs {
			if pid == productID {
				return true
			}
		}
	}
	return false
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
