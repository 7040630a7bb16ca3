package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Shim.PollInterval != 5*time.Millisecond {
		t.Errorf("PollInterval = %v, want 5ms", cfg.Shim.PollInterval)
	}
	if cfg.Shim.ProtocolVariant != ProtocolPacked {
		t.Errorf("ProtocolVariant = %q, want %q", cfg.Shim.ProtocolVariant, ProtocolPacked)
	}
	if !cfg.Shim.Supports(0x34A4, 0x0012) {
		t.Error("default allow-list should include vendor 0x34A4 product 0x0012")
	}
	if !cfg.Shim.Supports(0x34A4, 0x0040) {
		t.Error("default allow-list should include vendor 0x34A4 product 0x0040")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
shim:
  target_module: "example.com/vendor/driver"
  poll_interval: 10ms
  protocol_variant: "split"
logging:
  level: "debug"
  format: "text"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Shim.TargetModule != "example.com/vendor/driver" {
		t.Errorf("TargetModule = %q", cfg.Shim.TargetModule)
	}
	if cfg.Shim.PollInterval != 10*time.Millisecond {
		t.Errorf("PollInterval = %v, want 10ms", cfg.Shim.PollInterval)
	}
	if cfg.Shim.ProtocolVariant != ProtocolSplit {
		t.Errorf("ProtocolVariant = %q, want split", cfg.Shim.ProtocolVariant)
	}
	// Untouched sections keep defaults.
	if cfg.API.Port != 8642 {
		t.Errorf("API.Port = %d, want default 8642", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	// A missing file is not an error: the harness runs on defaults.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults", err)
	}
	if cfg.Shim.PollInterval != 5*time.Millisecond {
		t.Errorf("PollInterval = %v, want the default 5ms", cfg.Shim.PollInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GAZESHIM_SHIM_TARGET_MODULE", "example.com/env/driver")
	t.Setenv("GAZESHIM_MQTT_HOST", "broker.internal")
	t.Setenv("GAZESHIM_INFLUXDB_TOKEN", "secret-token")

	path := writeConfig(t, `
shim:
  target_module: "example.com/file/driver"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Shim.TargetModule != "example.com/env/driver" {
		t.Errorf("env override lost: TargetModule = %q", cfg.Shim.TargetModule)
	}
	if cfg.MQTT.Broker.Host != "broker.internal" {
		t.Errorf("MQTT host = %q", cfg.MQTT.Broker.Host)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB token = %q", cfg.InfluxDB.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "missing target module",
			mutate:  func(c *Config) { c.Shim.TargetModule = "" },
			wantErr: "shim.target_module",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Shim.PollInterval = 0 },
			wantErr: "shim.poll_interval",
		},
		{
			name:    "unknown protocol variant",
			mutate:  func(c *Config) { c.Shim.ProtocolVariant = "canonical" },
			wantErr: "shim.protocol_variant",
		},
		{
			name:    "empty hardware list",
			mutate:  func(c *Config) { c.Shim.Hardware = nil },
			wantErr: "shim.hardware",
		},
		{
			name: "hardware without products",
			mutate: func(c *Config) {
				c.Shim.Hardware = []HardwareConfig{{VendorID: 0x1234}}
			},
			wantErr: "product_ids",
		},
		{
			name: "bad api port when enabled",
			mutate: func(c *Config) {
				c.API.Enabled = true
				c.API.Port = 0
			},
			wantErr: "api.port",
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name: "influxdb enabled without url",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = ""
			},
			wantErr: "influxdb.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSupports(t *testing.T) {
	cfg := ShimConfig{
		Hardware: []HardwareConfig{
			{VendorID: 0x34A4, ProductIDs: []uint16{0x0012, 0x0040}},
		},
	}

	tests := []struct {
		vendor  uint16
		product uint16
		want    bool
	}{
		{0x34A4, 0x0012, true},
		{0x34A4, 0x0040, true},
		{0x34A4, 0x0013, false},
		{0x1234, 0x0012, false},
	}

	for _, tt := range tests {
		if got := cfg.Supports(tt.vendor, tt.product); got != tt.want {
			t.Errorf("Supports(%#04x, %#04x) = %v, want %v", tt.vendor, tt.product, got, tt.want)
		}
	}
}
