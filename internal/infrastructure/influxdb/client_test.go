package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
)

// Connection-level behavior needs a reachable InfluxDB server; these
// tests cover everything that does not dial.

func TestConnectDisabled(t *testing.T) {
	cfg := config.InfluxDBConfig{Enabled: false}

	_, err := Connect(context.Background(), cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestZeroClientIsSafe(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("zero client reports connected")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Writes on a disconnected client are silently dropped.
	client.WriteGazeMetric("HMD-1", 0.1, 0.0, true)
	client.WriteActivity("device_activate", "id", 0, nil)
	client.WritePoint("gaze", nil, map[string]interface{}{"pitch": 0.0})
	client.Flush()

	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
