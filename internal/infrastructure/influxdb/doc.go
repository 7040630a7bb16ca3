// Package influxdb provides the gaze shim's trace sink.
//
// It wraps the official influxdb-client-go v2 library with the shim's
// patterns for connection management and non-blocking batched writes.
//
// # Purpose
//
// Every lifecycle operation and poll cycle can be traced: completed
// trace activities and sampled gaze metrics are written as time-series
// points, so slow hook installs and activation latency show up in the
// dashboards.
//
// The sink is strictly optional. When disabled (or unreachable) the shim
// runs identically; nothing host-facing ever waits on a write.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without tracing
//	}
//	defer client.Close()
//
//	client.WriteActivity("device_activate", id, elapsed, nil)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
package influxdb
