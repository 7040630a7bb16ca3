package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteGazeMetric writes one sampled gaze measurement.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Every published sample lands here: the client's batching absorbs the
// 5ms poll cadence, so only the MQTT mirror is downsampled.
//
// Parameters:
//   - serial: Device serial the sample belongs to
//   - pitch, yaw: Derived gaze angles in radians
//   - valid: Whether the sensor reported usable data this cycle
func (c *Client) WriteGazeMetric(serial string, pitch, yaw float64, valid bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"gaze",
		map[string]string{
			"serial": serial,
		},
		map[string]interface{}{
			"pitch": pitch,
			"yaw":   yaw,
			"valid": valid,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteActivity writes one completed trace activity.
//
// Activities bracket lifecycle operations (hook install, device
// activation, poller runs) so their latency shows up in dashboards.
//
// Parameters:
//   - name: Activity name (e.g., "device_activate")
//   - activityID: Unique ID correlating related log lines
//   - duration: How long the activity ran
//   - fields: Additional data recorded at completion
func (c *Client) WriteActivity(name, activityID string, duration time.Duration, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields["duration_ms"] = float64(duration.Microseconds()) / millisecondsPerSecond

	point := write.NewPoint(
		"activity",
		map[string]string{
			"name":        name,
			"activity_id": activityID,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
