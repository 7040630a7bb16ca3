package telemetry

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tallowisp/gazeshim/internal/infrastructure/influxdb"
	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/infrastructure/mqtt"
)

// Publisher mirrors gaze samples and lifecycle events to external sinks.
// Both sinks are optional: a nil MQTT client or nil InfluxDB client simply
// disables that output. Publishing failures are logged and never propagate
// back to the poller.
type Publisher struct {
	mqtt        *mqtt.Client
	influx      *influxdb.Client
	logger      *logging.Logger
	qos         byte
	mirrorEvery uint64
	seq         atomic.Uint64
}

// NewPublisher creates a publisher over the given sinks. mirrorEvery
// controls MQTT downsampling: every Nth sample is mirrored (0 disables
// mirroring entirely). InfluxDB writes are batched by the client and are
// not downsampled here.
func NewPublisher(mqttClient *mqtt.Client, influxClient *influxdb.Client, mirrorEvery int, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	me := uint64(0)
	if mirrorEvery > 0 {
		me = uint64(mirrorEvery)
	}
	return &Publisher{
		mqtt:        mqttClient,
		influx:      influxClient,
		logger:      logger,
		qos:         0,
		mirrorEvery: me,
	}
}

// PublishSample mirrors a gaze sample to the configured sinks. Called
// from the poller goroutine on every update cycle; must stay cheap.
func (p *Publisher) PublishSample(serial string, s Sample) {
	n := p.seq.Add(1)

	if p.influx != nil {
		p.influx.WriteGazeMetric(serial, float64(s.Pitch), float64(s.Yaw), s.Valid)
	}

	if p.mqtt == nil || p.mirrorEvery == 0 || n%p.mirrorEvery != 0 {
		return
	}
	payload, err := json.Marshal(sampleEnvelope{Serial: serial, Sample: s, Seq: n})
	if err != nil {
		return
	}
	if err := p.mqtt.Publish(p.mqtt.Topics().Sample(serial), payload, p.qos, false); err != nil {
		p.logger.Debug("sample mirror failed", "error", err)
	}
}

// PublishEvent mirrors a lifecycle event (activation, deactivation,
// hook install) to MQTT as retained JSON.
func (p *Publisher) PublishEvent(eventType string, fields map[string]any) {
	if p.mqtt == nil {
		return
	}
	body := map[string]any{
		"event":     eventType,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return
	}
	if err := p.mqtt.Publish(p.mqtt.Topics().Event(eventType), payload, 1, false); err != nil {
		p.logger.Warn("event publish failed", "event", eventType, "error", err)
	}
}

type sampleEnvelope struct {
	Serial string `json:"serial"`
	Sample Sample `json:"sample"`
	Seq    uint64 `json:"seq"`
}

// Activity measures a named operation from start to finish and writes
// the result to InfluxDB with a unique activity ID, so slow hook installs
// or activations show up in the trace dashboards.
type Activity struct {
	name      string
	id        string
	started   time.Time
	publisher *Publisher
}

// StartActivity begins measuring a named operation.
func (p *Publisher) StartActivity(name string) *Activity {
	return &Activity{
		name:      name,
		id:        uuid.New().String(),
		started:   time.Now(),
		publisher: p,
	}
}

// ID returns the activity's unique identifier, for correlating log lines
// with trace records.
func (a *Activity) ID() string {
	return a.id
}

// End finishes the activity and writes its duration plus any extra
// fields to InfluxDB. Safe to call with a nil InfluxDB sink.
func (a *Activity) End(fields map[string]any) {
	elapsed := time.Since(a.started)
	if a.publisher.influx != nil {
		a.publisher.influx.WriteActivity(a.name, a.id, elapsed, fields)
	}
	a.publisher.logger.Debug("activity finished",
		"activity", a.name,
		"activity_id", a.id,
		"duration_ms", elapsed.Milliseconds(),
	)
}
