// Package telemetry records and mirrors the shim's runtime observables.
//
// The Recorder tracks the last published gaze sample and lock-free
// instrumentation counters (poll cycles, publishes, fallbacks); the
// diagnostics API and tests read it. The Publisher mirrors downsampled
// samples to MQTT and writes gaze metrics and timed Activities to
// InfluxDB. Both sinks are optional and failures never reach the poller.
package telemetry
