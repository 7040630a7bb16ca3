// Package mqtt provides MQTT connectivity for the gaze shim's telemetry
// mirror.
//
// It wraps eclipse/paho.mqtt.golang with the shim's patterns for
// connection management and publishing. The mirror is strictly optional
// and publish-only: the shim never subscribes, and a broker outage never
// affects the shim's host-facing behavior.
//
// # Topic hierarchy
//
//	<prefix>/sample/<serial>   mirrored gaze samples (QoS 0)
//	<prefix>/event/<type>      lifecycle events
//	<prefix>/system/status     online/offline status (retained, LWT)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Warn("telemetry mirror unavailable", "error", err)
//	}
//	defer client.Close()
//
//	topic := client.Topics().Sample("HMD-1234")
//	_ = client.Publish(topic, payload, 0, false)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
