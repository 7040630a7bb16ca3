package mqtt

import "fmt"

// defaultTopicPrefix is used when no prefix is configured.
const defaultTopicPrefix = "gazeshim"

// Topics provides builders for the shim's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{Prefix: "gazeshim"}
//	topic := topics.Sample("HMD-1234")
//	// Returns: "gazeshim/sample/HMD-1234"
type Topics struct {
	Prefix string
}

// base returns the configured prefix, falling back to the default.
func (t Topics) base() string {
	if t.Prefix == "" {
		return defaultTopicPrefix
	}
	return t.Prefix
}

// Sample returns the topic for mirrored gaze samples of one device.
//
// Example: gazeshim/sample/HMD-1234
func (t Topics) Sample(serial string) string {
	return fmt.Sprintf("%s/sample/%s", t.base(), serial)
}

// Event returns the topic for lifecycle events.
//
// Example: gazeshim/event/device_activated
func (t Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/event/%s", t.base(), eventType)
}

// SystemStatus returns the shim status topic (online/offline, LWT).
//
// Example: gazeshim/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.base())
}

// AllSamples returns a pattern matching mirrored samples of all devices.
//
// Pattern: gazeshim/sample/+
func (t Topics) AllSamples() string {
	return fmt.Sprintf("%s/sample/+", t.base())
}
