// Package config provides configuration loading for the gaze shim.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by GAZESHIM_* environment variables. The loaded
// configuration is validated before use; an invalid configuration is a
// startup error, never a silent fallback.
//
// # Sections
//
//   - shim: target module identity, poll cadence, protocol variant,
//     hardware allow-list
//   - api / websocket: diagnostics HTTP server and live sample stream
//   - mqtt: telemetry sample mirror (optional)
//   - influxdb: trace sink (optional)
//   - logging: level, format, output
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	if cfg.Shim.Supports(info.VendorID, info.ProductID) { ... }
package config
