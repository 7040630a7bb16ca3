// Package aapvr simulates the vendor headset driver whose device
// registrations the shim intercepts. The default target module identity
// in the configuration is this package's import path.
package aapvr
