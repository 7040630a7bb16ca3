package shim

import "errors"

var (
	// ErrUnknownInterface is returned by the driver factory for
	// interface names it does not implement.
	ErrUnknownInterface = errors.New("shim: unknown interface")

	// ErrUnsupportedHardware marks a headset that matches no configured
	// vendor/product pair.
	ErrUnsupportedHardware = errors.New("shim: unsupported hardware")

	// ErrSlotSignature marks a registration slot whose function does not
	// have the expected signature; the host is a generation the shim was
	// not built against.
	ErrSlotSignature = errors.New("shim: unexpected registration slot signature")
)
