// Package probe exposes CMSIS-DAP debug probes as byte-packet duplex
// channels. It discovers probes on the USB bus, selects one by serial
// number and exchanges fixed-size HID reports with it; interpreting the
// report contents is left to the protocol layer above.
package probe

import (
	"context"
	"fmt"

	"github.com/sukidog/dapprobe/internal/usb"
)

// ProductMarker is the substring a probe's product string must contain to
// be recognised as part of the CMSIS-DAP family.
const ProductMarker = "CMSIS-DAP"

// DefaultReportSize is the report size used when the device exposes no OUT
// endpoint to take the size from.
const DefaultReportSize = 64

// HID Set_Report request over endpoint 0, used as the write path for
// probes without a dedicated OUT endpoint.
const (
	setReportRequestType = 0x21   // host to device, class, interface
	setReportRequest     = 0x09   // Set_Report
	setReportValue       = 0x0200 // output report, report ID 0
)

// Descriptor is an immutable snapshot of a matched probe's identity.
type Descriptor struct {
	SerialNumber    string
	VendorID        uint16
	ProductID       uint16
	ProductName     string
	VendorName      string
	InterfaceNumber int
	HasOutEndpoint  bool
	MaxPacketSize   int
}

// Transport is a byte-packet duplex channel to one probe.
//
// The lifecycle is strict: a transport is constructed closed, Open makes it
// usable exactly once, and Close is valid exactly once while open. Open on
// an open transport, or Close on one that is not open, is a programming
// error and panics. Write and Read after Close fail with ErrClosed.
type Transport interface {
	// Open claims the probe and starts the receive pump.
	Open() error

	// Write transmits one padded report to the probe. Each Write arms the
	// receive pump for exactly one response read.
	Write(data []byte) error

	// Read blocks until the response to the oldest outstanding Write is
	// available, the context is cancelled or the transport is closed.
	Read(ctx context.Context) ([]byte, error)

	// Close stops the receive pump and releases the probe.
	Close() error

	// UniqueID returns the probe's serial number.
	UniqueID() string

	// SetPacketCount records how many packets the probe can buffer. The
	// transport imposes no limit of its own; the value is a hint kept for
	// the protocol layer.
	SetPacketCount(count int)
}

// Detect returns descriptors for every CMSIS-DAP probe attached to the
// host, preferring the endpoint-level USB stack and falling back to the OS
// HID driver when libusb is unavailable.
func Detect() ([]Descriptor, error) {
	if usb.Available() {
		stack := usb.NewStack()
		defer func() { _ = stack.Close() }()
		return NewEnumerator(stack).ListDevices()
	}
	return EnumerateHID()
}

// Find re-resolves a previously seen probe by serial number.
func Find(serial string) (Descriptor, error) {
	descs, err := Detect()
	if err != nil {
		return Descriptor{}, err
	}
	for _, d := range descs {
		if d.SerialNumber == serial {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("probe %s: %w", serial, ErrDeviceNotFound)
}

// NewTransport returns an unopened transport for the probe with the given
// serial number, selecting the backend the same way Detect does.
func NewTransport(serial string) Transport {
	if usb.Available() {
		return NewUSBTransport(serial)
	}
	return NewHIDTransport(serial)
}
