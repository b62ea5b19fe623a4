package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	karalabehid "github.com/karalabe/hid"
	"github.com/rs/zerolog/log"
)

// hidDevice is the slice of karalabe/hid's device surface the transport
// needs; it allows substituting a fake in tests.
type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// HIDTransport drives a probe through the OS HID driver via karalabe/hid.
// It is the fallback when the endpoint-level USB stack is unavailable: the
// driver owns the interface claim and endpoint handling, and the transport
// exchanges whole reports. The pump and lifecycle discipline match
// USBTransport.
type HIDTransport struct {
	serial string
	open   func(serial string) (hidDevice, Descriptor, error)

	desc Descriptor
	dev  hidDevice

	packetCount int
	pump        *rxPump

	mu     sync.Mutex
	opened bool
	closed bool
}

// Verify HIDTransport implements Transport interface.
var _ Transport = (*HIDTransport)(nil)

// HIDTransportOption is a functional option for configuring a HIDTransport.
type HIDTransportOption func(*HIDTransport)

// WithHIDOpener sets a custom device opener for testing.
func WithHIDOpener(fn func(serial string) (hidDevice, Descriptor, error)) HIDTransportOption {
	return func(t *HIDTransport) {
		t.open = fn
	}
}

// NewHIDTransport creates a closed transport for the probe with the given
// serial number, backed by the OS HID driver.
func NewHIDTransport(serial string, opts ...HIDTransportOption) *HIDTransport {
	t := &HIDTransport{
		serial: serial,
		open:   openHIDDevice,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EnumerateHID returns a descriptor for every CMSIS-DAP probe visible to
// the OS HID driver, in enumeration order.
func EnumerateHID() ([]Descriptor, error) {
	infos, err := karalabehid.Enumerate(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate HID devices: %w", err)
	}

	var found []Descriptor
	for _, info := range infos {
		if !strings.Contains(info.Product, ProductMarker) {
			continue
		}
		found = append(found, descriptorFromHID(info))
	}
	return found, nil
}

func descriptorFromHID(info karalabehid.DeviceInfo) Descriptor {
	return Descriptor{
		SerialNumber:    info.Serial,
		VendorID:        info.VendorID,
		ProductID:       info.ProductID,
		ProductName:     info.Product,
		VendorName:      info.Manufacturer,
		InterfaceNumber: info.Interface,
		// The HID driver always provides a write path.
		HasOutEndpoint: true,
		MaxPacketSize:  DefaultReportSize,
	}
}

func openHIDDevice(serial string) (hidDevice, Descriptor, error) {
	infos, err := karalabehid.Enumerate(0, 0)
	if err != nil {
		return nil, Descriptor{}, fmt.Errorf("failed to enumerate HID devices: %w", err)
	}
	for _, info := range infos {
		if !strings.Contains(info.Product, ProductMarker) || info.Serial != serial {
			continue
		}
		dev, err := info.Open()
		if err != nil {
			return nil, Descriptor{}, fmt.Errorf("failed to open probe %s: %w", serial, err)
		}
		return dev, descriptorFromHID(info), nil
	}
	return nil, Descriptor{}, fmt.Errorf("probe %s: %w", serial, ErrDeviceNotFound)
}

// Open opens the probe through the HID driver and starts the receive pump.
func (t *HIDTransport) Open() error {
	t.mu.Lock()
	if t.opened || t.closed {
		t.mu.Unlock()
		panic("probe: Open called on a transport that is not closed")
	}
	t.mu.Unlock()

	dev, desc, err := t.open(t.serial)
	if err != nil {
		return err
	}

	t.dev = dev
	t.desc = desc
	t.pump = newRxPump()
	go t.pump.run(DefaultReportSize, t.readReport)

	t.mu.Lock()
	t.opened = true
	t.mu.Unlock()

	log.Debug().Str("serial", t.serial).Msg("HID transport opened")
	return nil
}

func (t *HIDTransport) readReport(buf []byte) (int, error) {
	n, err := t.dev.Read(buf)
	if err != nil {
		return 0, &TransferError{Op: "hid read", Err: err}
	}
	return n, nil
}

// Write pads data to the report size, prefixes the zero report ID the HID
// driver expects and sends the report, arming the pump first.
func (t *HIDTransport) Write(data []byte) error {
	t.mu.Lock()
	opened := t.opened
	t.mu.Unlock()
	if !opened {
		panic("probe: Write on a transport that is not open")
	}
	if t.pump.stopped() {
		return t.pump.failure()
	}
	if len(data) > DefaultReportSize {
		return fmt.Errorf("%d bytes into a %d byte report: %w", len(data), DefaultReportSize, ErrPacketTooLarge)
	}

	report := make([]byte, DefaultReportSize+1)
	copy(report[1:], data)

	if err := t.pump.signal(); err != nil {
		return err
	}
	if _, err := t.dev.Write(report); err != nil {
		return &TransferError{Op: "hid write", Err: err}
	}
	return nil
}

// Read returns the oldest received report.
func (t *HIDTransport) Read(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	opened := t.opened
	t.mu.Unlock()
	if !opened {
		panic("probe: Read on a transport that is not open")
	}
	return t.pump.pop(ctx)
}

// Close stops the receive pump and closes the device handle.
func (t *HIDTransport) Close() error {
	t.mu.Lock()
	if !t.opened || t.closed {
		t.mu.Unlock()
		panic("probe: Close on a transport that is not open")
	}
	t.closed = true
	t.mu.Unlock()

	t.pump.shutdown()
	t.pump.wait()

	err := t.dev.Close()
	log.Debug().Str("serial", t.serial).Msg("HID transport closed")
	return err
}

// UniqueID returns the probe's serial number.
func (t *HIDTransport) UniqueID() string {
	return t.serial
}

// SetPacketCount records the probe's packet buffer depth as a hint for the
// protocol layer; the transport does not restrict it.
func (t *HIDTransport) SetPacketCount(count int) {
	t.packetCount = count
}

// Descriptor returns the identity captured during Open.
func (t *HIDTransport) Descriptor() Descriptor {
	return t.desc
}
