package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sukidog/dapprobe/internal/usb"
)

// USBTransport drives a probe at the endpoint level through the host USB
// stack: it claims the HID interface itself and talks to its endpoints
// directly, bypassing the OS HID driver.
type USBTransport struct {
	serial   string
	newStack func() usb.Stack

	desc  Descriptor
	stack usb.Stack
	dev   usb.Device
	intf  usb.Interface
	epIn  usb.InEndpoint
	epOut usb.OutEndpoint // nil when the interface has no OUT endpoint

	intfNumber   int
	reportSize   int // writes are padded to this size
	inPacketSize int // the pump reads packets of this size

	packetCount int
	pump        *rxPump

	mu     sync.Mutex
	opened bool
	closed bool
}

// Verify USBTransport implements Transport interface.
var _ Transport = (*USBTransport)(nil)

// USBTransportOption is a functional option for configuring a USBTransport.
type USBTransportOption func(*USBTransport)

// WithStack sets a custom USB stack constructor for testing.
func WithStack(newStack func() usb.Stack) USBTransportOption {
	return func(t *USBTransport) {
		t.newStack = newStack
	}
}

// NewUSBTransport creates a closed transport for the probe with the given
// serial number. The device is not touched until Open.
func NewUSBTransport(serial string, opts ...USBTransportOption) *USBTransport {
	t := &USBTransport{
		serial:   serial,
		newStack: func() usb.Stack { return usb.NewStack() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open locates the probe by serial number, claims its HID interface and
// starts the receive pump. A failed Open leaves nothing claimed.
func (t *USBTransport) Open() error {
	t.mu.Lock()
	if t.opened || t.closed {
		t.mu.Unlock()
		panic("probe: Open called on a transport that is not closed")
	}
	t.mu.Unlock()

	stack := t.newStack()
	dev, err := t.findDevice(stack)
	if err != nil {
		_ = stack.Close()
		return err
	}

	intfs, err := dev.Interfaces()
	if err != nil {
		_ = dev.Close()
		_ = stack.Close()
		return fmt.Errorf("failed to describe interfaces: %w", err)
	}

	number := -1
	var hidIntf usb.InterfaceDesc
	for _, intf := range intfs {
		if intf.Class == usb.ClassHID {
			number = intf.Number
			hidIntf = intf
			break
		}
	}
	if number == -1 {
		_ = dev.Close()
		_ = stack.Close()
		return fmt.Errorf("probe %s: %w", t.serial, ErrInterfaceNotFound)
	}

	var inDesc, outDesc *usb.EndpointDesc
	for i := range hidIntf.Endpoints {
		ep := &hidIntf.Endpoints[i]
		if ep.In() {
			inDesc = ep
		} else {
			outDesc = ep
		}
	}
	if inDesc == nil {
		_ = dev.Close()
		_ = stack.Close()
		return fmt.Errorf("probe %s: %w", t.serial, ErrEndpointNotFound)
	}

	// Some platforms refuse detachment yet the probe still works, so a
	// failure here is logged and ignored.
	if err := dev.SetAutoDetach(true); err != nil {
		log.Warn().Err(err).Str("serial", t.serial).Msg("Failed to detach kernel driver")
	}

	intf, err := dev.Claim(number)
	if err != nil {
		_ = dev.Close()
		_ = stack.Close()
		return &TransferError{Op: "claim", Err: err}
	}

	epIn, err := intf.InEndpoint(inDesc.Number)
	if err != nil {
		intf.Release()
		_ = dev.Close()
		_ = stack.Close()
		return &TransferError{Op: "open in endpoint", Err: err}
	}

	var epOut usb.OutEndpoint
	reportSize := DefaultReportSize
	if outDesc != nil {
		epOut, err = intf.OutEndpoint(outDesc.Number)
		if err != nil {
			intf.Release()
			_ = dev.Close()
			_ = stack.Close()
			return &TransferError{Op: "open out endpoint", Err: err}
		}
		reportSize = outDesc.MaxPacketSize
	}

	product, _ := dev.Product()
	vendor, _ := dev.Manufacturer()
	t.desc = Descriptor{
		SerialNumber:    t.serial,
		VendorID:        dev.VendorID(),
		ProductID:       dev.ProductID(),
		ProductName:     product,
		VendorName:      vendor,
		InterfaceNumber: number,
		HasOutEndpoint:  outDesc != nil,
		MaxPacketSize:   inDesc.MaxPacketSize,
	}

	t.stack = stack
	t.dev = dev
	t.intf = intf
	t.epIn = epIn
	t.epOut = epOut
	t.intfNumber = number
	t.reportSize = reportSize
	t.inPacketSize = inDesc.MaxPacketSize

	t.pump = newRxPump()
	go t.pump.run(t.inPacketSize, t.readPacket)

	t.mu.Lock()
	t.opened = true
	t.mu.Unlock()

	log.Debug().
		Str("serial", t.serial).
		Int("interface", number).
		Bool("outEndpoint", outDesc != nil).
		Msg("Transport opened")
	return nil
}

// findDevice opens the bus device matching the stored serial number and
// releases every other handle.
func (t *USBTransport) findDevice(stack usb.Stack) (usb.Device, error) {
	devs, err := stack.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	var match usb.Device
	for _, dev := range devs {
		if match == nil {
			serial, err := dev.SerialNumber()
			if err == nil && serial == t.serial {
				match = dev
				continue
			}
		}
		_ = dev.Close()
	}
	if match == nil {
		return nil, fmt.Errorf("probe %s: %w", t.serial, ErrDeviceNotFound)
	}
	return match, nil
}

// readPacket performs one infinite-wait read from the IN endpoint. Finite
// timeouts were seen to leave partial reads behind that corrupted the next
// packet, so the read never times out.
func (t *USBTransport) readPacket(buf []byte) (int, error) {
	n, err := t.epIn.Read(buf)
	if err != nil {
		return 0, &TransferError{Op: "interrupt in", Err: err}
	}
	return n, nil
}

// Write pads data with zero bytes to the report size and transmits it,
// arming the receive pump for the response first.
func (t *USBTransport) Write(data []byte) error {
	t.mu.Lock()
	opened := t.opened
	t.mu.Unlock()
	if !opened {
		panic("probe: Write on a transport that is not open")
	}
	if t.pump.stopped() {
		return t.pump.failure()
	}
	if len(data) > t.reportSize {
		return fmt.Errorf("%d bytes into a %d byte report: %w", len(data), t.reportSize, ErrPacketTooLarge)
	}

	packet := make([]byte, t.reportSize)
	copy(packet, data)

	// The pump must be listening before the request is on the wire,
	// otherwise the device could answer before a read is armed.
	if err := t.pump.signal(); err != nil {
		return err
	}

	if t.epOut == nil {
		// No OUT endpoint: send the report through endpoint 0 with a HID
		// class Set_Report request.
		if _, err := t.dev.Control(setReportRequestType, setReportRequest, setReportValue, uint16(t.intfNumber), packet); err != nil {
			return &TransferError{Op: "control", Err: err}
		}
		return nil
	}
	if _, err := t.epOut.Write(packet); err != nil {
		return &TransferError{Op: "interrupt out", Err: err}
	}
	return nil
}

// Read returns the oldest received report. The Nth successful Read returns
// the response to the Nth Write.
func (t *USBTransport) Read(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	opened := t.opened
	t.mu.Unlock()
	if !opened {
		panic("probe: Read on a transport that is not open")
	}
	return t.pump.pop(ctx)
}

// Close stops the receive pump and releases the interface, the device and
// the stack. It does not cancel an in-flight endpoint read; the pump is
// joined once that read completes.
func (t *USBTransport) Close() error {
	t.mu.Lock()
	if !t.opened || t.closed {
		t.mu.Unlock()
		panic("probe: Close on a transport that is not open")
	}
	t.closed = true
	t.mu.Unlock()

	// Wake the pump even when no read is pending so it observes closure.
	t.pump.shutdown()
	t.pump.wait()

	t.intf.Release()
	err := t.dev.Close()
	if cerr := t.stack.Close(); err == nil {
		err = cerr
	}

	log.Debug().Str("serial", t.serial).Msg("Transport closed")
	return err
}

// UniqueID returns the probe's serial number.
func (t *USBTransport) UniqueID() string {
	return t.serial
}

// SetPacketCount records the probe's packet buffer depth as a hint for the
// protocol layer; the transport does not restrict it.
func (t *USBTransport) SetPacketCount(count int) {
	t.packetCount = count
}

// Descriptor returns the identity captured during Open.
func (t *USBTransport) Descriptor() Descriptor {
	return t.desc
}
