package probe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukidog/dapprobe/internal/probe"
	"github.com/sukidog/dapprobe/internal/usb"
)

// fakeStack is a stateful in-memory USB stack hosting at most one device.
type fakeStack struct {
	dev    *fakeDevice
	closed bool
}

func (s *fakeStack) Devices() ([]usb.Device, error) {
	if s.dev == nil {
		return nil, nil
	}
	return []usb.Device{s.dev}, nil
}

func (s *fakeStack) Close() error {
	s.closed = true
	return nil
}

type controlCall struct {
	rType, request uint8
	val, idx       uint16
	data           []byte
}

// fakeDevice emulates a probe: reports written to it are passed to respond,
// whose return value is queued as the next IN frame.
type fakeDevice struct {
	serial, product, vendor string
	vid, pid                uint16
	intfs                   []usb.InterfaceDesc
	detachErr               error
	respond                 func(payload []byte) []byte

	in       *fakeInEndpoint
	out      *fakeOutEndpoint
	controls []controlCall
	claimed  bool
	released bool
	closed   bool
}

func (d *fakeDevice) SerialNumber() (string, error) { return d.serial, nil }
func (d *fakeDevice) Product() (string, error)      { return d.product, nil }
func (d *fakeDevice) Manufacturer() (string, error) { return d.vendor, nil }
func (d *fakeDevice) VendorID() uint16              { return d.vid }
func (d *fakeDevice) ProductID() uint16             { return d.pid }

func (d *fakeDevice) Interfaces() ([]usb.InterfaceDesc, error) { return d.intfs, nil }

func (d *fakeDevice) SetAutoDetach(bool) error { return d.detachErr }

func (d *fakeDevice) Claim(int) (usb.Interface, error) {
	d.claimed = true
	return &fakeInterface{dev: d}, nil
}

func (d *fakeDevice) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	payload := append([]byte(nil), data...)
	d.controls = append(d.controls, controlCall{rType, request, val, idx, payload})
	d.reply(payload)
	return len(data), nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDevice) reply(payload []byte) {
	if d.respond == nil {
		return
	}
	if frame := d.respond(payload); frame != nil {
		d.in.frames <- frame
	}
}

type fakeInterface struct {
	dev *fakeDevice
}

func (i *fakeInterface) InEndpoint(int) (usb.InEndpoint, error)   { return i.dev.in, nil }
func (i *fakeInterface) OutEndpoint(int) (usb.OutEndpoint, error) { return i.dev.out, nil }
func (i *fakeInterface) Release()                                 { i.dev.released = true }

type fakeInEndpoint struct {
	frames chan []byte
}

func (e *fakeInEndpoint) Read(buf []byte) (int, error) {
	frame, ok := <-e.frames
	if !ok {
		return 0, errors.New("endpoint gone")
	}
	return copy(buf, frame), nil
}

type fakeOutEndpoint struct {
	dev    *fakeDevice
	writes [][]byte
}

func (e *fakeOutEndpoint) Write(buf []byte) (int, error) {
	payload := append([]byte(nil), buf...)
	e.writes = append(e.writes, payload)
	e.dev.reply(payload)
	return len(buf), nil
}

// newFakeDevice builds a probe with IN endpoint 0x81 on HID interface 3 and,
// when withOut is set, OUT endpoint 0x01, both with 64 byte packets.
func newFakeDevice(serial string, withOut bool) *fakeDevice {
	endpoints := []usb.EndpointDesc{{Address: 0x81, Number: 1, MaxPacketSize: 64}}
	if withOut {
		endpoints = append(endpoints, usb.EndpointDesc{Address: 0x01, Number: 1, MaxPacketSize: 64})
	}
	d := &fakeDevice{
		serial:  serial,
		product: "Arm CMSIS-DAP v2",
		vendor:  "Arm",
		vid:     0x0d28,
		pid:     0x0204,
		intfs: []usb.InterfaceDesc{
			{Number: 0, Class: 0x08}, // mass storage, must be skipped
			{Number: 3, Class: usb.ClassHID, Endpoints: endpoints},
		},
		in: &fakeInEndpoint{frames: make(chan []byte, 64)},
	}
	d.out = &fakeOutEndpoint{dev: d}
	return d
}

func openTransport(t *testing.T, dev *fakeDevice) (*probe.USBTransport, *fakeStack) {
	t.Helper()
	stack := &fakeStack{dev: dev}
	tr := probe.NewUSBTransport(dev.serial, probe.WithStack(func() usb.Stack { return stack }))
	require.NoError(t, tr.Open())
	return tr, stack
}

func echo64(payload []byte) []byte {
	return append([]byte(nil), payload...)
}

func TestUSBTransport_WritePadsToReportSize(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.respond = func([]byte) []byte {
		frame := make([]byte, 64)
		for i := range frame {
			frame[i] = 0xFF
		}
		return frame
	}

	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	require.NoError(t, tr.Write([]byte{0x00, 0x01}))

	expected := make([]byte, 64)
	expected[1] = 0x01
	require.Len(t, dev.out.writes, 1)
	assert.Equal(t, expected, dev.out.writes[0])

	got, err := tr.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 64)
	for i, b := range got {
		require.Equalf(t, byte(0xFF), b, "byte %d", i)
	}
}

func TestUSBTransport_ReadsMatchWritesInOrder(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.respond = echo64

	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	const n = 8
	for i := 0; i < n; i++ {
		require.NoError(t, tr.Write([]byte{byte(i), 0xA5}))
	}
	for i := 0; i < n; i++ {
		got, err := tr.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, byte(i), got[0], "response %d out of order", i)
		assert.Equal(t, byte(0xA5), got[1])
	}
}

func TestUSBTransport_ControlFallbackWithoutOutEndpoint(t *testing.T) {
	dev := newFakeDevice("ABC123", false)
	dev.out = nil
	dev.respond = echo64

	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	require.NoError(t, tr.Write([]byte{0x02}))

	require.Len(t, dev.controls, 1)
	call := dev.controls[0]
	assert.Equal(t, uint8(0x21), call.rType)
	assert.Equal(t, uint8(0x09), call.request)
	assert.Equal(t, uint16(0x0200), call.val)
	assert.Equal(t, uint16(3), call.idx)

	expected := make([]byte, 64)
	expected[0] = 0x02
	assert.Equal(t, expected, call.data)

	got, err := tr.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestUSBTransport_OpenDeviceNotFound(t *testing.T) {
	stack := &fakeStack{dev: newFakeDevice("OTHER", true)}
	tr := probe.NewUSBTransport("ABC123", probe.WithStack(func() usb.Stack { return stack }))

	err := tr.Open()
	require.ErrorIs(t, err, probe.ErrDeviceNotFound)
	assert.True(t, stack.dev.closed, "non-matching device must be released")
	assert.True(t, stack.closed)
}

func TestUSBTransport_OpenNoHIDInterface(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.intfs = []usb.InterfaceDesc{{Number: 0, Class: 0x08}}
	stack := &fakeStack{dev: dev}
	tr := probe.NewUSBTransport("ABC123", probe.WithStack(func() usb.Stack { return stack }))

	err := tr.Open()
	require.ErrorIs(t, err, probe.ErrInterfaceNotFound)
	assert.False(t, dev.claimed, "failed open must not leave the interface claimed")
	assert.True(t, dev.closed)
	assert.True(t, stack.closed)
}

func TestUSBTransport_OpenNoInEndpoint(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.intfs = []usb.InterfaceDesc{{
		Number: 3,
		Class:  usb.ClassHID,
		Endpoints: []usb.EndpointDesc{
			{Address: 0x01, Number: 1, MaxPacketSize: 64},
		},
	}}
	stack := &fakeStack{dev: dev}
	tr := probe.NewUSBTransport("ABC123", probe.WithStack(func() usb.Stack { return stack }))

	err := tr.Open()
	require.ErrorIs(t, err, probe.ErrEndpointNotFound)
	assert.False(t, dev.claimed)
	assert.True(t, dev.closed)
}

func TestUSBTransport_DetachFailureIsNonFatal(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.detachErr = errors.New("operation not supported")

	tr, _ := openTransport(t, dev)
	require.NoError(t, tr.Close())
}

func TestUSBTransport_DescriptorCapturedOnOpen(t *testing.T) {
	dev := newFakeDevice("ABC123", true)

	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	d := tr.Descriptor()
	assert.Equal(t, "ABC123", d.SerialNumber)
	assert.Equal(t, uint16(0x0d28), d.VendorID)
	assert.Equal(t, uint16(0x0204), d.ProductID)
	assert.Equal(t, "Arm CMSIS-DAP v2", d.ProductName)
	assert.Equal(t, "Arm", d.VendorName)
	assert.Equal(t, 3, d.InterfaceNumber)
	assert.True(t, d.HasOutEndpoint)
	assert.Equal(t, 64, d.MaxPacketSize)
	assert.Equal(t, "ABC123", tr.UniqueID())
}

func TestUSBTransport_CloseUnblocksIdlePump(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	tr, stack := openTransport(t, dev)

	// No write is pending, so the pump is parked waiting for a signal.
	// Close must still wake and join it promptly.
	finished := make(chan error, 1)
	go func() { finished <- tr.Close() }()

	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not terminate the receive pump")
	}

	assert.True(t, dev.released)
	assert.True(t, dev.closed)
	assert.True(t, stack.closed)
}

func TestUSBTransport_ClosedFailsFast(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	tr, _ := openTransport(t, dev)
	require.NoError(t, tr.Close())

	err := tr.Write([]byte{0x01})
	assert.ErrorIs(t, err, probe.ErrClosed)

	_, err = tr.Read(context.Background())
	assert.ErrorIs(t, err, probe.ErrClosed)
}

func TestUSBTransport_LifecycleViolationsPanic(t *testing.T) {
	t.Run("double open", func(t *testing.T) {
		dev := newFakeDevice("ABC123", true)
		tr, _ := openTransport(t, dev)
		defer func() { require.NoError(t, tr.Close()) }()
		assert.Panics(t, func() { _ = tr.Open() })
	})

	t.Run("close before open", func(t *testing.T) {
		tr := probe.NewUSBTransport("ABC123")
		assert.Panics(t, func() { _ = tr.Close() })
	})

	t.Run("double close", func(t *testing.T) {
		dev := newFakeDevice("ABC123", true)
		tr, _ := openTransport(t, dev)
		require.NoError(t, tr.Close())
		assert.Panics(t, func() { _ = tr.Close() })
	})

	t.Run("write before open", func(t *testing.T) {
		tr := probe.NewUSBTransport("ABC123")
		assert.Panics(t, func() { _ = tr.Write([]byte{0x01}) })
	})
}

func TestUSBTransport_WriteRejectsOversizedPayload(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	err := tr.Write(make([]byte, 65))
	assert.ErrorIs(t, err, probe.ErrPacketTooLarge)
	assert.Empty(t, dev.out.writes)
}

func TestUSBTransport_ReadHonoursContext(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUSBTransport_PumpReadErrorPropagates(t *testing.T) {
	dev := newFakeDevice("ABC123", true)
	dev.respond = func([]byte) []byte {
		close(dev.in.frames) // device drops off the bus mid-request
		return nil
	}

	tr, _ := openTransport(t, dev)
	defer func() { require.NoError(t, tr.Close()) }()

	require.NoError(t, tr.Write([]byte{0x01}))

	_, err := tr.Read(context.Background())
	require.Error(t, err)
	var terr *probe.TransferError
	assert.ErrorAs(t, err, &terr)
}
