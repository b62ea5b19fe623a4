package usb

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/rs/zerolog/log"
)

// Available reports whether the host USB stack can be initialised. It is
// meant to be checked once at startup before constructing a Stack.
// gousb panics when libusb cannot be initialised, hence the recover.
func Available() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	ctx := gousb.NewContext()
	defer ctx.Close()
	return true
}

// GousbStack implements Stack on top of google/gousb (libusb).
type GousbStack struct {
	ctx *gousb.Context
}

// Verify GousbStack implements Stack interface.
var _ Stack = (*GousbStack)(nil)

// NewStack initialises the host USB stack.
func NewStack() *GousbStack {
	return &GousbStack{ctx: gousb.NewContext()}
}

// Devices opens every device on the bus. Devices that cannot be opened
// (typically a permissions problem) are skipped with a warning rather than
// failing the whole scan.
func (s *GousbStack) Devices() ([]Device, error) {
	devs, err := s.ctx.OpenDevices(func(*gousb.DeviceDesc) bool { return true })
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("failed to open devices: %w", err)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Some devices could not be opened")
	}

	out := make([]Device, 0, len(devs))
	for _, d := range devs {
		out = append(out, &gousbDevice{dev: d})
	}
	return out, nil
}

// Close releases the libusb context.
func (s *GousbStack) Close() error {
	return s.ctx.Close()
}

type gousbDevice struct {
	dev *gousb.Device
}

func (d *gousbDevice) SerialNumber() (string, error) {
	return d.dev.SerialNumber()
}

func (d *gousbDevice) Product() (string, error) {
	return d.dev.Product()
}

func (d *gousbDevice) Manufacturer() (string, error) {
	return d.dev.Manufacturer()
}

func (d *gousbDevice) VendorID() uint16 {
	return uint16(d.dev.Desc.Vendor)
}

func (d *gousbDevice) ProductID() uint16 {
	return uint16(d.dev.Desc.Product)
}

func (d *gousbDevice) Interfaces() ([]InterfaceDesc, error) {
	num, err := d.dev.ActiveConfigNum()
	if err != nil {
		return nil, fmt.Errorf("failed to get active configuration: %w", err)
	}
	cfg, ok := d.dev.Desc.Configs[num]
	if !ok {
		return nil, fmt.Errorf("active configuration %d not described", num)
	}

	var out []InterfaceDesc
	for _, intf := range cfg.Interfaces {
		// Alternate settings beyond the default are not used by HID probes.
		alt := intf.AltSettings[0]
		id := InterfaceDesc{
			Number: intf.Number,
			Class:  uint8(alt.Class),
		}
		for _, ep := range alt.Endpoints {
			id.Endpoints = append(id.Endpoints, EndpointDesc{
				Address:       uint8(ep.Address),
				Number:        ep.Number,
				MaxPacketSize: ep.MaxPacketSize,
			})
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *gousbDevice) SetAutoDetach(enable bool) error {
	return d.dev.SetAutoDetach(enable)
}

func (d *gousbDevice) Claim(number int) (Interface, error) {
	num, err := d.dev.ActiveConfigNum()
	if err != nil {
		return nil, fmt.Errorf("failed to get active configuration: %w", err)
	}
	cfg, err := d.dev.Config(num)
	if err != nil {
		return nil, fmt.Errorf("failed to select configuration %d: %w", num, err)
	}
	intf, err := cfg.Interface(number, 0)
	if err != nil {
		_ = cfg.Close()
		return nil, fmt.Errorf("failed to claim interface %d: %w", number, err)
	}
	return &gousbInterface{cfg: cfg, intf: intf}, nil
}

func (d *gousbDevice) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	return d.dev.Control(rType, request, val, idx, data)
}

func (d *gousbDevice) Close() error {
	return d.dev.Close()
}

type gousbInterface struct {
	cfg  *gousb.Config
	intf *gousb.Interface
}

func (i *gousbInterface) InEndpoint(number int) (InEndpoint, error) {
	return i.intf.InEndpoint(number)
}

func (i *gousbInterface) OutEndpoint(number int) (OutEndpoint, error) {
	return i.intf.OutEndpoint(number)
}

func (i *gousbInterface) Release() {
	i.intf.Close()
	if err := i.cfg.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to release configuration")
	}
}
