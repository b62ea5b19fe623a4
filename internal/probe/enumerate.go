package probe

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sukidog/dapprobe/internal/usb"
)

// Enumerator scans the bus for CMSIS-DAP probes. It only captures identity
// snapshots; no device handle survives a call.
type Enumerator struct {
	stack usb.Stack
}

// NewEnumerator creates an enumerator over the given USB stack. The caller
// retains ownership of the stack.
func NewEnumerator(stack usb.Stack) *Enumerator {
	return &Enumerator{stack: stack}
}

// ListDevices returns a descriptor for every attached device whose product
// string contains the CMSIS-DAP marker, in bus-enumeration order. Every
// device handle is released before returning, candidates included.
func (e *Enumerator) ListDevices() ([]Descriptor, error) {
	devs, err := e.stack.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	var found []Descriptor
	for _, dev := range devs {
		desc, ok := describe(dev)
		if err := dev.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release device")
		}
		if ok {
			found = append(found, desc)
		}
	}
	return found, nil
}

// FindBySerial re-resolves a previously seen probe by serial number.
func (e *Enumerator) FindBySerial(serial string) (Descriptor, error) {
	descs, err := e.ListDevices()
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

// describe captures a device's identity if it is a CMSIS-DAP candidate.
// Devices that fail the product-string check, or whose descriptors cannot
// be read at all, are skipped.
func describe(dev usb.Device) (Descriptor, bool) {
	product, err := dev.Product()
	if err != nil || !strings.Contains(product, ProductMarker) {
		return Descriptor{}, false
	}
	serial, err := dev.SerialNumber()
	if err != nil {
		log.Warn().Err(err).Str("product", product).Msg("Probe has no readable serial number")
		return Descriptor{}, false
	}
	// Descriptive only; a missing manufacturer string is not a reason to
	// drop the probe.
	vendor, _ := dev.Manufacturer()

	desc := Descriptor{
		SerialNumber:    serial,
		VendorID:        dev.VendorID(),
		ProductID:       dev.ProductID(),
		ProductName:     product,
		VendorName:      vendor,
		InterfaceNumber: -1,
		MaxPacketSize:   DefaultReportSize,
	}

	intfs, err := dev.Interfaces()
	if err != nil {
		log.Debug().Err(err).Str("serial", serial).Msg("Could not describe interfaces")
		return desc, true
	}
	for _, intf := range intfs {
		if intf.Class != usb.ClassHID {
			continue
		}
		desc.InterfaceNumber = intf.Number
		for _, ep := range intf.Endpoints {
			if ep.In() {
				desc.MaxPacketSize = ep.MaxPacketSize
			} else {
				desc.HasOutEndpoint = true
			}
		}
		break
	}
	return desc, true
}
