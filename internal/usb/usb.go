// Package usb abstracts the host USB stack behind small interfaces so the
// probe layer can be tested without hardware.
package usb

//go:generate mockgen -source=usb.go -destination=mocks/usb_mock.go -package=mocks

// DirectionIn is the endpoint-address bit marking device-to-host direction.
const DirectionIn = 0x80

// ClassHID is the USB interface class code for Human Interface Devices.
const ClassHID = 0x03

// EndpointDesc describes one endpoint of an interface.
type EndpointDesc struct {
	Address       uint8
	Number        int
	MaxPacketSize int
}

// In reports whether the endpoint transfers data from device to host.
func (e EndpointDesc) In() bool {
	return e.Address&DirectionIn != 0
}

// InterfaceDesc describes one interface of the active configuration.
type InterfaceDesc struct {
	Number    int
	Class     uint8
	Endpoints []EndpointDesc
}

// Stack is a handle to the host USB stack.
type Stack interface {
	// Devices opens every device currently on the bus and returns the
	// handles in bus-enumeration order. The caller owns the handles and
	// must Close each one.
	Devices() ([]Device, error)

	// Close releases the stack. All device handles must be closed first.
	Close() error
}

// Device is an open handle to a single USB device.
type Device interface {
	// SerialNumber returns the device's serial number string descriptor.
	SerialNumber() (string, error)

	// Product returns the device's product string descriptor.
	Product() (string, error)

	// Manufacturer returns the device's manufacturer string descriptor.
	Manufacturer() (string, error)

	// VendorID returns the device's USB vendor identifier.
	VendorID() uint16

	// ProductID returns the device's USB product identifier.
	ProductID() uint16

	// Interfaces describes the interfaces of the active configuration.
	Interfaces() ([]InterfaceDesc, error)

	// SetAutoDetach arranges for any active kernel driver to be detached
	// before an interface is claimed and reattached after release.
	SetAutoDetach(enable bool) error

	// Claim claims the numbered interface for exclusive use.
	Claim(number int) (Interface, error)

	// Control performs a control transfer on endpoint 0.
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)

	// Close releases the device handle.
	Close() error
}

// Interface is a claimed USB interface.
type Interface interface {
	// InEndpoint opens the numbered IN endpoint for reading.
	InEndpoint(number int) (InEndpoint, error)

	// OutEndpoint opens the numbered OUT endpoint for writing.
	OutEndpoint(number int) (OutEndpoint, error)

	// Release releases the interface claim.
	Release()
}

// InEndpoint reads packets from a device-to-host endpoint.
type InEndpoint interface {
	// Read blocks until the device sends a packet. There is no timeout;
	// cancellation is the caller's responsibility.
	Read(buf []byte) (int, error)
}

// OutEndpoint writes packets to a host-to-device endpoint.
type OutEndpoint interface {
	Write(buf []byte) (int, error)
}
