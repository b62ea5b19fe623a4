package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is returned when no attached probe matches the
	// requested serial number.
	ErrDeviceNotFound = errors.New("probe not found")

	// ErrInterfaceNotFound is returned when the device exposes no
	// HID-class interface.
	ErrInterfaceNotFound = errors.New("no HID interface on device")

	// ErrEndpointNotFound is returned when the HID interface exposes no
	// IN endpoint.
	ErrEndpointNotFound = errors.New("no IN endpoint on HID interface")

	// ErrClosed is returned by Write and Read after the transport has
	// been closed or its receive pump has stopped.
	ErrClosed = errors.New("transport is closed")

	// ErrPacketTooLarge is returned when a payload exceeds the report size.
	ErrPacketTooLarge = errors.New("payload exceeds report size")

	// ErrTooManyPending is returned when more writes are outstanding than
	// the receive queue can hold responses for.
	ErrTooManyPending = errors.New("too many outstanding requests")

	// ErrQueueOverflow indicates the device produced more responses than
	// requests, which violates the request/response protocol.
	ErrQueueOverflow = errors.New("receive queue overflow")
)

// TransferError wraps a failed USB transfer with the operation that issued it.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("usb %s transfer: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
