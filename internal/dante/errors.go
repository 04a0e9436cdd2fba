package dante

import "errors"

var (
	// ErrInvalidAddress is returned for device addresses that are not IPv4 literals.
	ErrInvalidAddress = errors.New("invalid device address")

	// ErrInvalidChannel is returned for channel numbers outside 1..65535.
	ErrInvalidChannel = errors.New("invalid channel number")

	// ErrUnknownDevice is returned when a command needs cached state for a
	// device that has not been discovered.
	ErrUnknownDevice = errors.New("unknown device")
)
