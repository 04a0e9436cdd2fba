package protocol

import "errors"

var (
	// ErrInvalidChannelType is returned for channel types other than "rx" and "tx".
	ErrInvalidChannelType = errors.New("invalid channel type: must be 'tx' or 'rx'")

	// ErrFrameTooLarge is returned when the arguments do not fit a 16-bit frame length.
	ErrFrameTooLarge = errors.New("frame exceeds maximum length")
)
