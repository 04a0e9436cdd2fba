package device

import (
	"fmt"
)

// StatusKind enumerates the subscription states an rx channel can report.
type StatusKind uint8

const (
	StatusInactive StatusKind = iota
	StatusUnresolved
	StatusActive
	StatusInvalidFormat
	StatusNoFlows
)

// AudioSubtype distinguishes an active flow carrying audio from one that
// is connected but silent.
type AudioSubtype uint8

const (
	AudioNormal AudioSubtype = iota
	AudioNone
)

// Status is the subscription state of a single rx channel. Audio is only
// meaningful when Kind is StatusActive.
type Status struct {
	Kind  StatusKind
	Audio AudioSubtype
}

// Inactive returns the status of an rx channel with no subscription.
func Inactive() Status { return Status{Kind: StatusInactive} }

// Unresolved returns the status of a subscription whose source has not been found.
func Unresolved() Status { return Status{Kind: StatusUnresolved} }

// Active returns the status of a connected subscription.
func Active(audio AudioSubtype) Status { return Status{Kind: StatusActive, Audio: audio} }

// InvalidFormat returns the status of a subscription with an incompatible channel format.
func InvalidFormat() Status { return Status{Kind: StatusInvalidFormat} }

// NoFlows returns the status of a subscription that could not get a flow allocated.
func NoFlows() Status { return Status{Kind: StatusNoFlows} }

// IsActive reports whether the channel is receiving from its source.
func (s Status) IsActive() bool {
	return s.Kind == StatusActive
}

// String returns a human-readable status label
func (s Status) String() string {
	switch s.Kind {
	case StatusInactive:
		return "inactive"
	case StatusUnresolved:
		return "unresolved"
	case StatusActive:
		if s.Audio == AudioNone {
			return "no audio"
		}
		return "active"
	case StatusInvalidFormat:
		return "incorrect channel format"
	case StatusNoFlows:
		return "no flows"
	default:
		return fmt.Sprintf("unknown(%d)", s.Kind)
	}
}

// MarshalText renders the status as its label so JSON output stays readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a label produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "inactive":
		*s = Inactive()
	case "unresolved":
		*s = Unresolved()
	case "active":
		*s = Active(AudioNormal)
	case "no audio":
		*s = Active(AudioNone)
	case "incorrect channel format":
		*s = InvalidFormat()
	case "no flows":
		*s = NoFlows()
	default:
		return fmt.Errorf("unknown channel status %q", string(text))
	}
	return nil
}
