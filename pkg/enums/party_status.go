package enums

import "fmt"

// PartyStatus marks vendors and agents as active or inactive.
type PartyStatus string

const (
	PartyStatusActive   PartyStatus = "active"
	PartyStatusInactive PartyStatus = "inactive"
)

var validPartyStatuses = []PartyStatus{
	PartyStatusActive,
	PartyStatusInactive,
}

// String implements fmt.Stringer.
func (p PartyStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartyStatus.
func (p PartyStatus) IsValid() bool {
	for _, candidate := range validPartyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartyStatus converts raw input into a PartyStatus.
func ParsePartyStatus(value string) (PartyStatus, error) {
	for _, candidate := range validPartyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}
