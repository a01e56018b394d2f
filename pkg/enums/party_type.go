package enums

import "fmt"

// PartyType identifies who a remittance is billed to.
type PartyType string

const (
	PartyTypeVendor PartyType = "vendor"
	PartyTypeClient PartyType = "client"
)

var validPartyTypes = []PartyType{
	PartyTypeVendor,
	PartyTypeClient,
}

// String implements fmt.Stringer.
func (p PartyType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartyType.
func (p PartyType) IsValid() bool {
	for _, candidate := range validPartyTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartyType converts raw input into a PartyType.
func ParsePartyType(value string) (PartyType, error) {
	for _, candidate := range validPartyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid party type %q", value)
}
