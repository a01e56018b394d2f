package enums

import "fmt"

// RemittanceStatus tracks whether a remittance has been settled.
type RemittanceStatus string

const (
	RemittanceStatusPending RemittanceStatus = "PENDING"
	RemittanceStatusPaid    RemittanceStatus = "PAID"
)

var validRemittanceStatuses = []RemittanceStatus{
	RemittanceStatusPending,
	RemittanceStatusPaid,
}

// String implements fmt.Stringer.
func (r RemittanceStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RemittanceStatus.
func (r RemittanceStatus) IsValid() bool {
	for _, candidate := range validRemittanceStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRemittanceStatus converts raw input into a RemittanceStatus.
func ParseRemittanceStatus(value string) (RemittanceStatus, error) {
	for _, candidate := range validRemittanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid remittance status %q", value)
}
