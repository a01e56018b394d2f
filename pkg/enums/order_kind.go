package enums

import "fmt"

// OrderKind distinguishes stock-backed vendor orders from service-only client orders.
type OrderKind string

const (
	OrderKindVendor OrderKind = "vendor"
	OrderKindClient OrderKind = "client"
)

var validOrderKinds = []OrderKind{
	OrderKindVendor,
	OrderKindClient,
}

// String implements fmt.Stringer.
func (o OrderKind) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderKind.
func (o OrderKind) IsValid() bool {
	for _, candidate := range validOrderKinds {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderKind converts raw input into a OrderKind.
func ParseOrderKind(value string) (OrderKind, error) {
	for _, candidate := range validOrderKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order kind %q", value)
}
