package enums

import "fmt"

// WarehouseStatus is derived from the cached item count versus capacity.
type WarehouseStatus string

const (
	WarehouseStatusActive WarehouseStatus = "active"
	WarehouseStatusFull   WarehouseStatus = "full"
)

var validWarehouseStatuses = []WarehouseStatus{
	WarehouseStatusActive,
	WarehouseStatusFull,
}

// String implements fmt.Stringer.
func (w WarehouseStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WarehouseStatus.
func (w WarehouseStatus) IsValid() bool {
	for _, candidate := range validWarehouseStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWarehouseStatus converts raw input into a WarehouseStatus.
func ParseWarehouseStatus(value string) (WarehouseStatus, error) {
	for _, candidate := range validWarehouseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse status %q", value)
}
