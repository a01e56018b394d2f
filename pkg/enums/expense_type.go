package enums

import "fmt"

// ExpenseType groups ad hoc operating expenses in accounting summaries.
type ExpenseType string

const (
	ExpenseTypeFuel        ExpenseType = "fuel"
	ExpenseTypeSalary      ExpenseType = "salary"
	ExpenseTypeRent        ExpenseType = "rent"
	ExpenseTypeMaintenance ExpenseType = "maintenance"
	ExpenseTypeUtilities   ExpenseType = "utilities"
	ExpenseTypeOther       ExpenseType = "other"
)

var validExpenseTypes = []ExpenseType{
	ExpenseTypeFuel,
	ExpenseTypeSalary,
	ExpenseTypeRent,
	ExpenseTypeMaintenance,
	ExpenseTypeUtilities,
	ExpenseTypeOther,
}

// String implements fmt.Stringer.
func (e ExpenseType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpenseType.
func (e ExpenseType) IsValid() bool {
	for _, candidate := range validExpenseTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpenseType converts raw input into a ExpenseType.
func ParseExpenseType(value string) (ExpenseType, error) {
	for _, candidate := range validExpenseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense type %q", value)
}
