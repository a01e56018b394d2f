package enums

import "fmt"

// SummaryPeriod selects the window used by accounting summaries.
type SummaryPeriod string

const (
	SummaryPeriodDaily   SummaryPeriod = "daily"
	SummaryPeriodWeekly  SummaryPeriod = "weekly"
	SummaryPeriodMonthly SummaryPeriod = "monthly"
)

var validSummaryPeriods = []SummaryPeriod{
	SummaryPeriodDaily,
	SummaryPeriodWeekly,
	SummaryPeriodMonthly,
}

// String implements fmt.Stringer.
func (s SummaryPeriod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SummaryPeriod.
func (s SummaryPeriod) IsValid() bool {
	for _, candidate := range validSummaryPeriods {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSummaryPeriod converts raw input into a SummaryPeriod.
func ParseSummaryPeriod(value string) (SummaryPeriod, error) {
	for _, candidate := range validSummaryPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid summary period %q", value)
}
