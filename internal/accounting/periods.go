package accounting

import (
	"fmt"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
)

// Window is a half-open [Start, End) UTC time range.
type Window struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns the Monday that opens the ISO week containing t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayWindow(at time.Time) Window {
	start := startOfDay(at)
	return Window{Label: start.Format("2006-01-02"), Start: start, End: start.AddDate(0, 0, 1)}
}

func weekWindow(at time.Time) Window {
	start := startOfWeek(at)
	year, week := start.ISOWeek()
	return Window{Label: fmt.Sprintf("%d-W%02d", year, week), Start: start, End: start.AddDate(0, 0, 7)}
}

func monthWindow(at time.Time) Window {
	start := startOfMonth(at)
	return Window{Label: start.Format("2006-01"), Start: start, End: start.AddDate(0, 1, 0)}
}

// WindowFor returns the period window that contains at.
func WindowFor(period enums.SummaryPeriod, at time.Time) (Window, error) {
	switch period {
	case enums.SummaryPeriodDaily:
		return dayWindow(at), nil
	case enums.SummaryPeriodWeekly:
		return weekWindow(at), nil
	case enums.SummaryPeriodMonthly:
		return monthWindow(at), nil
	default:
		return Window{}, fmt.Errorf("unknown period %q", period)
	}
}

// lastWeeks returns count consecutive week windows ending with the one
// containing at, oldest first.
func lastWeeks(at time.Time, count int) []Window {
	out := make([]Window, count)
	current := startOfWeek(at)
	for i := count - 1; i >= 0; i-- {
		out[i] = weekWindow(current)
		current = current.AddDate(0, 0, -7)
	}
	return out
}

// lastMonths returns count consecutive month windows ending with the one
// containing at, oldest first.
func lastMonths(at time.Time, count int) []Window {
	out := make([]Window, count)
	current := startOfMonth(at)
	for i := count - 1; i >= 0; i-- {
		out[i] = monthWindow(current)
		current = current.AddDate(0, -1, 0)
	}
	return out
}
