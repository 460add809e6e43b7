package analytics

import "time"

// Period is a named backward-looking time window anchored at an end date
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// IsValid checks if the period is a known value
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Days returns the window length of the period
func (p Period) Days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	case PeriodYear:
		return 365
	default:
		return 7
	}
}

// Window is a concrete [Start, End] time range
type Window struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// ResolveWindow turns an optional explicit range plus a period into a
// concrete window. End defaults to now; start defaults to one period
// length before the end.
func ResolveWindow(period Period, start, end *time.Time) Window {
	var w Window
	if end != nil {
		w.End = *end
	} else {
		w.End = time.Now().UTC()
	}
	if start != nil {
		w.Start = *start
	} else {
		if !period.IsValid() {
			period = PeriodWeek
		}
		w.Start = w.End.AddDate(0, 0, -period.Days())
	}
	return w
}

// Previous returns the immediately preceding window of equal length
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	return Window{
		Start: w.Start.Add(-length),
		End:   w.Start,
	}
}
