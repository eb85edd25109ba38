package domain

import (
	"fmt"
	"time"
)

// QueryTimeLayout is how window bounds are rendered for the order search.
const QueryTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// CalendarDate is a year/month/day with no time-of-day or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DateWindow is an inclusive pair of UTC instants covering whole local days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// StartParam renders the start bound for the order search query.
func (w DateWindow) StartParam() string {
	return w.Start.UTC().Format(QueryTimeLayout)
}

// EndParam renders the end bound for the order search query.
func (w DateWindow) EndParam() string {
	return w.End.UTC().Format(QueryTimeLayout)
}
