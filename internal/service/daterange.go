package service

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal images

	"github.com/justinsenglish/crave.services/internal/domain"
)

// DefaultTimezone is the business timezone of the franchise network.
const DefaultTimezone = "America/Denver"

const calendarDateLayout = "2006-01-02"

// Localizer turns calendar dates into UTC instants covering whole days in one timezone.
type Localizer struct {
	loc *time.Location
	now func() time.Time
}

// NewLocalizer returns a Localizer for the IANA zone tz (DefaultTimezone when empty).
func NewLocalizer(tz string) (*Localizer, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return &Localizer{loc: loc, now: time.Now}, nil
}

// WithClock returns a copy of l that reads "today" from now.
func (l *Localizer) WithClock(now func() time.Time) *Localizer {
	return &Localizer{loc: l.loc, now: now}
}

// Location returns the configured zone.
func (l *Localizer) Location() *time.Location {
	return l.loc
}

// Today is the current calendar date in the configured zone.
func (l *Localizer) Today() domain.CalendarDate {
	y, m, d := l.now().In(l.loc).Date()
	return domain.CalendarDate{Year: y, Month: m, Day: d}
}

// Window anchors start to 00:00:00.000 and end to 23:59:59.999 local time.
// A nil bound means today.
func (l *Localizer) Window(start, end *domain.CalendarDate) (domain.DateWindow, error) {
	today := l.Today()
	if start == nil {
		start = &today
	}
	if end == nil {
		end = &today
	}

	from := time.Date(start.Year, start.Month, start.Day, 0, 0, 0, 0, l.loc)
	to := time.Date(end.Year, end.Month, end.Day, 23, 59, 59, int(999*time.Millisecond), l.loc)

	if to.Before(from) {
		return domain.DateWindow{}, &domain.ErrInvalidDateRange{Start: start.String(), End: end.String()}
	}

	return domain.DateWindow{Start: from.UTC(), End: to.UTC()}, nil
}

// ParseCalendarDate reads YYYY-MM-DD or an RFC 3339 timestamp. For a timestamp
// only the date as written is kept; its time and offset are ignored.
// ok is false when s is empty.
func ParseCalendarDate(s string) (date domain.CalendarDate, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.CalendarDate{}, false, nil
	}

	if len(s) > len(calendarDateLayout) {
		if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
			return domain.CalendarDate{}, false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
		}
		s = s[:len(calendarDateLayout)]
	}

	t, err := time.Parse(calendarDateLayout, s)
	if err != nil {
		return domain.CalendarDate{}, false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	y, m, d := t.Date()
	return domain.CalendarDate{Year: y, Month: m, Day: d}, true, nil
}
