package domain

import (
	"fmt"
	"sort"
	"time"
)

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// EndOfDay is the latest representable time of day (23:59).
const EndOfDay ClockTime = 23*60 + 59

// NewClockTime builds a ClockTime from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockTimeOf extracts the time of day from a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// ParseClockTime parses "15:04" into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return ClockTimeOf(t), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// AvailabilityWindow is a recurring weekly open period for a venue.
type AvailabilityWindow struct {
	DayOfWeek time.Weekday
	Open      ClockTime
	Close     ClockTime
}

// Validate checks that the window closes after it opens.
func (w AvailabilityWindow) Validate() error {
	if w.Close <= w.Open {
		return fmt.Errorf("window on %s: close %s must be after open %s", w.DayOfWeek, w.Close, w.Open)
	}
	return nil
}

// Venue is a bookable event centre with recurring weekly availability.
type Venue struct {
	ID         string
	Name       string
	Capacity   int
	BookingFee float64
	Active     bool
	Windows    []AvailabilityWindow
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WindowsFor returns the venue's windows for the given weekday.
func (v *Venue) WindowsFor(day time.Weekday) []AvailabilityWindow {
	var out []AvailabilityWindow
	for _, w := range v.Windows {
		if w.DayOfWeek == day {
			out = append(out, w)
		}
	}
	return out
}

// ValidateWindows checks each window and rejects overlapping windows on
// the same weekday.
func ValidateWindows(windows []AvailabilityWindow) error {
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	byDay := make(map[time.Weekday][]AvailabilityWindow)
	for _, w := range windows {
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	for day, ws := range byDay {
		sort.Slice(ws, func(i, j int) bool { return ws[i].Open < ws[j].Open })
		for i := 1; i < len(ws); i++ {
			if ws[i].Open < ws[i-1].Close {
				return fmt.Errorf("overlapping windows on %s: %s-%s and %s-%s",
					day, ws[i-1].Open, ws[i-1].Close, ws[i].Open, ws[i].Close)
			}
		}
	}

	return nil
}
