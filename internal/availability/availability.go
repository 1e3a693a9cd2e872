// Package availability validates requested booking spans against a
// venue's recurring weekly open windows. Validation is pure: it never
// touches storage beyond the supplied window list.
package availability

import (
	"fmt"
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// Result is the outcome of validating a requested span.
type Result struct {
	Valid      bool
	Reason     string
	FailingDay time.Weekday
	// DayWindows holds the venue's windows for the failing day, so the
	// caller can report what would have been acceptable.
	DayWindows []domain.AvailabilityWindow
}

func valid() Result {
	return Result{Valid: true}
}

func invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

func invalidDay(reason string, day time.Weekday, windows []domain.AvailabilityWindow) Result {
	return Result{Valid: false, Reason: reason, FailingDay: day, DayWindows: windows}
}

// Validate checks that the requested span [from, to) fits the venue's
// weekly windows. The span is decomposed into one sub-interval per
// calendar day it touches; each day passes only if a single window
// fully contains its sub-interval.
func Validate(now time.Time, windows []domain.AvailabilityWindow, from, to time.Time) Result {
	if !from.After(now) {
		return invalid("start must be in the future")
	}
	if !to.After(from) {
		return invalid("end must be after start")
	}

	byDay := make(map[time.Weekday][]domain.AvailabilityWindow)
	for _, w := range windows {
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	firstDay := dateOf(from)
	lastDay := dateOf(to)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		subStart := domain.ClockTime(0)
		subEnd := domain.EndOfDay

		if day.Equal(firstDay) {
			subStart = domain.ClockTimeOf(from)
		}
		if day.Equal(lastDay) {
			subEnd = domain.ClockTimeOf(to)
		}

		weekday := day.Weekday()
		dayWindows := byDay[weekday]
		if len(dayWindows) == 0 {
			return invalidDay(fmt.Sprintf("venue is not available on %s", weekday), weekday, nil)
		}

		if !covered(dayWindows, subStart, subEnd) {
			reason := fmt.Sprintf("requested time %s-%s on %s is outside the venue's availability", subStart, subEnd, weekday)
			return invalidDay(reason, weekday, dayWindows)
		}
	}

	return valid()
}

// covered reports whether some single window fully contains the
// sub-interval. Partial coverage by multiple windows does not count.
func covered(windows []domain.AvailabilityWindow, start, end domain.ClockTime) bool {
	for _, w := range windows {
		if start >= w.Open && end <= w.Close {
			return true
		}
	}
	return false
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
