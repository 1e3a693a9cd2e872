package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) // Sunday

// monday returns the Monday following the test's fixed "now" at the
// given time of day.
func monday(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func mondayWindow(open, close string) domain.AvailabilityWindow {
	o, err := domain.ParseClockTime(open)
	if err != nil {
		panic(err)
	}
	c, err := domain.ParseClockTime(close)
	if err != nil {
		panic(err)
	}
	return domain.AvailabilityWindow{DayOfWeek: time.Monday, Open: o, Close: c}
}

func TestValidate_SingleDayWithinWindow(t *testing.T) {
	windows := []domain.AvailabilityWindow{mondayWindow("09:00", "17:00")}

	res := Validate(now, windows, monday(9, 0), monday(11, 0))

	if !res.Valid {
		t.Errorf("Expected valid, got invalid: %s", res.Reason)
	}
}

func TestValidate_SingleDayBeforeOpen(t *testing.T) {
	windows := []domain.AvailabilityWindow{mondayWindow("09:00", "17:00")}

	res := Validate(now, windows, monday(8, 0), monday(10, 0))

	if res.Valid {
		t.Error("Expected invalid for request starting before opening time")
	}
	if res.FailingDay != time.Monday {
		t.Errorf("FailingDay = %s, want Monday", res.FailingDay)
	}
	if len(res.DayWindows) != 1 {
		t.Errorf("Expected the Monday windows to be reported, got %d", len(res.DayWindows))
	}
}

func TestValidate_StartInPast(t *testing.T) {
	windows := []domain.AvailabilityWindow{mondayWindow("09:00", "17:00")}

	past := now.Add(-time.Hour)
	res := Validate(now, windows, past, past.Add(2*time.Hour))

	if res.Valid {
		t.Error("Expected invalid for start in the past")
	}
	if res.Reason != "start must be in the future" {
		t.Errorf("Reason = %q", res.Reason)
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	windows := []domain.AvailabilityWindow{mondayWindow("09:00", "17:00")}

	res := Validate(now, windows, monday(11, 0), monday(9, 0))

	if res.Valid {
		t.Error("Expected invalid for end before start")
	}
	if res.Reason != "end must be after start" {
		t.Errorf("Reason = %q", res.Reason)
	}
}

func TestValidate_MultiDayMissingWindowReportsDay(t *testing.T) {
	// Monday and Wednesday are open all day; Tuesday has no window, so a
	// Monday-to-Wednesday request must fail and name Tuesday.
	windows := []domain.AvailabilityWindow{
		{DayOfWeek: time.Monday, Open: 0, Close: domain.EndOfDay},
		{DayOfWeek: time.Wednesday, Open: 0, Close: domain.EndOfDay},
	}

	from := monday(10, 0)
	to := from.AddDate(0, 0, 2) // Wednesday 10:00
	res := Validate(now, windows, from, to)

	if res.Valid {
		t.Fatal("Expected invalid for span crossing a closed day")
	}
	if res.FailingDay != time.Tuesday {
		t.Errorf("FailingDay = %s, want Tuesday", res.FailingDay)
	}
	if !strings.Contains(res.Reason, "Tuesday") {
		t.Errorf("Reason should name the closed day, got %q", res.Reason)
	}
}

func TestValidate_MultiDayFirstDayPartial(t *testing.T) {
	// First day needs [from, 23:59]; a window closing at 17:00 cannot
	// contain it even though the requested start fits.
	windows := []domain.AvailabilityWindow{
		mondayWindow("09:00", "17:00"),
		{DayOfWeek: time.Tuesday, Open: 0, Close: domain.EndOfDay},
	}

	from := monday(10, 0)
	to := from.AddDate(0, 0, 1)
	res := Validate(now, windows, from, to)

	if res.Valid {
		t.Error("Expected invalid: first-day sub-interval extends to 23:59")
	}
	if res.FailingDay != time.Monday {
		t.Errorf("FailingDay = %s, want Monday", res.FailingDay)
	}
}

func TestValidate_MultiDayFullCoverage(t *testing.T) {
	windows := []domain.AvailabilityWindow{
		{DayOfWeek: time.Monday, Open: domain.NewClockTime(8, 0), Close: domain.EndOfDay},
		{DayOfWeek: time.Tuesday, Open: 0, Close: domain.EndOfDay},
		{DayOfWeek: time.Wednesday, Open: 0, Close: domain.NewClockTime(18, 0)},
	}

	from := monday(10, 0)
	to := from.AddDate(0, 0, 2).Add(2 * time.Hour) // Wednesday 12:00
	res := Validate(now, windows, from, to)

	if !res.Valid {
		t.Errorf("Expected valid, got invalid: %s", res.Reason)
	}
}

func TestValidate_NoSingleWindowContains(t *testing.T) {
	// Two adjoining windows cover 08:00-12:00 and 12:00-17:00, but no
	// single window contains 10:00-14:00.
	windows := []domain.AvailabilityWindow{
		mondayWindow("08:00", "12:00"),
		mondayWindow("12:00", "17:00"),
	}

	res := Validate(now, windows, monday(10, 0), monday(14, 0))

	if res.Valid {
		t.Error("Expected invalid: partial coverage by multiple windows does not satisfy the day")
	}
}

func TestValidate_EndExactlyAtClose(t *testing.T) {
	windows := []domain.AvailabilityWindow{mondayWindow("09:00", "17:00")}

	res := Validate(now, windows, monday(15, 0), monday(17, 0))

	if !res.Valid {
		t.Errorf("Expected valid for end exactly at closing time, got: %s", res.Reason)
	}
}
