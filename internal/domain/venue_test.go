package domain

import (
	"testing"
	"time"
)

func TestValidateWindows(t *testing.T) {
	valid := []AvailabilityWindow{
		{DayOfWeek: time.Monday, Open: NewClockTime(9, 0), Close: NewClockTime(12, 0)},
		{DayOfWeek: time.Monday, Open: NewClockTime(13, 0), Close: NewClockTime(17, 0)},
		{DayOfWeek: time.Tuesday, Open: NewClockTime(9, 0), Close: NewClockTime(17, 0)},
	}
	if err := ValidateWindows(valid); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	closeBeforeOpen := []AvailabilityWindow{
		{DayOfWeek: time.Monday, Open: NewClockTime(17, 0), Close: NewClockTime(9, 0)},
	}
	if err := ValidateWindows(closeBeforeOpen); err == nil {
		t.Error("Expected error for close before open")
	}

	overlapping := []AvailabilityWindow{
		{DayOfWeek: time.Monday, Open: NewClockTime(9, 0), Close: NewClockTime(13, 0)},
		{DayOfWeek: time.Monday, Open: NewClockTime(12, 0), Close: NewClockTime(17, 0)},
	}
	if err := ValidateWindows(overlapping); err == nil {
		t.Error("Expected error for overlapping same-day windows")
	}
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("09:30")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ct != NewClockTime(9, 30) {
		t.Errorf("ParseClockTime = %d, want %d", ct, NewClockTime(9, 30))
	}
	if ct.String() != "09:30" {
		t.Errorf("String() = %q, want %q", ct.String(), "09:30")
	}

	if _, err := ParseClockTime("9am"); err == nil {
		t.Error("Expected error for malformed time")
	}
}

func TestVenue_WindowsFor(t *testing.T) {
	v := &Venue{
		Windows: []AvailabilityWindow{
			{DayOfWeek: time.Monday, Open: NewClockTime(9, 0), Close: NewClockTime(17, 0)},
			{DayOfWeek: time.Friday, Open: NewClockTime(9, 0), Close: NewClockTime(22, 0)},
		},
	}

	if got := v.WindowsFor(time.Monday); len(got) != 1 {
		t.Errorf("WindowsFor(Monday) returned %d windows, want 1", len(got))
	}
	if got := v.WindowsFor(time.Sunday); len(got) != 0 {
		t.Errorf("WindowsFor(Sunday) returned %d windows, want 0", len(got))
	}
}
