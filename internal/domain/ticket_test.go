package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNextTicketStatus(t *testing.T) {
	tests := []struct {
		name    string
		current TicketStatus
		event   TicketEvent
		want    TicketStatus
		wantErr bool
	}{
		{"payment activates reserved", TicketStatusReserved, TicketEventPaymentSuccess, TicketStatusActive, false},
		{"expire reserved", TicketStatusReserved, TicketEventExpire, TicketStatusExpired, false},
		{"cancel reserved", TicketStatusReserved, TicketEventCancel, TicketStatusCancelled, false},
		{"cancel active", TicketStatusActive, TicketEventCancel, TicketStatusCancelled, false},
		{"check in active", TicketStatusActive, TicketEventCheckIn, TicketStatusUsed, false},
		{"expire active is invalid", TicketStatusActive, TicketEventExpire, "", true},
		{"check in reserved is invalid", TicketStatusReserved, TicketEventCheckIn, "", true},
		{"payment on active is invalid", TicketStatusActive, TicketEventPaymentSuccess, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextTicketStatus(tt.current, tt.event)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Expected ErrInvalidTransition, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextTicketStatus(%s, %s) = %s, want %s", tt.current, tt.event, got, tt.want)
			}
		})
	}
}

func TestNextTicketStatus_TerminalStatesRejectAllEvents(t *testing.T) {
	terminals := []TicketStatus{TicketStatusCancelled, TicketStatusExpired, TicketStatusUsed}
	events := []TicketEvent{TicketEventPaymentSuccess, TicketEventExpire, TicketEventCancel, TicketEventCheckIn}

	for _, status := range terminals {
		for _, ev := range events {
			if _, err := NextTicketStatus(status, ev); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("NextTicketStatus(%s, %s): expected ErrInvalidTransition, got %v", status, ev, err)
			}
		}
	}
}

func TestTicketStatus_HoldsUnit(t *testing.T) {
	holding := []TicketStatus{TicketStatusReserved, TicketStatusActive}
	for _, s := range holding {
		if !s.HoldsUnit() {
			t.Errorf("%s should hold a unit", s)
		}
	}

	released := []TicketStatus{TicketStatusCancelled, TicketStatusExpired}
	for _, s := range released {
		if s.HoldsUnit() {
			t.Errorf("%s should not hold a unit", s)
		}
	}
}

func TestTicket_Apply_ExpireClearsDeadline(t *testing.T) {
	now := time.Now()
	deadline := now.Add(-time.Minute)
	tk := &Ticket{Status: TicketStatusReserved, ReservationExpiresAt: &deadline}

	if err := tk.Apply(TicketEventExpire, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tk.Status != TicketStatusExpired {
		t.Errorf("Status = %s, want Expired", tk.Status)
	}
	if tk.ReservationExpiresAt != nil {
		t.Error("Expected reservation deadline to be cleared")
	}
}

func TestTicketType_Available(t *testing.T) {
	tt := &TicketType{Capacity: 100, SoldCount: 37}
	if tt.Available() != 63 {
		t.Errorf("Available() = %d, want 63", tt.Available())
	}
}
