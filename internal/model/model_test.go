package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"09:00", 9 * time.Hour, false},
		{"18:30", 18*time.Hour + 30*time.Minute, false},
		{"07:05:30", 7*time.Hour + 5*time.Minute + 30*time.Second, false},
		{"24:00", 24 * time.Hour, false},
		{"24:30", 0, true},
		{"9", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"12:30abc", 0, true},
		{"09:00:xx", 0, true},
		{"09:00:00:00", 0, true},
		{"+9:00", 0, true},
		{"09:", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseClock(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAvailabilityRule_Validate(t *testing.T) {
	ok := AvailabilityRule{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "18:00"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}

	bad := []AvailabilityRule{
		{DayOfWeek: 7, StartTime: "09:00", EndTime: "18:00"},
		{DayOfWeek: -1, StartTime: "09:00", EndTime: "18:00"},
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "09:00"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"},
		{DayOfWeek: 1, StartTime: "nine", EndTime: "18:00"},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRule) {
			t.Fatalf("rule %+v: expected ErrInvalidRule, got %v", r, err)
		}
	}
}

func TestCalendarDate_KeepsLocalDay(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	got := time.Time(CalendarDate(time.Date(2025, time.January, 8, 0, 30, 0, 0, rome)))
	want := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("CalendarDate = %s, want %s", got, want)
	}
}

func TestAppointmentStatus_Occupying(t *testing.T) {
	occupying := map[AppointmentStatus]bool{
		AppointmentStatusScheduled:   true,
		AppointmentStatusConfirmed:   true,
		AppointmentStatusRescheduled: false,
		AppointmentStatusCompleted:   false,
		AppointmentStatusCancelled:   false,
		AppointmentStatusNoShow:      false,
	}
	for status, want := range occupying {
		if got := status.Occupying(); got != want {
			t.Fatalf("%s.Occupying() = %v, want %v", status, got, want)
		}
	}
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	allowed := [][2]AppointmentStatus{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed},
		{AppointmentStatusScheduled, AppointmentStatusCancelled},
		{AppointmentStatusScheduled, AppointmentStatusNoShow},
		{AppointmentStatusScheduled, AppointmentStatusRescheduled},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted},
	}
	for _, tr := range allowed {
		if !tr[0].CanTransitionTo(tr[1]) {
			t.Fatalf("%s -> %s should be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]AppointmentStatus{
		{AppointmentStatusConfirmed, AppointmentStatusScheduled},
		{AppointmentStatusCompleted, AppointmentStatusScheduled},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed},
		{AppointmentStatusScheduled, AppointmentStatusCompleted},
	}
	for _, tr := range denied {
		if tr[0].CanTransitionTo(tr[1]) {
			t.Fatalf("%s -> %s should be rejected", tr[0], tr[1])
		}
	}
}

func TestAppointment_BeforeCreateRejectsOversizedDuration(t *testing.T) {
	a := &Appointment{
		ScheduledFor:    time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
		DurationMinutes: MaxAppointmentDuration + 1,
	}
	if err := a.BeforeCreate(nil); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestAppointment_BeforeCreateDefaults(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	a := &Appointment{AgentID: uuid.New(), ContactID: uuid.New(), ScheduledFor: time.Date(2025, time.January, 6, 10, 0, 0, 0, rome)}
	if err := a.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}

	if a.ID == uuid.Nil {
		t.Fatalf("id not assigned")
	}
	if a.DurationMinutes != DefaultAppointmentDuration || a.Status != AppointmentStatusScheduled || a.BookingMethod != BookingMethodManual {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if a.ScheduledFor.Location() != time.UTC {
		t.Fatalf("scheduled_for not normalised to UTC: %s", a.ScheduledFor)
	}
	if !a.EndsAt.Equal(time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("ends_at = %s, want 10:00 UTC", a.EndsAt)
	}
}
