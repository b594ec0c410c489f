package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fraperfra/TELEMARKETING/internal/calendar"
	"github.com/fraperfra/TELEMARKETING/internal/model"
)

// AvailabilityStore reads an agent's weekly rules and dated exceptions.
type AvailabilityStore interface {
	ListAvailabilityRules(ctx context.Context, agentID uuid.UUID, onlyActive bool) ([]model.AvailabilityRule, error)
	ListAvailabilityExceptions(ctx context.Context, agentID uuid.UUID, date time.Time) ([]model.AvailabilityException, error)
}

// AppointmentStore reads the occupying appointments and performs the single
// booking write. InsertAppointment must report a rejected overlap as
// model.ErrAppointmentOverlap.
type AppointmentStore interface {
	ListOccupyingAppointments(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
	InsertAppointment(ctx context.Context, appt *model.Appointment) error
}

// ContactStore is the contact side of a booking.
type ContactStore interface {
	GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	UpdateContactBookingRef(ctx context.Context, contactID, appointmentID uuid.UUID) error
}

// Timeframe is a time-of-day preference band applied to a candidate's start hour.
type Timeframe string

const (
	TimeframeAny       Timeframe = ""
	TimeframeMorning   Timeframe = "morning"   // start < 12:00
	TimeframeAfternoon Timeframe = "afternoon" // 12:00 <= start < 18:00
	TimeframeEvening   Timeframe = "evening"   // start >= 18:00
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case TimeframeAny, TimeframeMorning, TimeframeAfternoon, TimeframeEvening:
		return tf, nil
	default:
		return TimeframeAny, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidRequest, s)
	}
}

// Allows checks the local start hour of t against the band.
func (tf Timeframe) Allows(t time.Time) bool {
	h := t.Hour()
	switch tf {
	case TimeframeMorning:
		return h < 12
	case TimeframeAfternoon:
		return h >= 12 && h < 18
	case TimeframeEvening:
		return h >= 18
	default:
		return true
	}
}

// LeadTemperature drives how far ahead suggestions are searched.
type LeadTemperature string

const (
	LeadHot  LeadTemperature = "HOT"
	LeadWarm LeadTemperature = "WARM"
	LeadCold LeadTemperature = "COLD"
)

func ParseLeadTemperature(s string) (LeadTemperature, error) {
	switch lt := LeadTemperature(strings.ToUpper(strings.TrimSpace(s))); lt {
	case LeadHot, LeadWarm, LeadCold:
		return lt, nil
	default:
		return "", fmt.Errorf("%w: unknown lead temperature %q", ErrInvalidRequest, s)
	}
}

// HorizonDays: hot leads should be seen within days, cold ones can wait two weeks.
func (lt LeadTemperature) HorizonDays() int {
	switch lt {
	case LeadHot:
		return 3
	case LeadWarm:
		return 7
	default:
		return 14
	}
}

// MaxDurationMinutes caps a requested duration. No availability window is
// longer than a day.
const MaxDurationMinutes = model.MaxAppointmentDuration

// TimeSlot is a search result. It is computed on demand and never persisted.
type TimeSlot struct {
	Start           time.Time
	DurationMinutes int
	IsFree          bool
	// Human-readable label in the calendar zone, e.g. "martedì 7 gennaio alle 09:00".
	Formatted string
}

func (s TimeSlot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

func (s TimeSlot) Range() calendar.TimeRange {
	return calendar.TimeRange{Start: s.Start, End: s.End()}
}

// SlotQuery parametrises a search. A zero DurationMinutes uses the configured
// default; a zero From uses the scheduler clock.
type SlotQuery struct {
	AgentID         uuid.UUID
	DurationMinutes int
	Timeframe       Timeframe
	From            time.Time
}

// BookingRequest asks for the next free slot to be reserved for a contact.
type BookingRequest struct {
	ContactID       uuid.UUID
	AgentID         uuid.UUID
	Timeframe       Timeframe
	DurationMinutes int
	// Defaults to auto_ai; the manual booking screen passes manual.
	Method   model.BookingMethod
	BookedBy *uuid.UUID
	From     time.Time
}
