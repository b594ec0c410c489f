package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
)

// OccupyingStatuses are the statuses that block the agent's calendar.
var OccupyingStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
}

func (s AppointmentStatus) Occupying() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed,
		AppointmentStatusRescheduled,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed:   {AppointmentStatusCompleted},
	AppointmentStatusRescheduled: {AppointmentStatusCompleted},
	AppointmentStatusCancelled:   {AppointmentStatusCompleted},
	AppointmentStatusNoShow:      {AppointmentStatusCompleted},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type BookingMethod string

const (
	BookingMethodManual BookingMethod = "manual"
	BookingMethodAutoAI BookingMethod = "auto_ai"
)

const (
	DefaultAppointmentDuration = 60
	MaxAppointmentDuration     = 24 * 60
)

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`
	AgentID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_appointments_agent_time,priority:1"`
	ContactID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookedBy       *uuid.UUID `gorm:"type:uuid"`

	Title       string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
	Location    string `gorm:"type:text"`

	ScheduledFor    time.Time `gorm:"not null;index:idx_appointments_agent_time,priority:2"`
	EndsAt          time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`

	Status        AppointmentStatus `gorm:"type:varchar(32);not null;index"`
	BookingMethod BookingMethod     `gorm:"type:varchar(16);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Contact *Contact `gorm:"foreignKey:ContactID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Duration falls back to the default length for rows stored without one.
func (a *Appointment) Duration() time.Duration {
	if a.DurationMinutes <= 0 {
		return DefaultAppointmentDuration * time.Minute
	}
	return time.Duration(a.DurationMinutes) * time.Minute
}

// End is the exclusive end of the occupied interval.
func (a *Appointment) End() time.Time {
	return a.ScheduledFor.Add(a.Duration())
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = DefaultAppointmentDuration
	}
	if a.DurationMinutes > MaxAppointmentDuration {
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, a.DurationMinutes)
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	if a.BookingMethod == "" {
		a.BookingMethod = BookingMethodManual
	}
	a.ScheduledFor = a.ScheduledFor.UTC()
	a.EndsAt = a.End()
	return nil
}
