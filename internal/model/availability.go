package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidRule = errors.New("invalid availability rule")

// agent_availability holds recurring weekly windows. Several rows per agent and
// weekday are allowed (split shifts); they are not merged.
type AvailabilityRule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AgentID uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_agent_day,priority:1"`

	// 0 = Sunday … 6 = Saturday, same numbering as time.Weekday.
	DayOfWeek int `gorm:"not null;index:idx_availability_agent_day,priority:2"`

	// Local wall-clock in the calendar zone, "HH:MM".
	StartTime string `gorm:"type:varchar(8);not null"`
	EndTime   string `gorm:"type:varchar(8);not null"`

	IsActive bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AvailabilityRule) TableName() string { return "agent_availability" }

func (r *AvailabilityRule) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return r.Validate()
}

// Validate checks the weekday range and that the window is non-empty.
func (r *AvailabilityRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidRule, r.DayOfWeek)
	}
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidRule, err)
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidRule, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start_time %s must be before end_time %s", ErrInvalidRule, r.StartTime, r.EndTime)
	}
	return nil
}

// availability_exceptions: any row for a date blocks the whole day.
type AvailabilityException struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AgentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_exception_agent_date,priority:1"`

	ExceptionDate datatypes.Date `gorm:"not null;uniqueIndex:idx_exception_agent_date,priority:2"`

	Reason string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
}

func (e *AvailabilityException) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.ExceptionDate = CalendarDate(time.Time(e.ExceptionDate))
	return nil
}

// CalendarDate keeps only the Y/M/D of t (read in t's own location) and pins
// it to UTC midnight, the canonical form dates are stored and queried in.
func CalendarDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM or HH:MM:SS", s)
	}
	fields := [3]int{}
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || strings.Trim(p, "0123456789") != "" {
			return 0, fmt.Errorf("parse clock %q: bad field %q", s, p)
		}
		fields[i], _ = strconv.Atoi(p)
	}
	h, m, sec := fields[0], fields[1], fields[2]
	if h < 0 || h > 24 || m < 0 || m > 59 || sec < 0 || sec > 59 || (h == 24 && (m > 0 || sec > 0)) {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
