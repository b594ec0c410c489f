package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CallStatusAppointmentBooked = "appointment_booked"

// contacts holds the lead being called. Only the fields the booking flow reads or
// writes are modelled here.
type Contact struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`

	Name    string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(32)"`
	Address string `gorm:"type:text"`

	CallStatus    string     `gorm:"type:varchar(32);index"`
	AppointmentID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *Contact) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
