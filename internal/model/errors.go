package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAppointmentOverlap is returned by stores when the overlap guard rejects
	// an appointment insert.
	ErrAppointmentOverlap = errors.New("appointment overlaps an occupying appointment")
	// ErrInvalidTransition is returned when a status change is not allowed by the status machine.
	ErrInvalidTransition = errors.New("invalid appointment status transition")
	// ErrInvalidDuration rejects appointments longer than a day.
	ErrInvalidDuration = errors.New("invalid appointment duration")
)
