package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fraperfra/TELEMARKETING/internal/logger"
	"github.com/fraperfra/TELEMARKETING/internal/model"
)

// BookAppointment finds the next free slot and inserts a scheduled
// appointment for it. Failures are *BookingError values:
//   - OutcomeNoAvailability: nothing free in the horizon (or nothing configured);
//   - OutcomeConflict: the store's overlap guard rejected the insert, search again;
//   - OutcomeFailure: any other store error;
//   - OutcomeInvalidRequest: bad ids or duration, or an unknown contact.
//
// Linking the contact to the appointment afterwards is best-effort.
func (s *Scheduler) BookAppointment(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	log := logger.FromContext(ctx, s.opts.Logger)

	if req.ContactID == uuid.Nil {
		return nil, bookingErr(OutcomeInvalidRequest, fmt.Errorf("%w: contact id is required", ErrInvalidRequest))
	}
	if req.Method == "" {
		req.Method = model.BookingMethodAutoAI
	}
	if req.Method != model.BookingMethodAutoAI && req.Method != model.BookingMethodManual {
		return nil, bookingErr(OutcomeInvalidRequest, fmt.Errorf("%w: unknown booking method %q", ErrInvalidRequest, req.Method))
	}

	slot, err := s.FindNextSlot(ctx, SlotQuery{
		AgentID:         req.AgentID,
		DurationMinutes: req.DurationMinutes,
		Timeframe:       req.Timeframe,
		From:            req.From,
	})
	switch {
	case errors.Is(err, ErrNoAvailabilityConfigured):
		return nil, bookingErr(OutcomeNoAvailability, err)
	case errors.Is(err, ErrInvalidRequest):
		return nil, bookingErr(OutcomeInvalidRequest, err)
	case err != nil:
		return nil, bookingErr(OutcomeFailure, err)
	case slot == nil:
		log.Info("No slot available for booking", "agent_id", req.AgentID, "timeframe", req.Timeframe)
		return nil, bookingErr(OutcomeNoAvailability, ErrNoAvailability)
	}

	contact, err := s.contacts.GetContact(ctx, req.ContactID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && contact == nil) {
		return nil, bookingErr(OutcomeInvalidRequest, fmt.Errorf("%w: %s", ErrContactNotFound, req.ContactID))
	}
	if err != nil {
		return nil, bookingErr(OutcomeFailure, fmt.Errorf("get contact: %w", err))
	}

	bookedBy := req.BookedBy
	if bookedBy == nil {
		agentID := req.AgentID
		bookedBy = &agentID
	}

	appt := &model.Appointment{
		OrganizationID:  contact.OrganizationID,
		AgentID:         req.AgentID,
		ContactID:       req.ContactID,
		BookedBy:        bookedBy,
		Title:           appointmentTitle(contact),
		Description:     appointmentDescription(contact),
		Location:        contact.Address,
		ScheduledFor:    slot.Start,
		DurationMinutes: slot.DurationMinutes,
		Status:          model.AppointmentStatusScheduled,
		BookingMethod:   req.Method,
	}

	if err := s.appointments.InsertAppointment(ctx, appt); err != nil {
		if errors.Is(err, model.ErrAppointmentOverlap) {
			log.Warn("Slot taken before insert", "agent_id", req.AgentID, "start", slot.Start)
			return nil, bookingErr(OutcomeConflict, err)
		}
		log.Error("Appointment insert failed", "agent_id", req.AgentID, "contact_id", req.ContactID, "error", err)
		return nil, bookingErr(OutcomeFailure, err)
	}

	if err := s.contacts.UpdateContactBookingRef(ctx, req.ContactID, appt.ID); err != nil {
		log.Warn("Failed to link contact to appointment",
			"contact_id", req.ContactID,
			"appointment_id", appt.ID,
			"error", err,
		)
	}

	log.Info("Appointment booked",
		"appointment_id", appt.ID,
		"agent_id", appt.AgentID,
		"contact_id", appt.ContactID,
		"scheduled_for", appt.ScheduledFor,
		"method", appt.BookingMethod,
	)
	return appt, nil
}

func appointmentTitle(c *model.Contact) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Venditore"
	}
	return "Sopralluogo - " + name
}

func appointmentDescription(c *model.Contact) string {
	return strings.TrimSpace("Valutazione immobile in " + c.Address)
}
