package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

// fakeStore implements every store interface in memory. InsertAppointment
// emulates the overlap guard.
type fakeStore struct {
	mu sync.Mutex

	rules        []model.AvailabilityRule
	exceptions   map[string]bool
	appointments []model.Appointment
	contacts     map[uuid.UUID]*model.Contact
	linked       map[uuid.UUID]uuid.UUID

	rulesErr     error
	listApptErr  error
	insertErr    error
	updateRefErr error

	ruleReads int
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		exceptions: make(map[string]bool),
		contacts:   make(map[uuid.UUID]*model.Contact),
		linked:     make(map[uuid.UUID]uuid.UUID),
	}
}

func exceptionKey(agentID uuid.UUID, date time.Time) string {
	return agentID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeStore) addRule(agentID uuid.UUID, day time.Weekday, start, end string) {
	f.rules = append(f.rules, model.AvailabilityRule{
		ID:        uuid.New(),
		AgentID:   agentID,
		DayOfWeek: int(day),
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
}

func (f *fakeStore) addException(agentID uuid.UUID, date time.Time) {
	f.exceptions[exceptionKey(agentID, date)] = true
}

func (f *fakeStore) addAppointment(agentID uuid.UUID, start time.Time, minutes int, status model.AppointmentStatus) {
	f.appointments = append(f.appointments, model.Appointment{
		ID:              uuid.New(),
		AgentID:         agentID,
		ContactID:       uuid.New(),
		ScheduledFor:    start,
		DurationMinutes: minutes,
		Status:          status,
	})
}

func (f *fakeStore) addContact(c *model.Contact) {
	f.contacts[c.ID] = c
}

func (f *fakeStore) ListAvailabilityRules(_ context.Context, agentID uuid.UUID, onlyActive bool) ([]model.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ruleReads++
	if f.rulesErr != nil {
		return nil, f.rulesErr
	}
	var out []model.AvailabilityRule
	for _, r := range f.rules {
		if r.AgentID != agentID || (onlyActive && !r.IsActive) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) ListAvailabilityExceptions(_ context.Context, agentID uuid.UUID, date time.Time) ([]model.AvailabilityException, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exceptions[exceptionKey(agentID, date)] {
		return []model.AvailabilityException{{ID: uuid.New(), AgentID: agentID, ExceptionDate: model.CalendarDate(date)}}, nil
	}
	return nil, nil
}

func (f *fakeStore) ListOccupyingAppointments(_ context.Context, agentID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listApptErr != nil {
		return nil, f.listApptErr
	}
	var out []model.Appointment
	for _, a := range f.appointments {
		if a.AgentID != agentID || !a.Status.Occupying() {
			continue
		}
		if a.ScheduledFor.Before(from) || !a.ScheduledFor.Before(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) InsertAppointment(_ context.Context, appt *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, a := range f.appointments {
		if a.AgentID == appt.AgentID && a.Status.Occupying() &&
			a.ScheduledFor.Before(appt.End()) && appt.ScheduledFor.Before(a.End()) {
			return model.ErrAppointmentOverlap
		}
	}
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	f.appointments = append(f.appointments, *appt)
	return nil
}

func (f *fakeStore) GetContact(_ context.Context, id uuid.UUID) (*model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) UpdateContactBookingRef(_ context.Context, contactID, appointmentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateRefErr != nil {
		return f.updateRefErr
	}
	if _, ok := f.contacts[contactID]; !ok {
		return errors.New("contact vanished")
	}
	f.linked[contactID] = appointmentID
	return nil
}
