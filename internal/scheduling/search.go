package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fraperfra/TELEMARKETING/internal/calendar"
	"github.com/fraperfra/TELEMARKETING/internal/logger"
)

// FindNextSlot returns the earliest free slot in the horizon, or nil when
// there is none. An agent without active rules yields ErrNoAvailabilityConfigured.
func (s *Scheduler) FindNextSlot(ctx context.Context, q SlotQuery) (*TimeSlot, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	var found *TimeSlot
	err = s.scan(ctx, q, s.opts.HorizonDays, func(slot TimeSlot) bool {
		found = &slot
		return false
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindSlots repeats FindNextSlot, moving the reference instant Spacing past
// each hit, until count slots are found or a search comes back empty.
// Results are strictly increasing in start time.
func (s *Scheduler) FindSlots(ctx context.Context, q SlotQuery, count int) ([]TimeSlot, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []TimeSlot{}, nil
	}

	slots := make([]TimeSlot, 0, count)
	for len(slots) < count {
		slot, err := s.FindNextSlot(ctx, q)
		if err != nil {
			return nil, err
		}
		if slot == nil {
			break
		}
		slots = append(slots, *slot)
		q.From = slot.Start.Add(s.opts.Spacing)
	}
	return slots, nil
}

func (s *Scheduler) normalize(q SlotQuery) (SlotQuery, error) {
	if q.AgentID == uuid.Nil {
		return q, fmt.Errorf("%w: agent id is required", ErrInvalidRequest)
	}
	if q.DurationMinutes < 0 {
		return q, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidRequest, q.DurationMinutes)
	}
	if q.DurationMinutes == 0 {
		q.DurationMinutes = s.opts.DefaultDuration
	}
	if q.DurationMinutes > MaxDurationMinutes {
		return q, fmt.Errorf("%w: duration %d exceeds %d minutes", ErrInvalidRequest, q.DurationMinutes, MaxDurationMinutes)
	}
	if _, err := ParseTimeframe(string(q.Timeframe)); err != nil {
		return q, err
	}
	if q.From.IsZero() {
		q.From = s.opts.Now()
	}
	return q, nil
}

type candidate struct {
	start  time.Time
	window calendar.TimeRange
}

// scan walks the horizon day by day and calls visit with every free slot in
// start order until visit returns false. Appointments are read once, so the
// result reflects a single snapshot.
func (s *Scheduler) scan(ctx context.Context, q SlotQuery, horizonDays int, visit func(TimeSlot) bool) error {
	log := logger.FromContext(ctx, s.opts.Logger)

	rules, err := s.availability.ListAvailabilityRules(ctx, q.AgentID, true)
	if err != nil {
		return fmt.Errorf("list availability rules: %w", err)
	}
	if len(rules) == 0 {
		log.Info("Agent has no availability configured", "agent_id", q.AgentID)
		return ErrNoAvailabilityConfigured
	}

	loc := s.opts.Location
	firstDay := calendar.DayStart(q.From, loc)
	horizonEnd := firstDay.AddDate(0, 0, horizonDays)

	appts, err := s.appointments.ListOccupyingAppointments(ctx, q.AgentID, firstDay.Add(-s.opts.Lookback), horizonEnd)
	if err != nil {
		return fmt.Errorf("list occupying appointments: %w", err)
	}
	busy := make([]calendar.TimeRange, 0, len(appts))
	for i := range appts {
		if !appts[i].Status.Occupying() {
			continue
		}
		busy = append(busy, calendar.TimeRange{Start: appts[i].ScheduledFor, End: appts[i].End()})
	}

	duration := time.Duration(q.DurationMinutes) * time.Minute

	for offset := 0; offset < horizonDays; offset++ {
		day := firstDay.AddDate(0, 0, offset)

		windows, err := s.resolver.resolveDay(ctx, q.AgentID, rules, day)
		if err != nil {
			return err
		}
		if len(windows) == 0 {
			continue
		}

		var candidates []candidate
		for _, w := range windows {
			points, err := calendar.Grid(w, s.opts.GridStep)
			if err != nil {
				return err
			}
			for _, p := range points {
				candidates = append(candidates, candidate{start: p, window: w})
			}
		}
		// Overlapping windows interleave; keep evaluation strictly time-ordered.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].start.Before(candidates[j].start)
		})

		var lastEmitted time.Time
		for _, c := range candidates {
			if c.start.Before(q.From) {
				continue
			}
			if !q.Timeframe.Allows(c.start.In(loc)) {
				continue
			}
			span := calendar.Span(c.start, duration)
			if !c.window.Contains(span) {
				continue
			}
			if conflict, _ := calendar.HasOverlap(span, busy); conflict {
				continue
			}
			// The same instant offered by two overlapping windows is one slot.
			if c.start.Equal(lastEmitted) {
				continue
			}
			lastEmitted = c.start

			slot := TimeSlot{
				Start:           c.start,
				DurationMinutes: q.DurationMinutes,
				IsFree:          true,
				Formatted:       calendar.FormatSlot(c.start, loc),
			}
			if !visit(slot) {
				log.Debug("Slot found", "agent_id", q.AgentID, "start", slot.Start, "day_offset", offset)
				return nil
			}
		}
	}
	return nil
}
