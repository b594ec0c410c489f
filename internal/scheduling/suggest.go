package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// SuggestSlots lists up to limit consecutive free grid slots for a lead,
// looking only as far ahead as its temperature allows. Unlike FindSlots there
// is no spacing between suggestions. limit <= 0 means DefaultSuggestions.
func (s *Scheduler) SuggestSlots(
	ctx context.Context,
	agentID uuid.UUID,
	temperature LeadTemperature,
	durationMinutes int,
	limit int,
) ([]TimeSlot, error) {
	q, err := s.normalize(SlotQuery{AgentID: agentID, DurationMinutes: durationMinutes})
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}

	slots := make([]TimeSlot, 0, limit)
	err = s.scan(ctx, q, temperature.HorizonDays(), func(slot TimeSlot) bool {
		slots = append(slots, slot)
		return len(slots) < limit
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}
