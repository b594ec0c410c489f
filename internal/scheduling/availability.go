package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fraperfra/TELEMARKETING/internal/calendar"
	"github.com/fraperfra/TELEMARKETING/internal/model"
)

// Resolver turns weekly rules plus dated exceptions into the bookable windows
// of one calendar day.
type Resolver struct {
	store AvailabilityStore
	loc   *time.Location
	log   *slog.Logger
}

func NewResolver(store AvailabilityStore, loc *time.Location, log *slog.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: store, loc: loc, log: log}
}

// Resolve returns the windows of day for agentID, ordered by start. An
// exception on day yields no windows regardless of the rules; a day without
// rules yields no windows and no error.
func (r *Resolver) Resolve(ctx context.Context, agentID uuid.UUID, day time.Time) ([]calendar.TimeRange, error) {
	rules, err := r.store.ListAvailabilityRules(ctx, agentID, true)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	return r.resolveDay(ctx, agentID, rules, day)
}

func (r *Resolver) resolveDay(
	ctx context.Context,
	agentID uuid.UUID,
	rules []model.AvailabilityRule,
	day time.Time,
) ([]calendar.TimeRange, error) {
	day = calendar.DayStart(day, r.loc)

	exceptions, err := r.store.ListAvailabilityExceptions(ctx, agentID, day)
	if err != nil {
		return nil, fmt.Errorf("list availability exceptions: %w", err)
	}
	if len(exceptions) > 0 {
		return nil, nil
	}

	return r.windowsFor(rules, day), nil
}

// windowsFor anchors every active rule matching day's weekday to day.
// Overlapping rules stay separate windows.
func (r *Resolver) windowsFor(rules []model.AvailabilityRule, day time.Time) []calendar.TimeRange {
	var windows []calendar.TimeRange
	for _, rule := range rules {
		if !rule.IsActive || rule.DayOfWeek != int(day.Weekday()) {
			continue
		}
		if err := rule.Validate(); err != nil {
			r.log.Warn("Skipping invalid availability rule", "rule_id", rule.ID, "agent_id", rule.AgentID, "error", err)
			continue
		}
		// Validate already parsed both clocks.
		start, _ := model.ParseClock(rule.StartTime)
		end, _ := model.ParseClock(rule.EndTime)
		w, err := calendar.NewTimeRange(calendar.AtClock(day, start), calendar.AtClock(day, end))
		if err != nil {
			// A DST jump can collapse a short window to nothing.
			r.log.Debug("Skipping empty availability window", "rule_id", rule.ID, "day", day, "error", err)
			continue
		}
		windows = append(windows, w)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// DefaultWeeklyRules is the Monday–Friday 09:00–18:00 schedule proposed to an
// agent who has not configured one yet.
func DefaultWeeklyRules(agentID uuid.UUID) []model.AvailabilityRule {
	rules := make([]model.AvailabilityRule, 0, 5)
	for day := time.Monday; day <= time.Friday; day++ {
		rules = append(rules, model.AvailabilityRule{
			AgentID:   agentID,
			DayOfWeek: int(day),
			StartTime: "09:00",
			EndTime:   "18:00",
			IsActive:  true,
		})
	}
	return rules
}
