package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

type AvailabilityRepository interface {
	// Weekly rules of an agent, optionally only the active ones.
	ListAvailabilityRules(ctx context.Context, agentID uuid.UUID, onlyActive bool) ([]model.AvailabilityRule, error)
	// Exceptions falling on the calendar date of date.
	ListAvailabilityExceptions(ctx context.Context, agentID uuid.UUID, date time.Time) ([]model.AvailabilityException, error)
	// Replace the whole weekly schedule of an agent.
	ReplaceRules(ctx context.Context, agentID uuid.UUID, rules []model.AvailabilityRule) error
	// Block a whole day.
	AddException(ctx context.Context, exc *model.AvailabilityException) error
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) ListAvailabilityRules(
	ctx context.Context,
	agentID uuid.UUID,
	onlyActive bool,
) ([]model.AvailabilityRule, error) {
	var rules []model.AvailabilityRule
	q := r.db.WithContext(ctx).
		Model(&model.AvailabilityRule{}).
		Where("agent_id = ?", agentID)

	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	if err := q.Order("day_of_week ASC, start_time ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GormAvailabilityRepository) ListAvailabilityExceptions(
	ctx context.Context,
	agentID uuid.UUID,
	date time.Time,
) ([]model.AvailabilityException, error) {
	var exceptions []model.AvailabilityException
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND exception_date = ?", agentID, model.CalendarDate(date)).
		Find(&exceptions).Error
	if err != nil {
		return nil, err
	}
	return exceptions, nil
}

// ReplaceRules deletes the agent's rules and inserts the given ones in one
// transaction, the way the settings screen saves a schedule.
func (r *GormAvailabilityRepository) ReplaceRules(
	ctx context.Context,
	agentID uuid.UUID,
	rules []model.AvailabilityRule,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agent_id = ?", agentID).Delete(&model.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].AgentID = agentID
		}
		return tx.Create(&rules).Error
	})
}

func (r *GormAvailabilityRepository) AddException(ctx context.Context, exc *model.AvailabilityException) error {
	return r.db.WithContext(ctx).Create(exc).Error
}
