package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

type AppointmentRepository interface {
	// Scheduled or confirmed appointments of an agent starting in [from, to).
	ListOccupyingAppointments(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
	// Insert a new appointment. Overlap rejections map to model.ErrAppointmentOverlap.
	InsertAppointment(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Move an appointment along the status machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) ListOccupyingAppointments(
	ctx context.Context,
	agentID uuid.UUID,
	from, to time.Time,
) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("agent_id = ?", agentID).
		Where("scheduled_for >= ? AND scheduled_for < ?", from.UTC(), to.UTC()).
		Where("status IN ?", model.OccupyingStatuses).
		Order("scheduled_for ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) InsertAppointment(ctx context.Context, appt *model.Appointment) error {
	err := r.db.WithContext(ctx).Create(appt).Error
	if isOverlapViolation(err) {
		return fmt.Errorf("%w: %v", model.ErrAppointmentOverlap, err)
	}
	return err
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// UpdateStatus applies the change only if the stored status still is the one
// the transition was checked against.
func (r *GormAppointmentRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.AppointmentStatus,
) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, current.Status, status)
	}

	tx := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND status = ?", id, current.Status).
		Update("status", status)
	if tx.Error != nil {
		if isOverlapViolation(tx.Error) {
			return fmt.Errorf("%w: %v", model.ErrAppointmentOverlap, tx.Error)
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: status of %s changed concurrently", model.ErrInvalidTransition, id)
	}
	return nil
}

