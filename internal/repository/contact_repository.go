package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

type ContactRepository interface {
	GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	// Mark the contact as booked and point it at the appointment.
	UpdateContactBookingRef(ctx context.Context, contactID, appointmentID uuid.UUID) error
	Create(ctx context.Context, contact *model.Contact) error
}

type GormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var c model.Contact
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormContactRepository) UpdateContactBookingRef(ctx context.Context, contactID, appointmentID uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("id = ?", contactID).
		Updates(map[string]any{
			"call_status":    model.CallStatusAppointmentBooked,
			"appointment_id": appointmentID,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *GormContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}
