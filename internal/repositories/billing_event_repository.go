package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dreamsaver/internal/models/db_models"
)

type BillingEventRepository interface {
	// Record stores the event and reports duplicate == true when the provider
	// event id was already processed.
	Record(ctx context.Context, event *db_models.BillingEvent) (duplicate bool, err error)
	// Forget removes a recorded event so a provider retry is processed again.
	Forget(ctx context.Context, providerEventID string) error
}

type billingEventRepository struct {
	db *gorm.DB
}

func NewBillingEventRepository(db *gorm.DB) BillingEventRepository {
	return &billingEventRepository{db: db}
}

func (r *billingEventRepository) Record(ctx context.Context, event *db_models.BillingEvent) (bool, error) {
	err := r.db.WithContext(ctx).Create(event).Error
	if err == nil {
		return false, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return false, err
}

func (r *billingEventRepository) Forget(ctx context.Context, providerEventID string) error {
	return r.db.WithContext(ctx).
		Where("provider_event_id = ?", providerEventID).
		Delete(&db_models.BillingEvent{}).Error
}
