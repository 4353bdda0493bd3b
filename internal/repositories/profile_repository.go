package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dreamsaver/internal/models/db_models"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.Profile, error)
	// IncrementInsightsUsed bumps the free-tier counter in a single statement.
	// It reports false when nothing was updated (unknown id or pro profile).
	IncrementInsightsUsed(ctx context.Context, id uuid.UUID) (bool, error)
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
	SetSubscription(ctx context.Context, id uuid.UUID, isPro bool, subscriptionID *string) (bool, error)
	SetSubscriptionByCustomer(ctx context.Context, customerID string, isPro bool, subscriptionID *string) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := r.db.WithContext(ctx).First(&profile, "stripe_customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) IncrementInsightsUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("id = ? AND is_pro = ?", id, false).
		UpdateColumn("insights_used", gorm.Expr("insights_used + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *profileRepository) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("stripe_customer_id", customerID).Error
}

func (r *profileRepository) SetSubscription(ctx context.Context, id uuid.UUID, isPro bool, subscriptionID *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_pro":                 isPro,
			"stripe_subscription_id": subscriptionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *profileRepository) SetSubscriptionByCustomer(ctx context.Context, customerID string, isPro bool, subscriptionID *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("stripe_customer_id = ?", customerID).
		UpdateColumns(map[string]interface{}{
			"is_pro":                 isPro,
			"stripe_subscription_id": subscriptionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
