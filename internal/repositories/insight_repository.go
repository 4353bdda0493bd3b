package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dreamsaver/internal/models/db_models"
)

type InsightRepository interface {
	FindByDreamID(ctx context.Context, dreamID uuid.UUID) (*db_models.Insight, error)
	// CreateIfAbsent inserts the insight. If another writer already stored one
	// for the same dream, the stored row is returned with created == false.
	CreateIfAbsent(ctx context.Context, insight *db_models.Insight) (stored *db_models.Insight, created bool, err error)
}

type insightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) FindByDreamID(ctx context.Context, dreamID uuid.UUID) (*db_models.Insight, error) {
	var insight db_models.Insight
	err := r.db.WithContext(ctx).First(&insight, "dream_id = ?", dreamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &insight, nil
}

func (r *insightRepository) CreateIfAbsent(ctx context.Context, insight *db_models.Insight) (*db_models.Insight, bool, error) {
	err := r.db.WithContext(ctx).Create(insight).Error
	if err == nil {
		return insight, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, findErr := r.FindByDreamID(ctx, insight.DreamID)
	if findErr != nil {
		return nil, false, findErr
	}
	if existing == nil {
		return nil, false, err
	}
	return existing, false, nil
}
