package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dreamsaver/internal/models/db_models"
)

type DreamEmbeddingRepository interface {
	Save(ctx context.Context, embedding *db_models.DreamEmbedding) error
	FindSimilar(ctx context.Context, userID, dreamID uuid.UUID, limit int) ([]db_models.SimilarDream, error)
}

type dreamEmbeddingRepository struct {
	db *gorm.DB
}

func NewDreamEmbeddingRepository(db *gorm.DB) DreamEmbeddingRepository {
	return &dreamEmbeddingRepository{db: db}
}

func (r *dreamEmbeddingRepository) Save(ctx context.Context, embedding *db_models.DreamEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding"}),
		}).
		Create(embedding).Error
}

// FindSimilar ranks the user's other dreams by cosine distance to the given
// dream. A dream without a stored embedding yields no rows.
func (r *dreamEmbeddingRepository) FindSimilar(ctx context.Context, userID, dreamID uuid.UUID, limit int) ([]db_models.SimilarDream, error) {
	var results []db_models.SimilarDream

	query := `
        SELECT d.*, (1 - (e.embedding <=> q.embedding)) AS similarity
        FROM dream_embeddings e
        JOIN dreams d ON d.id = e.dream_id
        CROSS JOIN (SELECT embedding FROM dream_embeddings WHERE dream_id = ?) q
        WHERE e.user_id = ? AND e.dream_id <> ?
        ORDER BY e.embedding <=> q.embedding
        LIMIT ?
    `

	err := r.db.WithContext(ctx).Raw(query, dreamID, userID, dreamID, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
