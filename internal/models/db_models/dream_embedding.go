package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DreamEmbedding struct {
	DreamID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Embedding pgvector.Vector `gorm:"type:vector"`
	CreatedAt int64           `gorm:"autoCreateTime"`
}

// SimilarDream is a dream row plus its cosine similarity to the query.
type SimilarDream struct {
	Dream
	Similarity float64
}
