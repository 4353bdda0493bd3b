package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Insight is the AI interpretation of a dream. At most one per dream,
// enforced by the unique index on DreamID.
type Insight struct {
	BaseModel
	DreamID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null"`
	Summary    string         `gorm:"type:text;not null"`
	KeySymbols pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Reflection string         `gorm:"type:text;not null"`
}
