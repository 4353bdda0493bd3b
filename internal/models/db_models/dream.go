package db_models

import "github.com/google/uuid"

type MoodTag string

const (
	MoodPeaceful  MoodTag = "peaceful"
	MoodAnxious   MoodTag = "anxious"
	MoodJoyful    MoodTag = "joyful"
	MoodNightmare MoodTag = "nightmare"
	MoodLucid     MoodTag = "lucid"
	MoodVivid     MoodTag = "vivid"
	MoodConfusing MoodTag = "confusing"
	MoodNeutral   MoodTag = "neutral"
)

// MoodTags lists the supported moods in display order.
var MoodTags = []MoodTag{
	MoodPeaceful, MoodAnxious, MoodJoyful, MoodNightmare,
	MoodLucid, MoodVivid, MoodConfusing, MoodNeutral,
}

func (m MoodTag) Valid() bool {
	for _, t := range MoodTags {
		if t == m {
			return true
		}
	}
	return false
}

const MaxDreamContentLength = 2000

type Dream struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Title      string    `gorm:"size:100;not null"`
	Content    string    `gorm:"type:text;not null"`
	MoodTag    *MoodTag  `gorm:"size:20"`
	HasInsight bool      `gorm:"not null;default:false"`
}
