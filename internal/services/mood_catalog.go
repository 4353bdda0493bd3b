package services

import (
	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/models/response_models"
)

var moodPresentation = map[db_models.MoodTag]struct{ label, emoji string }{
	db_models.MoodPeaceful:  {"Peaceful", "😌"},
	db_models.MoodAnxious:   {"Anxious", "😰"},
	db_models.MoodJoyful:    {"Joyful", "😊"},
	db_models.MoodNightmare: {"Nightmare", "😱"},
	db_models.MoodLucid:     {"Lucid", "🌟"},
	db_models.MoodVivid:     {"Vivid", "✨"},
	db_models.MoodConfusing: {"Confusing", "🤔"},
	db_models.MoodNeutral:   {"Neutral", "😐"},
}

// MoodCatalog lists the selectable moods in display order.
func MoodCatalog() []response_models.MoodResponse {
	out := make([]response_models.MoodResponse, 0, len(db_models.MoodTags))
	for _, tag := range db_models.MoodTags {
		p := moodPresentation[tag]
		out = append(out, response_models.MoodResponse{
			Value: string(tag),
			Label: p.label,
			Emoji: p.emoji,
		})
	}
	return out
}
