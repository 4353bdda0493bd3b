package request_models

type CreateDreamRequest struct {
	Title   string `json:"title" binding:"max=100"`
	Content string `json:"content" binding:"required"`
	MoodTag string `json:"moodTag"`
}

type GenerateInsightRequest struct {
	DreamID string `json:"dreamId"`
}
