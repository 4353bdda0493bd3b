package response_models

type DreamResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	MoodTag    *string `json:"mood_tag"`
	HasInsight bool    `json:"has_insight"`
	CreatedAt  string  `json:"created_at"`
}

type DreamDetailResponse struct {
	Dream   DreamResponse    `json:"dream"`
	Insight *InsightResponse `json:"insight"`
}

type SimilarDreamResponse struct {
	DreamResponse
	Similarity float64 `json:"similarity"`
}

type MoodResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}
