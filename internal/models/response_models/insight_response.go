package response_models

type InsightResponse struct {
	ID         string   `json:"id"`
	DreamID    string   `json:"dream_id"`
	Summary    string   `json:"summary"`
	KeySymbols []string `json:"key_symbols"`
	Reflection string   `json:"reflection"`
	CreatedAt  string   `json:"created_at"`
}

type GenerateInsightResponse struct {
	Insight InsightResponse `json:"insight"`
}
