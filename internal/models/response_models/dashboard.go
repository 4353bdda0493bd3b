package response_models

type UsageResponse struct {
	InsightsUsed int  `json:"insights_used"`
	FreeLimit    int  `json:"free_limit"`
	Remaining    int  `json:"remaining"`
	IsPro        bool `json:"is_pro"`
}

type DashboardResponse struct {
	Email  string          `json:"email"`
	Usage  UsageResponse   `json:"usage"`
	Dreams []DreamResponse `json:"dreams"`
}
