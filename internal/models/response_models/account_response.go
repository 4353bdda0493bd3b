package response_models

type AccountLoginResponse struct {
	Token             string `json:"token"`
	IsUserHavePremium bool   `json:"is_user_have_premium"`
}

type SignUpResponse struct {
	Token string         `json:"token"`
	Dream *DreamResponse `json:"dream"`
}

type ProfileResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	InsightsUsed     int    `json:"insights_used"`
	IsPro            bool   `json:"is_pro"`
	HasStripeAccount bool   `json:"has_stripe_account"`
	CreatedAt        string `json:"created_at"`
}
