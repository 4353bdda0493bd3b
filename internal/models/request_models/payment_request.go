package request_models

// Both fields optional; they must point under the configured frontend URL, which is used otherwise.
type CheckoutRequest struct {
	SuccessURL string `json:"success_url" binding:"omitempty,url"`
	CancelURL  string `json:"cancel_url" binding:"omitempty,url"`
}

type PortalRequest struct {
	ReturnURL string `json:"return_url" binding:"omitempty,url"`
}
