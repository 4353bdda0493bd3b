package response_models

type RedirectURLResponse struct {
	URL string `json:"url"`
}

type WebhookAckResponse struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	EventType string `json:"event_type"`
}
