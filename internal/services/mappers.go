package services

import (
	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/models/response_models"
	"dreamsaver/pkg/utils"
)

func ToDreamResponse(d *db_models.Dream) response_models.DreamResponse {
	var mood *string
	if d.MoodTag != nil {
		m := string(*d.MoodTag)
		mood = &m
	}
	return response_models.DreamResponse{
		ID:         d.ID.String(),
		Title:      d.Title,
		Content:    d.Content,
		MoodTag:    mood,
		HasInsight: d.HasInsight,
		CreatedAt:  utils.FormatUnixRFC3339(d.CreatedAt),
	}
}

func ToDreamResponses(dreams []db_models.Dream) []response_models.DreamResponse {
	out := make([]response_models.DreamResponse, 0, len(dreams))
	for i := range dreams {
		out = append(out, ToDreamResponse(&dreams[i]))
	}
	return out
}

func ToInsightResponse(in *db_models.Insight) response_models.InsightResponse {
	symbols := []string(in.KeySymbols)
	if symbols == nil {
		symbols = []string{}
	}
	return response_models.InsightResponse{
		ID:         in.ID.String(),
		DreamID:    in.DreamID.String(),
		Summary:    in.Summary,
		KeySymbols: symbols,
		Reflection: in.Reflection,
		CreatedAt:  utils.FormatUnixRFC3339(in.CreatedAt),
	}
}

func ToProfileResponse(p *db_models.Profile) response_models.ProfileResponse {
	return response_models.ProfileResponse{
		ID:               p.ID.String(),
		Email:            p.Email,
		InsightsUsed:     p.InsightsUsed,
		IsPro:            p.IsPro,
		HasStripeAccount: p.StripeCustomerID != nil && *p.StripeCustomerID != "",
		CreatedAt:        utils.FormatUnixRFC3339(p.CreatedAt),
	}
}
