package db_models

import "github.com/google/uuid"

type Profile struct {
	BaseModel
	Email                string  `gorm:"index"`
	InsightsUsed         int     `gorm:"not null;default:0"`
	IsPro                bool    `gorm:"not null;default:false"`
	StripeCustomerID     *string `gorm:"index"`
	StripeSubscriptionID *string
}

// CanGenerateInsight is the quota gate: subscribers are unlimited, everyone
// else gets freeLimit insights.
func (p *Profile) CanGenerateInsight(freeLimit int) bool {
	return p.IsPro || p.InsightsUsed < freeLimit
}

func (p *Profile) RemainingInsights(freeLimit int) int {
	if p.IsPro {
		return -1
	}
	if left := freeLimit - p.InsightsUsed; left > 0 {
		return left
	}
	return 0
}

func NewProfile(accountID uuid.UUID, email string) *Profile {
	return &Profile{
		BaseModel: BaseModel{ID: accountID},
		Email:     email,
	}
}
