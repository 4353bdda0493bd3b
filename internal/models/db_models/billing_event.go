package db_models

import "gorm.io/datatypes"

// BillingEvent records every processed payment webhook so redeliveries are no-ops.
type BillingEvent struct {
	BaseModel
	Provider        string         `gorm:"index"`
	ProviderEventID string         `gorm:"uniqueIndex;not null"`
	Type            string         `gorm:"index"`
	Payload         datatypes.JSON `gorm:"type:jsonb"`
}
