package db_models

// Account is the authentication principal. Its ID is shared with the Profile.
type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
