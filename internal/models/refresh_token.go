package models

import (
	"time"
)

// RefreshToken is one issued refresh credential. Only the sha256 digest of
// the random secret half is stored; the composite "{id}.{secret}" handed to
// the client is the only copy of the raw secret.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	TokenHash string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`

	// Define the relationship to User
	User User `gorm:"foreignKey:UserID" json:"-"`
}
