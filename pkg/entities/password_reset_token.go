package entities

import (
	"time"
)

// PasswordResetToken is a one-time code issued by the forgot-password flow.
// The code itself is never stored; CodeHash holds its SHA-256 digest.
type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	CodeHash  string    `json:"-" gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Valid reports whether the token can still be exchanged at now.
func (t PasswordResetToken) Valid(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
