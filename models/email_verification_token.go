package models

import "time"

// Token carries a plain index rather than a unique one: the verification flow
// tolerates the same token value appearing across registrations.
type EmailVerificationToken struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Token     string     `json:"-" gorm:"index;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	Used      bool       `json:"used" gorm:"not null;default:false"`
	UsedAt    *time.Time `json:"used_at,omitempty"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
