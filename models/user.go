package models

import "time"

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Password      string    `json:"-" gorm:"not null"`
	IsAdmin       bool      `json:"is_admin" gorm:"not null;default:false"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	EmailVerified bool      `json:"email_verified" gorm:"not null;default:false"`
	Avatar        []byte    `json:"-" gorm:"type:blob"`
	AvatarMime    string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`

	Todos []Todo `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
