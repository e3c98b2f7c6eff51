package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an identity created on first successful Google login. Identity
// fields are immutable afterwards except name/avatar refresh on re-login.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"size:255" json:"email"`
	Name      string         `gorm:"size:128" json:"name"`
	GoogleID  string         `gorm:"size:255;uniqueIndex;not null" json:"-"`
	AvatarURL string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is a server-side login session referenced by the session_id cookie.
// Requests carrying no matching unexpired session are unauthenticated.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}
