package models

import "time"

// Conditioning tiers and goals accepted at onboarding.
const (
	ConditioningSedentary    = "sedentario"
	ConditioningBeginner     = "iniciante"
	ConditioningIntermediate = "intermediario"
	ConditioningAdvanced     = "avancado"
)

// Profile is the one-time onboarding record, one per user. Username is
// globally unique and never changes.
type Profile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Username      string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	FullName      string    `gorm:"size:128;not null" json:"full_name"`
	Weight        float64   `json:"weight"`
	Height        float64   `json:"height"`
	Conditioning  string    `gorm:"size:16" json:"initial_conditioning"`
	Injuries      string    `gorm:"size:512" json:"injuries"`
	Equipment     string    `gorm:"size:512" json:"equipment"`
	MainGoal      string    `gorm:"size:32" json:"main_goal"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
