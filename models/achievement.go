package models

import "time"

// Requirement types shared by achievements and titles.
const (
	RequirementLevel             = "level"
	RequirementStreak            = "streak"
	RequirementMissionsCompleted = "missions_completed"
	RequirementTotalReps         = "total_reps"
)

// Achievement is catalog data; unlocks are recorded in UserAchievement.
type Achievement struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:64;not null" json:"name"`
	Description      string    `gorm:"size:255" json:"description"`
	Rarity           string    `gorm:"size:16" json:"rarity"`
	Icon             string    `gorm:"size:64" json:"icon"`
	RequirementType  string    `gorm:"size:32" json:"requirement_type"`
	RequirementValue int       `gorm:"default:0" json:"requirement_value"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"user_id"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;not null" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Title is catalog data; at most one unlocked title is active per user.
type Title struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:64;not null" json:"name"`
	Rarity           string    `gorm:"size:16" json:"rarity"`
	RequirementType  string    `gorm:"size:32" json:"requirement_type"`
	RequirementValue int       `gorm:"default:0" json:"requirement_value"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UserTitle struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_user_title,unique;not null" json:"user_id"`
	TitleID    uint      `gorm:"index:idx_user_title,unique;not null" json:"title_id"`
	IsActive   bool      `gorm:"default:false" json:"is_active"`
	UnlockedAt time.Time `json:"unlocked_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
