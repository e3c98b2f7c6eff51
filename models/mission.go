package models

import "time"

// Mission types.
const (
	MissionDaily   = "daily"
	MissionWeekly  = "weekly"
	MissionMonthly = "monthly"
)

// Mission is a time-boxed reward-bearing task owned by one user. It is
// mutated exactly once (completion) and immutable afterwards.
type Mission struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"index;not null" json:"user_id"`
	Type             string     `gorm:"size:16;not null" json:"type"`
	Title            string     `gorm:"size:128;not null" json:"title"`
	Description      string     `gorm:"size:512" json:"description"`
	SkillID          *uint      `gorm:"index" json:"skill_id"`
	TargetReps       int        `gorm:"default:0" json:"target_reps"`
	TargetTime       int        `gorm:"default:0" json:"target_time"`
	XPReward         int        `gorm:"column:xp_reward;default:0" json:"xp_reward"`
	PointsReward     int        `gorm:"default:0" json:"points_reward"`
	Deadline         *time.Time `json:"deadline"`
	IsCompleted      bool       `gorm:"default:false;index" json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at"`
	VerifiedBySensor bool       `gorm:"default:false" json:"verified_by_sensor"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
