package models

import "time"

// Mini-game statuses: pending -> active -> completed (terminal).
const (
	MiniGamePending   = "pending"
	MiniGameActive    = "active"
	MiniGameCompleted = "completed"
)

// MiniGame is a pairwise rep-count challenge over one skill.
type MiniGame struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ChallengerUserID  uint       `gorm:"index;not null" json:"challenger_user_id"`
	ChallengedUserID  uint       `gorm:"index;not null" json:"challenged_user_id"`
	SkillID           uint       `gorm:"not null" json:"skill_id"`
	TargetReps        int        `gorm:"not null" json:"target_reps"`
	Status            string     `gorm:"size:16;default:pending;index" json:"status"`
	WinnerUserID      *uint      `json:"winner_user_id"`
	XPReward          int        `gorm:"column:xp_reward;default:0" json:"xp_reward"`
	PointsReward      int        `gorm:"default:0" json:"points_reward"`
	Deadline          *time.Time `json:"deadline"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
