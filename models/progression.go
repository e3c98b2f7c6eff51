package models

import "time"

// Progression holds xp, level, spendable points and streak counters, one
// row per user. XP resets on level-up; points never reset implicitly.
// LastActivityDate is a UTC calendar date in YYYY-MM-DD form, empty until
// the first mission is completed.
type Progression struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	XP               int       `gorm:"column:xp;default:0" json:"xp"`
	Level            int       `gorm:"default:1" json:"level"`
	Points           int       `gorm:"default:0" json:"points"`
	CurrentStreak    int       `gorm:"default:0" json:"current_streak"`
	BestStreak       int       `gorm:"default:0" json:"best_streak"`
	LastActivityDate string    `gorm:"size:10" json:"last_activity_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
