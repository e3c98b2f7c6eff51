package models

import "time"

// Attributes are the five character stats, one row per user. They only
// ever increase after creation (skill gains from completed missions).
type Attributes struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Strength     int       `gorm:"default:0" json:"strength"`
	Constitution int       `gorm:"default:0" json:"constitution"`
	Vitality     int       `gorm:"default:0" json:"vitality"`
	Dexterity    int       `gorm:"default:0" json:"dexterity"`
	Focus        int       `gorm:"default:0" json:"focus"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
