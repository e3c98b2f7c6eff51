package models

import "time"

// Skill is read-only catalog data describing one exercise type: fixed
// per-completion attribute gains, an unlock-level gate and an optional
// prerequisite.
type Skill struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"size:64;not null" json:"name"`
	Category            string    `gorm:"size:32" json:"category"`
	Difficulty          string    `gorm:"size:16" json:"difficulty"`
	Description         string    `gorm:"size:512" json:"description"`
	CaloriesPerRep      float64   `json:"calories_per_rep"`
	StrengthGain        int       `gorm:"default:0" json:"strength_gain"`
	ConstitutionGain    int       `gorm:"default:0" json:"constitution_gain"`
	VitalityGain        int       `gorm:"default:0" json:"vitality_gain"`
	DexterityGain       int       `gorm:"default:0" json:"dexterity_gain"`
	FocusGain           int       `gorm:"default:0" json:"focus_gain"`
	RequiredLevel       int       `gorm:"default:1" json:"required_level"`
	PrerequisiteSkillID *uint     `json:"prerequisite_skill_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UserSkill records one user's unlocked skill and its cumulative stats.
type UserSkill struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_user_skill,unique;not null" json:"user_id"`
	SkillID    uint      `gorm:"index:idx_user_skill,unique;not null" json:"skill_id"`
	TotalReps  int       `gorm:"default:0" json:"total_reps"`
	TotalTime  int       `gorm:"default:0" json:"total_time"`
	BestReps   int       `gorm:"default:0" json:"best_reps"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
