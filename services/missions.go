package services

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
)

// Daily-batch template constants.
const (
	dailyBatchSize    = 3
	dailyTargetReps   = 20
	dailyXPReward     = 50
	dailyPointsReward = 10
	missionLifetime   = 24 * time.Hour
)

// MissionService creates mission batches and serves mission listings.
type MissionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{db: db, now: time.Now}
}

// CreateDailyBatch generates up to three fixed-template daily missions
// over a random subset of the user's unlocked skills. A user with no
// unlocked skills gets nothing; that is a no-op, not an error. Never
// creates a mission for a skill the user has not unlocked.
func (s *MissionService) CreateDailyBatch(tx *gorm.DB, userID uint) error {
	if tx == nil {
		tx = s.db
	}

	var unlocked []models.UserSkill
	if err := tx.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return err
	}
	if len(unlocked) == 0 {
		return nil
	}

	rand.Shuffle(len(unlocked), func(i, j int) {
		unlocked[i], unlocked[j] = unlocked[j], unlocked[i]
	})
	if len(unlocked) > dailyBatchSize {
		unlocked = unlocked[:dailyBatchSize]
	}

	skillIDs := make([]uint, 0, len(unlocked))
	for _, us := range unlocked {
		skillIDs = append(skillIDs, us.SkillID)
	}
	var skills []models.Skill
	if err := tx.Where("id IN ?", skillIDs).Find(&skills).Error; err != nil {
		return err
	}

	deadline := s.now().Add(missionLifetime)
	missions := make([]models.Mission, 0, len(skills))
	for _, skill := range skills {
		sid := skill.ID
		missions = append(missions, models.Mission{
			UserID:       userID,
			Type:         models.MissionDaily,
			Title:        fmt.Sprintf("Complete %d %s", dailyTargetReps, skill.Name),
			Description:  fmt.Sprintf("Do %d reps of %s today", dailyTargetReps, skill.Name),
			SkillID:      &sid,
			TargetReps:   dailyTargetReps,
			XPReward:     dailyXPReward,
			PointsReward: dailyPointsReward,
			Deadline:     &deadline,
		})
	}
	return tx.Create(&missions).Error
}

// GeneratedMission is an AI-authored mission the gateway validated.
type GeneratedMission struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	SkillID      *uint  `json:"skill_id"`
	TargetReps   int    `json:"target_reps"`
	XPReward     int    `json:"xp_reward"`
	PointsReward int    `json:"points_reward"`
}

// InsertGenerated persists validated AI-authored missions. Skill ids that
// the user has not unlocked are dropped rather than rejected wholesale.
func (s *MissionService) InsertGenerated(userID uint, generated []GeneratedMission) ([]models.Mission, error) {
	if len(generated) == 0 {
		return nil, nil
	}

	unlockedSet := map[uint]bool{}
	var unlocked []models.UserSkill
	if err := s.db.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return nil, err
	}
	for _, us := range unlocked {
		unlockedSet[us.SkillID] = true
	}

	deadline := s.now().Add(missionLifetime)
	missions := make([]models.Mission, 0, len(generated))
	for _, g := range generated {
		skillID := g.SkillID
		if skillID != nil && !unlockedSet[*skillID] {
			skillID = nil
		}
		missions = append(missions, models.Mission{
			UserID:       userID,
			Type:         models.MissionDaily,
			Title:        g.Title,
			Description:  g.Description,
			SkillID:      skillID,
			TargetReps:   g.TargetReps,
			XPReward:     g.XPReward,
			PointsReward: g.PointsReward,
			Deadline:     &deadline,
		})
	}
	if err := s.db.Create(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

// MissionWithSkill is a mission listing row joined with its skill name.
type MissionWithSkill struct {
	models.Mission
	SkillName string `json:"skill_name"`
}

// ListIncomplete returns the user's incomplete missions with skill names.
func (s *MissionService) ListIncomplete(userID uint) ([]MissionWithSkill, error) {
	var rows []MissionWithSkill
	err := s.db.Model(&models.Mission{}).
		Select("missions.*, COALESCE(skills.name, '') AS skill_name").
		Joins("LEFT JOIN skills ON skills.id = missions.skill_id").
		Where("missions.user_id = ? AND missions.is_completed = ?", userID, false).
		Order("missions.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
