package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitquest/fitquest/models"
)

// AchievementService evaluates unlock requirements and manages titles.
type AchievementService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db, now: time.Now}
}

// userStats are the counters unlock requirements are checked against.
type userStats struct {
	Level             int
	BestStreak        int
	MissionsCompleted int64
	TotalReps         int64
}

func (s *AchievementService) loadStats(userID uint) (*userStats, error) {
	var prog models.Progression
	if err := s.db.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return nil, err
	}

	stats := userStats{Level: prog.Level, BestStreak: prog.BestStreak}
	if err := s.db.Model(&models.Mission{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&stats.MissionsCompleted).Error; err != nil {
		return nil, err
	}

	var totalReps *int64
	if err := s.db.Model(&models.UserSkill{}).
		Where("user_id = ?", userID).
		Select("SUM(total_reps)").
		Scan(&totalReps).Error; err != nil {
		return nil, err
	}
	if totalReps != nil {
		stats.TotalReps = *totalReps
	}
	return &stats, nil
}

// satisfies reports whether the stats meet one requirement descriptor.
func satisfies(stats *userStats, reqType string, reqValue int) bool {
	switch reqType {
	case models.RequirementLevel:
		return stats.Level >= reqValue
	case models.RequirementStreak:
		return stats.BestStreak >= reqValue
	case models.RequirementMissionsCompleted:
		return stats.MissionsCompleted >= int64(reqValue)
	case models.RequirementTotalReps:
		return stats.TotalReps >= int64(reqValue)
	}
	return false
}

// EvaluateUnlocks records any newly satisfied achievements and titles.
// Inserts are idempotent; re-evaluating after every completion is safe.
func (s *AchievementService) EvaluateUnlocks(userID uint) error {
	stats, err := s.loadStats(userID)
	if err != nil {
		return err
	}
	now := s.now()

	var achievements []models.Achievement
	if err := s.db.Find(&achievements).Error; err != nil {
		return err
	}
	for _, a := range achievements {
		if !satisfies(stats, a.RequirementType, a.RequirementValue) {
			continue
		}
		ua := models.UserAchievement{UserID: userID, AchievementID: a.ID, UnlockedAt: now}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua).Error; err != nil {
			return err
		}
	}

	var titles []models.Title
	if err := s.db.Find(&titles).Error; err != nil {
		return err
	}
	for _, t := range titles {
		if !satisfies(stats, t.RequirementType, t.RequirementValue) {
			continue
		}
		ut := models.UserTitle{UserID: userID, TitleID: t.ID, UnlockedAt: now}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ut).Error; err != nil {
			return err
		}
	}
	return nil
}

// AchievementListing is a catalog row flagged with the user's unlock state.
type AchievementListing struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// ListAchievements returns the full catalog with per-user unlock flags.
func (s *AchievementService) ListAchievements(userID uint) ([]AchievementListing, error) {
	var rows []AchievementListing
	err := s.db.Model(&models.Achievement{}).
		Select("achievements.*, user_achievements.id IS NOT NULL AS unlocked, user_achievements.unlocked_at AS unlocked_at").
		Joins("LEFT JOIN user_achievements ON user_achievements.achievement_id = achievements.id AND user_achievements.user_id = ?", userID).
		Order("achievements.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TitleListing is a title catalog row with the user's unlock/active state.
type TitleListing struct {
	models.Title
	Unlocked bool `json:"unlocked"`
	IsActive bool `json:"is_active"`
}

// ListTitles returns the title catalog with unlock and active flags.
func (s *AchievementService) ListTitles(userID uint) ([]TitleListing, error) {
	var rows []TitleListing
	err := s.db.Model(&models.Title{}).
		Select("titles.*, user_titles.id IS NOT NULL AS unlocked, COALESCE(user_titles.is_active, false) AS is_active").
		Joins("LEFT JOIN user_titles ON user_titles.title_id = titles.id AND user_titles.user_id = ?", userID).
		Order("titles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActivateTitle makes the given unlocked title the user's single active
// one. Returns ErrTitleNotUnlocked when the user never earned it.
func (s *AchievementService) ActivateTitle(userID, titleID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserTitle{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.UserTitle{}).
			Where("user_id = ? AND title_id = ?", userID, titleID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTitleNotUnlocked
		}
		return nil
	})
}
