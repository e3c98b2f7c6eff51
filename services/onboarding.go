package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

// attributeBaseline is the five-stat seed for one conditioning tier.
type attributeBaseline struct {
	strength, constitution, vitality, dexterity, focus int
}

var tierBaselines = map[string]attributeBaseline{
	models.ConditioningSedentary:    {10, 10, 10, 10, 10},
	models.ConditioningBeginner:     {15, 15, 15, 12, 12},
	models.ConditioningIntermediate: {25, 25, 25, 20, 20},
	models.ConditioningAdvanced:     {40, 40, 40, 35, 35},
}

// seedAttributes builds the initial attributes for a tier plus bonuses
// from self-reported rep counts: one extra point per 5 reps, applied to
// strength (pushups), constitution (situps) and vitality (squats).
// Dexterity and focus take no self-report bonus.
func seedAttributes(userID uint, conditioning string, pushups, situps, squats int) models.Attributes {
	base, ok := tierBaselines[conditioning]
	if !ok {
		base = tierBaselines[models.ConditioningSedentary]
	}
	return models.Attributes{
		UserID:       userID,
		Strength:     base.strength + pushups/5,
		Constitution: base.constitution + situps/5,
		Vitality:     base.vitality + squats/5,
		Dexterity:    base.dexterity,
		Focus:        base.focus,
	}
}

// OnboardingInput is the validated onboarding submission.
type OnboardingInput struct {
	Username     string
	FullName     string
	Weight       float64
	Height       float64
	Conditioning string
	Pushups      int
	Situps       int
	Squats       int
	Injuries     string
	Equipment    string
	MainGoal     string
}

// OnboardingService performs the one-time account setup.
type OnboardingService struct {
	db       *gorm.DB
	missions *MissionService
	now      func() time.Time
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db, missions: NewMissionService(db), now: time.Now}
}

// Onboard creates profile, attributes, progression, level-1 skill unlocks
// and the first daily mission batch as one transaction. A failure at any
// step leaves no partial rows behind.
func (s *OnboardingService) Onboard(userID uint, in OnboardingInput) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProfileExists
		}

		if err := tx.Model(&models.Profile{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		profile = models.Profile{
			UserID:       userID,
			Username:     in.Username,
			FullName:     utils.Sanitize(in.FullName),
			Weight:       in.Weight,
			Height:       in.Height,
			Conditioning: in.Conditioning,
			Injuries:     utils.Sanitize(in.Injuries),
			Equipment:    utils.Sanitize(in.Equipment),
			MainGoal:     in.MainGoal,
		}
		if err := tx.Create(&profile).Error; err != nil {
			// The unique index backstops the pre-check under races.
			if IsDuplicateKey(err) {
				return ErrUsernameTaken
			}
			return err
		}

		attrs := seedAttributes(userID, in.Conditioning, in.Pushups, in.Situps, in.Squats)
		if err := tx.Create(&attrs).Error; err != nil {
			return err
		}

		prog := models.Progression{UserID: userID, Level: 1}
		if err := tx.Create(&prog).Error; err != nil {
			return err
		}

		var starterSkills []models.Skill
		if err := tx.Where("required_level = ?", 1).Find(&starterSkills).Error; err != nil {
			return err
		}
		if len(starterSkills) > 0 {
			now := s.now()
			unlocks := make([]models.UserSkill, 0, len(starterSkills))
			for _, skill := range starterSkills {
				unlocks = append(unlocks, models.UserSkill{
					UserID:     userID,
					SkillID:    skill.ID,
					UnlockedAt: now,
				})
			}
			if err := tx.Create(&unlocks).Error; err != nil {
				return err
			}
		}

		return s.missions.CreateDailyBatch(tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile returns the user's profile or gorm.ErrRecordNotFound.
func (s *OnboardingService) GetProfile(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// IsDuplicateKey matches both gorm's translated error and raw driver
// messages for unique-constraint violations.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
