package services

import (
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

// streakMultiplier is the XP bonus for a run of consecutive active days.
// Uncapped: 10 straight days doubles mission XP.
func streakMultiplier(streak int) float64 {
	return 1.0 + 0.1*float64(streak)
}

// xpForNextLevel is the XP threshold to leave the given level.
func xpForNextLevel(level int) int {
	return level * 100
}

// advanceStreak computes the streak transition for an activity on `today`.
// Same-day repeat activity does not transition; yesterday continues the
// run; anything older (or a first-ever activity) resets it to 1.
func advanceStreak(current, best int, last, today, yesterday string) (newStreak, newBest int, transitioned bool) {
	if last == today {
		return current, best, false
	}
	if last == yesterday {
		newStreak = current + 1
	} else {
		newStreak = 1
	}
	newBest = best
	if newStreak > newBest {
		newBest = newStreak
	}
	return newStreak, newBest, true
}

// applyLevelUps consumes xp into level increments until xp falls below the
// current threshold. Each level grants a flat 100 bonus points. A single
// large award can span several levels.
func applyLevelUps(level, xp int) (newLevel, newXP, bonusPoints int, leveledUp bool) {
	newLevel, newXP = level, xp
	for newXP >= xpForNextLevel(newLevel) {
		newXP -= xpForNextLevel(newLevel)
		newLevel++
		bonusPoints += 100
		leveledUp = true
	}
	return newLevel, newXP, bonusPoints, leveledUp
}

// CompletionResult reports what a mission completion changed.
type CompletionResult struct {
	Success          bool    `json:"success"`
	XPGained         int     `json:"xpGained"`
	PointsGained     int     `json:"pointsGained"`
	LeveledUp        bool    `json:"leveledUp"`
	StreakMultiplier float64 `json:"streakMultiplier"`
	Level            int     `json:"level"`
	CurrentStreak    int     `json:"currentStreak"`
}

// ProgressionService owns the mission-completion transaction and the
// shared reward-award primitive.
type ProgressionService struct {
	db           *gorm.DB
	achievements *AchievementService
	now          func() time.Time
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{
		db:           db,
		achievements: NewAchievementService(db),
		now:          time.Now,
	}
}

// CompleteMission marks the mission done and applies every progression
// effect in one transaction: streak transition, multiplied XP, level-ups,
// points, and skill/attribute gains.
//
// Concurrency: the mission claim and the progression touch are conditional
// UPDATEs, so two racing completions for the same user serialize on the
// progression row and a double-complete of one mission loses the claim.
func (s *ProgressionService) CompleteMission(userID, missionID uint, reps int, sensorVerified bool) (*CompletionResult, error) {
	now := s.now()
	today := utils.DateUTC(now)
	yesterday := utils.PrevDateUTC(now)

	var result CompletionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Mission{}).
			Where("id = ? AND user_id = ? AND is_completed = ?", missionID, userID, false).
			Updates(map[string]interface{}{
				"is_completed":       true,
				"completed_at":       now,
				"verified_by_sensor": sensorVerified,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrMissionNotFound
		}

		var mission models.Mission
		if err := tx.First(&mission, missionID).Error; err != nil {
			return err
		}

		// Serialize concurrent completions for this user on their
		// progression row before reading it.
		touch := tx.Model(&models.Progression{}).
			Where("user_id = ?", userID).
			Update("updated_at", now)
		if touch.Error != nil {
			return touch.Error
		}
		if touch.RowsAffected == 0 {
			return ErrProgressionMissing
		}

		var prog models.Progression
		if err := tx.Where("user_id = ?", userID).First(&prog).Error; err != nil {
			return err
		}

		streak, best, transitioned := advanceStreak(prog.CurrentStreak, prog.BestStreak, prog.LastActivityDate, today, yesterday)
		mult := streakMultiplier(streak)
		xpGained := int(math.Floor(float64(mission.XPReward) * mult))
		newLevel, newXP, bonus, leveledUp := applyLevelUps(prog.Level, prog.XP+xpGained)
		pointsGained := mission.PointsReward + bonus

		updates := map[string]interface{}{
			"xp":     newXP,
			"level":  newLevel,
			"points": prog.Points + pointsGained,
		}
		if transitioned {
			updates["current_streak"] = streak
			updates["best_streak"] = best
			updates["last_activity_date"] = today
		}
		if err := tx.Model(&models.Progression{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		if mission.SkillID != nil && reps > 0 {
			if err := applySkillGains(tx, userID, *mission.SkillID, reps, now); err != nil {
				return err
			}
		}

		result = CompletionResult{
			Success:          true,
			XPGained:         xpGained,
			PointsGained:     pointsGained,
			LeveledUp:        leveledUp,
			StreakMultiplier: mult,
			Level:            newLevel,
			CurrentStreak:    streak,
		}
		return nil
	})
	if err != nil {
		if err == ErrProgressionMissing && utils.Sugar != nil {
			utils.Sugar.Errorf("consistency fault: user %d has no progression row", userID)
		}
		return nil, err
	}

	// Unlock evaluation runs after commit; an unlock failure must not roll
	// back an already-awarded completion.
	if s.achievements != nil {
		if err := s.achievements.EvaluateUnlocks(userID); err != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("achievement evaluation failed for user %d: %v", userID, err)
		}
	}

	return &result, nil
}

// applySkillGains bumps the user's cumulative skill stats and applies the
// skill's fixed per-completion attribute gains. Gains are per completion,
// never scaled by reps.
func applySkillGains(tx *gorm.DB, userID, skillID uint, reps int, now time.Time) error {
	var skill models.Skill
	if err := tx.First(&skill, skillID).Error; err != nil {
		return err
	}

	res := tx.Model(&models.UserSkill{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Updates(map[string]interface{}{
			"total_reps": gorm.Expr("total_reps + ?", reps),
			"best_reps":  gorm.Expr("CASE WHEN best_reps < ? THEN ? ELSE best_reps END", reps, reps),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Mission over a skill with no stats row yet (AI-authored missions
		// can do this); create it on the fly.
		us := models.UserSkill{
			UserID:     userID,
			SkillID:    skillID,
			TotalReps:  reps,
			BestReps:   reps,
			UnlockedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&us).Error; err != nil {
			return err
		}
	}

	gains := map[string]interface{}{}
	if skill.StrengthGain != 0 {
		gains["strength"] = gorm.Expr("strength + ?", skill.StrengthGain)
	}
	if skill.ConstitutionGain != 0 {
		gains["constitution"] = gorm.Expr("constitution + ?", skill.ConstitutionGain)
	}
	if skill.VitalityGain != 0 {
		gains["vitality"] = gorm.Expr("vitality + ?", skill.VitalityGain)
	}
	if skill.DexterityGain != 0 {
		gains["dexterity"] = gorm.Expr("dexterity + ?", skill.DexterityGain)
	}
	if skill.FocusGain != 0 {
		gains["focus"] = gorm.Expr("focus + ?", skill.FocusGain)
	}
	if len(gains) == 0 {
		return nil
	}

	res = tx.Model(&models.Attributes{}).Where("user_id = ?", userID).Updates(gains)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttributesMissing
	}
	return nil
}

// AwardReward adds xp and points to a user's progression, running the
// level-up loop. Used by the mini-game manager; the two participants'
// rewards are independent rows so callers may invoke it per user without
// coordination.
func (s *ProgressionService) AwardReward(tx *gorm.DB, userID uint, xp, points int) (leveledUp bool, err error) {
	touch := tx.Model(&models.Progression{}).
		Where("user_id = ?", userID).
		Update("updated_at", s.now())
	if touch.Error != nil {
		return false, touch.Error
	}
	if touch.RowsAffected == 0 {
		return false, ErrProgressionMissing
	}

	var prog models.Progression
	if err := tx.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return false, err
	}

	newLevel, newXP, bonus, leveled := applyLevelUps(prog.Level, prog.XP+xp)
	err = tx.Model(&models.Progression{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"xp":     newXP,
		"level":  newLevel,
		"points": prog.Points + points + bonus,
	}).Error
	return leveled, err
}

// GetProgression returns the user's progression row.
func (s *ProgressionService) GetProgression(userID uint) (*models.Progression, error) {
	var prog models.Progression
	if err := s.db.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgressionMissing
		}
		return nil, err
	}
	return &prog, nil
}

// GetAttributes returns the user's attributes row.
func (s *ProgressionService) GetAttributes(userID uint) (*models.Attributes, error) {
	var attrs models.Attributes
	if err := s.db.Where("user_id = ?", userID).First(&attrs).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAttributesMissing
		}
		return nil, err
	}
	return &attrs, nil
}
