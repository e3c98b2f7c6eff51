package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// SkillController serves the skill catalog with per-user unlock state.
type SkillController struct {
	db *gorm.DB
}

func NewSkillController(db *gorm.DB) *SkillController {
	return &SkillController{db: db}
}

type skillListing struct {
	models.Skill
	Unlocked  bool `json:"unlocked"`
	TotalReps int  `json:"total_reps"`
	BestReps  int  `json:"best_reps"`
}

// ListSkills returns the full catalog flagged with the user's unlocks and
// cumulative stats.
func (sc *SkillController) ListSkills(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	var rows []skillListing
	err := sc.db.Model(&models.Skill{}).
		Select("skills.*, user_skills.id IS NOT NULL AS unlocked, COALESCE(user_skills.total_reps, 0) AS total_reps, COALESCE(user_skills.best_reps, 0) AS best_reps").
		Joins("LEFT JOIN user_skills ON user_skills.skill_id = skills.id AND user_skills.user_id = ?", userID).
		Order("skills.required_level, skills.id").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

// AvailableSkills returns locked skills the user's level already permits,
// honoring prerequisite chains.
func (sc *SkillController) AvailableSkills(ctx *gin.Context) {
	userID := middleware.UserID(ctx)

	var prog models.Progression
	if err := sc.db.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusInternalServerError, "account state inconsistent")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	var unlocked []models.UserSkill
	if err := sc.db.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	unlockedSet := map[uint]bool{}
	for _, us := range unlocked {
		unlockedSet[us.SkillID] = true
	}

	var catalog []models.Skill
	if err := sc.db.Where("required_level <= ?", prog.Level).Order("required_level, id").Find(&catalog).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	available := make([]models.Skill, 0)
	for _, skill := range catalog {
		if unlockedSet[skill.ID] {
			continue
		}
		if skill.PrerequisiteSkillID != nil && !unlockedSet[*skill.PrerequisiteSkillID] {
			continue
		}
		available = append(available, skill)
	}
	utils.Success(ctx, available)
}

// UnlockSkill creates the UserSkill row for an available skill.
func (sc *SkillController) UnlockSkill(ctx *gin.Context) {
	userID := middleware.UserID(ctx)

	var req struct {
		SkillID uint `json:"skill_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	var skill models.Skill
	if err := sc.db.First(&skill, req.SkillID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "skill not found")
		return
	}

	var prog models.Progression
	if err := sc.db.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "account state inconsistent")
		return
	}
	if prog.Level < skill.RequiredLevel {
		utils.Error(ctx, http.StatusBadRequest, "level too low for this skill")
		return
	}
	if skill.PrerequisiteSkillID != nil {
		var count int64
		sc.db.Model(&models.UserSkill{}).
			Where("user_id = ? AND skill_id = ?", userID, *skill.PrerequisiteSkillID).
			Count(&count)
		if count == 0 {
			utils.Error(ctx, http.StatusBadRequest, "prerequisite skill not unlocked")
			return
		}
	}

	us := models.UserSkill{UserID: userID, SkillID: skill.ID, UnlockedAt: time.Now()}
	if err := sc.db.Create(&us).Error; err != nil {
		if services.IsDuplicateKey(err) {
			utils.Error(ctx, http.StatusBadRequest, "skill already unlocked")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	ctx.JSON(http.StatusCreated, us)
}
