package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// AchievementController serves achievement and title catalogs.
type AchievementController struct {
	service *services.AchievementService
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{service: services.NewAchievementService(db)}
}

// ListAchievements returns the catalog with the user's unlock flags.
func (ac *AchievementController) ListAchievements(ctx *gin.Context) {
	rows, err := ac.service.ListAchievements(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

// ListTitles returns the title catalog with unlock and active flags.
func (ac *AchievementController) ListTitles(ctx *gin.Context) {
	rows, err := ac.service.ListTitles(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

// ActivateTitle makes one unlocked title the active one.
func (ac *AchievementController) ActivateTitle(ctx *gin.Context) {
	titleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid title id")
		return
	}

	switch err := ac.service.ActivateTitle(middleware.UserID(ctx), uint(titleID)); err {
	case nil:
		utils.Success(ctx, gin.H{"success": true})
	case services.ErrTitleNotUnlocked:
		utils.Error(ctx, http.StatusNotFound, "title not unlocked")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}
