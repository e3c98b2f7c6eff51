package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// OnboardingController handles the one-time account setup and profile reads.
type OnboardingController struct {
	db      *gorm.DB
	service *services.OnboardingService
}

func NewOnboardingController(db *gorm.DB) *OnboardingController {
	return &OnboardingController{db: db, service: services.NewOnboardingService(db)}
}

type onboardingRequest struct {
	Username     string  `json:"username" binding:"required,min=3,max=20"`
	FullName     string  `json:"full_name" binding:"required"`
	Weight       float64 `json:"weight" binding:"required,gt=0"`
	Height       float64 `json:"height" binding:"required,gt=0"`
	Conditioning string  `json:"initial_conditioning" binding:"required,oneof=sedentario iniciante intermediario avancado"`
	Pushups      int     `json:"pushups" binding:"min=0"`
	Situps       int     `json:"situps" binding:"min=0"`
	Squats       int     `json:"squats" binding:"min=0"`
	Injuries     string  `json:"injuries"`
	Equipment    string  `json:"equipment"`
	MainGoal     string  `json:"main_goal" binding:"required,oneof=perder_peso ganhar_massa resistencia saude_geral"`
}

// Onboard validates the submission and runs the setup transaction.
func (oc *OnboardingController) Onboard(ctx *gin.Context) {
	var req onboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := oc.service.Onboard(middleware.UserID(ctx), services.OnboardingInput{
		Username:     req.Username,
		FullName:     req.FullName,
		Weight:       req.Weight,
		Height:       req.Height,
		Conditioning: req.Conditioning,
		Pushups:      req.Pushups,
		Situps:       req.Situps,
		Squats:       req.Squats,
		Injuries:     req.Injuries,
		Equipment:    req.Equipment,
		MainGoal:     req.MainGoal,
	})
	switch err {
	case nil:
		ctx.JSON(http.StatusCreated, profile)
	case services.ErrUsernameTaken:
		utils.Error(ctx, http.StatusBadRequest, "username already taken")
	case services.ErrProfileExists:
		utils.Error(ctx, http.StatusBadRequest, "profile already exists")
	default:
		utils.Sugar.Errorf("onboarding failed for user %d: %v", middleware.UserID(ctx), err)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// GetProfile returns the user's onboarding profile.
func (oc *OnboardingController) GetProfile(ctx *gin.Context) {
	profile, err := oc.service.GetProfile(middleware.UserID(ctx))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "profile not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, profile)
}

// HasProfile reports whether onboarding already happened, so the client
// can route new logins to the onboarding flow.
func (oc *OnboardingController) HasProfile(ctx *gin.Context) {
	var count int64
	if err := oc.db.Model(&models.Profile{}).Where("user_id = ?", middleware.UserID(ctx)).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, gin.H{"onboarded": count > 0})
}
