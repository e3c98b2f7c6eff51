package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// MiniGameController serves the challenge lifecycle.
type MiniGameController struct {
	service *services.MiniGameService
}

func NewMiniGameController(db *gorm.DB) *MiniGameController {
	return &MiniGameController{
		service: services.NewMiniGameService(db, services.NewProgressionService(db)),
	}
}

type challengeRequest struct {
	ChallengedUserID *uint  `json:"challenged_user_id"`
	SkillID          uint   `json:"skill_id" binding:"required"`
	TargetReps       int    `json:"target_reps" binding:"required,min=1"`
	OpponentType     string `json:"opponent_type" binding:"required,oneof=friend random"`
}

// Challenge creates a pending mini-game.
func (mc *MiniGameController) Challenge(ctx *gin.Context) {
	var req challengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OpponentType == services.OpponentFriend && req.ChallengedUserID == nil {
		utils.Error(ctx, http.StatusBadRequest, "challenged_user_id required for friend challenges")
		return
	}

	game, err := mc.service.Challenge(middleware.UserID(ctx), req.ChallengedUserID, req.SkillID, req.TargetReps, req.OpponentType)
	switch err {
	case nil:
		ctx.JSON(http.StatusCreated, game)
	case services.ErrNoOpponent:
		utils.Error(ctx, http.StatusNotFound, "no eligible opponent found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// Accept moves a pending game to active. Not being the challenged party
// or the game not being pending is a silent no-op.
func (mc *MiniGameController) Accept(ctx *gin.Context) {
	gameID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid game id")
		return
	}
	if err := mc.service.Accept(middleware.UserID(ctx), uint(gameID)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, gin.H{"success": true})
}

type completeGameRequest struct {
	RepsCompleted int `json:"reps_completed" binding:"min=0"`
	TimeSeconds   int `json:"time_seconds" binding:"min=0"`
}

// Complete resolves an active game in favor of the caller.
func (mc *MiniGameController) Complete(ctx *gin.Context) {
	gameID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid game id")
		return
	}

	var req completeGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := mc.service.Complete(middleware.UserID(ctx), uint(gameID), req.RepsCompleted, req.TimeSeconds)
	switch err {
	case nil:
		utils.Success(ctx, result)
	case services.ErrGameNotFound, services.ErrGameNotActive:
		utils.Error(ctx, http.StatusNotFound, "game not active")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// List returns the caller's games; ?status=active filters to live ones.
func (mc *MiniGameController) List(ctx *gin.Context) {
	var statuses []string
	if status := ctx.Query("status"); status != "" {
		statuses = []string{status}
	} else {
		statuses = []string{models.MiniGamePending, models.MiniGameActive}
	}

	games, err := mc.service.ListForUser(middleware.UserID(ctx), statuses)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, games)
}
