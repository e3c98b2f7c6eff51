package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// ProgressionController exposes progression, attributes and mission
// completion.
type ProgressionController struct {
	progression *services.ProgressionService
	missions    *services.MissionService
}

func NewProgressionController(db *gorm.DB) *ProgressionController {
	return &ProgressionController{
		progression: services.NewProgressionService(db),
		missions:    services.NewMissionService(db),
	}
}

// GetProgression returns the user's xp/level/points/streak state.
func (pc *ProgressionController) GetProgression(ctx *gin.Context) {
	prog, err := pc.progression.GetProgression(middleware.UserID(ctx))
	if err != nil {
		if err == services.ErrProgressionMissing {
			utils.Sugar.Errorf("consistency fault: user %d has no progression row", middleware.UserID(ctx))
			utils.Error(ctx, http.StatusInternalServerError, "account state inconsistent")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, prog)
}

// GetAttributes returns the user's five character stats.
func (pc *ProgressionController) GetAttributes(ctx *gin.Context) {
	attrs, err := pc.progression.GetAttributes(middleware.UserID(ctx))
	if err != nil {
		if err == services.ErrAttributesMissing {
			utils.Sugar.Errorf("consistency fault: user %d has no attributes row", middleware.UserID(ctx))
			utils.Error(ctx, http.StatusInternalServerError, "account state inconsistent")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, attrs)
}

// ListMissions returns the user's incomplete missions with skill names.
func (pc *ProgressionController) ListMissions(ctx *gin.Context) {
	missions, err := pc.missions.ListIncomplete(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, missions)
}

type completeMissionRequest struct {
	MissionID      uint `json:"mission_id" binding:"required"`
	RepsCompleted  int  `json:"reps_completed" binding:"min=0"`
	SensorVerified bool `json:"sensor_verified"`
}

// CompleteMission runs the progression transaction for one mission.
func (pc *ProgressionController) CompleteMission(ctx *gin.Context) {
	var req completeMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(ctx)
	result, err := pc.progression.CompleteMission(userID, req.MissionID, req.RepsCompleted, req.SensorVerified)
	switch err {
	case nil:
		middleware.CountMissionCompleted()
		utils.Success(ctx, result)
	case services.ErrMissionNotFound:
		utils.Error(ctx, http.StatusNotFound, "mission not found")
	case services.ErrProgressionMissing, services.ErrAttributesMissing:
		utils.Error(ctx, http.StatusInternalServerError, "account state inconsistent")
	default:
		utils.Sugar.Errorf("mission completion failed for user %d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}
