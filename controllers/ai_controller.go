package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// AIController exposes the AI gateway operations.
type AIController struct {
	gateway *services.AIGateway
}

func NewAIController(db *gorm.DB) *AIController {
	client := services.NewAIClient(config.Get())
	return &AIController{gateway: services.NewAIGateway(db, client)}
}

// aiError maps gateway failures onto the response contract: upstream and
// parse failures are a generic 500, everything else likewise but logged.
func aiError(ctx *gin.Context, operation string, err error) {
	if errors.Is(err, services.ErrUpstream) || errors.Is(err, services.ErrBadAIResponse) {
		utils.Sugar.Warnf("ai %s failed: %v", operation, err)
	} else {
		utils.Sugar.Errorf("ai %s failed: %v", operation, err)
	}
	utils.Error(ctx, http.StatusInternalServerError, "ai request failed")
}

// GenerateMissions persists a validated AI-authored mission batch.
func (ai *AIController) GenerateMissions(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	missions, err := ai.gateway.GenerateMissions(userID)
	middleware.CountAIRequest("generate_missions", err)
	if err != nil {
		aiError(ctx, "generate-missions", err)
		return
	}
	utils.Success(ctx, gin.H{"success": true, "missions": missions})
}

type chatRequest struct {
	Message string                 `json:"message" binding:"required"`
	History []services.ChatMessage `json:"history"`
}

// Chat relays a coaching conversation.
func (ai *AIController) Chat(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := ai.gateway.Chat(middleware.UserID(ctx), req.Message, req.History)
	middleware.CountAIRequest("chat", err)
	if err != nil {
		aiError(ctx, "chat", err)
		return
	}
	utils.Success(ctx, gin.H{"success": true, "message": reply})
}

type analyzeFoodRequest struct {
	FoodDescription string `json:"food_description"`
	ImageBase64     string `json:"image_base64"`
}

// AnalyzeFood estimates macros from text or a photo and records the entry.
func (ai *AIController) AnalyzeFood(ctx *gin.Context) {
	var req analyzeFoodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FoodDescription == "" && req.ImageBase64 == "" {
		utils.Error(ctx, http.StatusBadRequest, "food_description or image_base64 required")
		return
	}

	data, err := ai.gateway.AnalyzeFood(middleware.UserID(ctx), req.FoodDescription, req.ImageBase64)
	middleware.CountAIRequest("analyze_food", err)
	if err != nil {
		aiError(ctx, "analyze-food", err)
		return
	}
	utils.Success(ctx, gin.H{"success": true, "food_data": data})
}

// Recommendations returns personalized advice.
func (ai *AIController) Recommendations(ctx *gin.Context) {
	recs, err := ai.gateway.GetRecommendations(middleware.UserID(ctx))
	middleware.CountAIRequest("recommendations", err)
	if err != nil {
		aiError(ctx, "recommendations", err)
		return
	}
	utils.Success(ctx, gin.H{"success": true, "recommendations": recs})
}

// WorkoutSuggestions returns a full suggested workout.
func (ai *AIController) WorkoutSuggestions(ctx *gin.Context) {
	workout, err := ai.gateway.SuggestWorkout(middleware.UserID(ctx))
	middleware.CountAIRequest("workout_suggestions", err)
	if err != nil {
		aiError(ctx, "workout-suggestions", err)
		return
	}
	utils.Success(ctx, gin.H{"success": true, "workout": workout})
}
