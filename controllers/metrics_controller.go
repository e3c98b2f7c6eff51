package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// MetricsController serves daily activity metrics and the food diary.
type MetricsController struct {
	service *services.MetricsService
}

func NewMetricsController(db *gorm.DB) *MetricsController {
	return &MetricsController{service: services.NewMetricsService(db)}
}

// Today returns today's metrics row, creating a zero row on first access.
func (mc *MetricsController) Today(ctx *gin.Context) {
	row, err := mc.service.Today(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, row)
}

type updateMetricsRequest struct {
	Steps          int `json:"steps" binding:"min=0"`
	CaloriesBurned int `json:"calories_burned" binding:"min=0"`
}

// Update upserts today's steps and calories.
func (mc *MetricsController) Update(ctx *gin.Context) {
	var req updateMetricsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := mc.service.Update(middleware.UserID(ctx), req.Steps, req.CaloriesBurned)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, row)
}

// FoodToday lists today's food diary entries.
func (mc *MetricsController) FoodToday(ctx *gin.Context) {
	entries, err := mc.service.FoodToday(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, entries)
}
