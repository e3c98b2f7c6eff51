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

// SocialController serves search, friendships and the global ranking.
type SocialController struct {
	service *services.SocialService
}

func NewSocialController(db *gorm.DB) *SocialController {
	return &SocialController{service: services.NewSocialService(db)}
}

// SearchUsers finds users by username prefix.
func (sc *SocialController) SearchUsers(ctx *gin.Context) {
	query := ctx.Query("q")
	if len(query) < 3 {
		utils.Error(ctx, http.StatusBadRequest, "query must be at least 3 characters")
		return
	}
	rows, err := sc.service.SearchUsers(middleware.UserID(ctx), query)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

type friendRequestBody struct {
	FriendUserID uint `json:"friend_user_id" binding:"required"`
}

// RequestFriend creates a pending friendship request.
func (sc *SocialController) RequestFriend(ctx *gin.Context) {
	var req friendRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := sc.service.RequestFriendship(middleware.UserID(ctx), req.FriendUserID); err {
	case nil:
		ctx.JSON(http.StatusCreated, gin.H{"success": true})
	case services.ErrFriendshipExists:
		utils.Error(ctx, http.StatusBadRequest, "friendship already exists")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// PendingRequests lists inbound friendship requests.
func (sc *SocialController) PendingRequests(ctx *gin.Context) {
	rows, err := sc.service.ListPendingRequests(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

// AcceptFriend accepts a pending request addressed to the caller.
func (sc *SocialController) AcceptFriend(ctx *gin.Context) {
	requestID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request id")
		return
	}

	switch err := sc.service.AcceptFriendship(middleware.UserID(ctx), uint(requestID)); err {
	case nil:
		utils.Success(ctx, gin.H{"success": true})
	case gorm.ErrRecordNotFound:
		utils.Error(ctx, http.StatusNotFound, "request not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// RejectFriend deletes a pending request addressed to the caller.
func (sc *SocialController) RejectFriend(ctx *gin.Context) {
	requestID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request id")
		return
	}

	switch err := sc.service.RejectFriendship(middleware.UserID(ctx), uint(requestID)); err {
	case nil:
		utils.Success(ctx, gin.H{"success": true})
	case gorm.ErrRecordNotFound:
		utils.Error(ctx, http.StatusNotFound, "request not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// Friends lists the caller's accepted friends.
func (sc *SocialController) Friends(ctx *gin.Context) {
	rows, err := sc.service.FriendsOf(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}

// Ranking returns the global leaderboard.
func (sc *SocialController) Ranking(ctx *gin.Context) {
	rows, err := sc.service.GlobalRanking()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, rows)
}
