package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// SessionCookieName is the browser session cookie.
	SessionCookieName = "session_id"
)

// AuthRequired resolves the caller's identity: the session cookie first,
// then a Bearer JWT for non-browser clients. No match means 401 and the
// handler never runs.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if sessionID, err := ctx.Cookie(SessionCookieName); err == nil && sessionID != "" {
			var session models.Session
			err := db.Where("id = ? AND expires_at > ?", sessionID, time.Now()).First(&session).Error
			if err == nil {
				ctx.Set(ContextUserIDKey, session.UserID)
				ctx.Next()
				return
			}
			if err != gorm.ErrRecordNotFound {
				utils.Error(ctx, http.StatusInternalServerError, "internal server error")
				ctx.Abort()
				return
			}
		}

		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, "not authenticated")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" || utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, "not authenticated")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// UserID extracts the authenticated user id set by AuthRequired.
func UserID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
