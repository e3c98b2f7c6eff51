package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

const bearerTokenTTL = 72 * time.Hour

// AuthController handles Google OAuth login, sessions and token exchange.
type AuthController struct {
	db    *gorm.DB
	oauth *oauth2.Config
	cfg   config.AppConfig
}

func NewAuthController(db *gorm.DB) *AuthController {
	cfg := config.Get()
	return &AuthController{
		db:  db,
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectBase + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// GoogleLogin redirects the browser to Google's consent screen with a
// single-use state token.
func (ac *AuthController) GoogleLogin(ctx *gin.Context) {
	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)
	ctx.Redirect(http.StatusTemporaryRedirect, ac.oauth.AuthCodeURL(state))
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the authorization code, upserts the user by
// provider subject id and establishes a 30-day session.
func (ac *AuthController) GoogleCallback(ctx *gin.Context) {
	state := ctx.Query("state")
	if state == "" || !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, "invalid oauth state")
		return
	}

	code := ctx.Query("code")
	if code == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing authorization code")
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	token, err := ac.oauth.Exchange(reqCtx, code)
	if err != nil {
		utils.Sugar.Warnf("oauth code exchange failed: %v", err)
		utils.Error(ctx, http.StatusUnauthorized, "login failed")
		return
	}

	info, err := ac.fetchUserInfo(reqCtx, token)
	if err != nil {
		utils.Sugar.Warnf("oauth userinfo fetch failed: %v", err)
		utils.Error(ctx, http.StatusUnauthorized, "login failed")
		return
	}

	var user models.User
	err = ac.db.Where("google_id = ?", info.ID).First(&user).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			GoogleID:  info.ID,
			Email:     info.Email,
			Name:      info.Name,
			AvatarURL: info.Picture,
		}
		if err := ac.db.Create(&user).Error; err != nil {
			utils.Sugar.Errorf("user create failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "login failed")
			return
		}
	case err != nil:
		utils.Error(ctx, http.StatusInternalServerError, "login failed")
		return
	default:
		// Refresh mutable identity fields on re-login.
		ac.db.Model(&user).Updates(map[string]interface{}{
			"name":       info.Name,
			"avatar_url": info.Picture,
		})
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(ac.cfg.SessionTTLDays) * 24 * time.Hour),
	}
	if err := ac.db.Create(&session).Error; err != nil {
		utils.Sugar.Errorf("session create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "login failed")
		return
	}

	maxAge := ac.cfg.SessionTTLDays * 24 * 3600
	ctx.SetCookie(middleware.SessionCookieName, session.ID, maxAge, "/", "", false, true)
	ctx.Redirect(http.StatusTemporaryRedirect, "/auth/callback")
}

func (ac *AuthController) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := ac.oauth.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var info googleUserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Me returns the authenticated user's identity record.
func (ac *AuthController) Me(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	var user models.User
	if err := ac.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}
	utils.Success(ctx, user)
}

// Logout deletes the session row, clears the cookie and blacklists any
// bearer token presented alongside.
func (ac *AuthController) Logout(ctx *gin.Context) {
	if sessionID, err := ctx.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
		ac.db.Delete(&models.Session{}, "id = ?", sessionID)
		ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	}

	if auth := ctx.GetHeader("Authorization"); len(auth) > 7 {
		tokenStr := auth[7:]
		if claims, err := utils.ParseToken(tokenStr); err == nil {
			utils.BlacklistToken(tokenStr, claims.ExpiresAt.Time)
		}
	}

	utils.Success(ctx, gin.H{"success": true})
}

// ExchangeToken issues a short-lived JWT for non-browser clients against
// a live session.
func (ac *AuthController) ExchangeToken(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	var user models.User
	if err := ac.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, bearerTokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "token generation failed")
		return
	}
	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_in": int(bearerTokenTTL.Seconds()),
	})
}
