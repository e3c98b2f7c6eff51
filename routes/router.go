package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/controllers"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	r.Use(utils.Ginzap(gl))
	r.Use(utils.RecoveryWithZap(gl))
	r.Use(middleware.PrometheusMiddleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(db)
	onboardingController := controllers.NewOnboardingController(db)
	progressionController := controllers.NewProgressionController(db)
	skillController := controllers.NewSkillController(db)
	achievementController := controllers.NewAchievementController(db)
	shopController := controllers.NewShopController(db)
	socialController := controllers.NewSocialController(db)
	miniGameController := controllers.NewMiniGameController(db)
	metricsController := controllers.NewMetricsController(db)
	aiController := controllers.NewAIController(db)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/google", authController.GoogleLogin)
	authGroup.GET("/google/callback", authController.GoogleCallback)
	authGroup.POST("/token", middleware.AuthRequired(db), authController.ExchangeToken)

	api.GET("/logout", authController.Logout)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(db))

	protected.GET("/users/me", authController.Me)
	protected.GET("/users/search", socialController.SearchUsers)

	protected.POST("/onboarding", onboardingController.Onboard)
	protected.GET("/onboarding/status", onboardingController.HasProfile)
	protected.GET("/profile", onboardingController.GetProfile)

	protected.GET("/progression", progressionController.GetProgression)
	protected.GET("/attributes", progressionController.GetAttributes)
	protected.GET("/missions", progressionController.ListMissions)
	protected.POST("/missions/complete", progressionController.CompleteMission)

	protected.GET("/skills", skillController.ListSkills)
	protected.GET("/skills/available", skillController.AvailableSkills)
	protected.POST("/skills/unlock", skillController.UnlockSkill)

	protected.GET("/achievements", achievementController.ListAchievements)
	protected.GET("/titles", achievementController.ListTitles)
	protected.POST("/titles/:id/activate", achievementController.ActivateTitle)

	protected.GET("/shop/products", shopController.ListProducts)
	protected.POST("/shop/purchase/:id", shopController.Purchase)
	protected.GET("/shop/orders", shopController.ListOrders)

	protected.GET("/friends", socialController.Friends)
	protected.POST("/friends/request", socialController.RequestFriend)
	protected.GET("/friends/requests", socialController.PendingRequests)
	protected.POST("/friends/requests/:id/accept", socialController.AcceptFriend)
	protected.POST("/friends/requests/:id/reject", socialController.RejectFriend)
	protected.GET("/ranking", socialController.Ranking)

	protected.GET("/mini-games", miniGameController.List)
	protected.POST("/mini-games/challenge", miniGameController.Challenge)
	protected.POST("/mini-games/:id/accept", miniGameController.Accept)
	protected.POST("/mini-games/:id/complete", miniGameController.Complete)

	protected.GET("/metrics/today", metricsController.Today)
	protected.POST("/metrics/update", metricsController.Update)
	protected.GET("/food/today", metricsController.FoodToday)
	// Legacy alias for the food analyzer kept for older clients.
	protected.POST("/food/scan", aiController.AnalyzeFood)

	aiGroup := protected.Group("/ai")
	aiGroup.Use(middleware.RateLimitMiddleware())
	aiGroup.POST("/generate-missions", aiController.GenerateMissions)
	aiGroup.POST("/chat", aiController.Chat)
	aiGroup.POST("/analyze-food", aiController.AnalyzeFood)
	aiGroup.GET("/recommendations", aiController.Recommendations)
	aiGroup.GET("/workout-suggestions", aiController.WorkoutSuggestions)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			utils.Error(ctx, http.StatusNotFound, "static asset not found")
			return
		}
		// Everything else falls back to the SPA entry point.
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
