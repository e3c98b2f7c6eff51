package main

import (
	"time"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/routes"
	"github.com/fitquest/fitquest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Session{},
		&models.Profile{},
		&models.Attributes{},
		&models.Progression{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Mission{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Title{},
		&models.UserTitle{},
		&models.ShopPartner{},
		&models.ShopProduct{},
		&models.CouponOrder{},
		&models.Friendship{},
		&models.MiniGame{},
		&models.DailyMetrics{},
		&models.FoodEntry{},
	)

	r := routes.SetupRouter(db)

	// Best-effort hygiene for the 30-day session table
	utils.StartSessionSweeper(db, time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
