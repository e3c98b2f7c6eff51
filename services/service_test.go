package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fitquest/fitquest/models"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. cache=shared with a single connection keeps the database alive
// across the pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
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
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedUser creates a user with zeroed progression and attributes, the
// state every onboarded account has.
func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()

	user := models.User{Email: username + "@example.com", Name: username, GoogleID: "g-" + username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if username != "" {
		profile := models.Profile{UserID: user.ID, Username: username, FullName: username}
		if err := db.Create(&profile).Error; err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	if err := db.Create(&models.Progression{UserID: user.ID, Level: 1}).Error; err != nil {
		t.Fatalf("seed progression: %v", err)
	}
	if err := db.Create(&models.Attributes{UserID: user.ID, Strength: 10, Constitution: 10, Vitality: 10, Dexterity: 10, Focus: 10}).Error; err != nil {
		t.Fatalf("seed attributes: %v", err)
	}
	return user.ID
}

func setProgression(t *testing.T, db *gorm.DB, userID uint, updates map[string]interface{}) {
	t.Helper()
	if err := db.Model(&models.Progression{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		t.Fatalf("set progression: %v", err)
	}
}

func getProgression(t *testing.T, db *gorm.DB, userID uint) models.Progression {
	t.Helper()
	var prog models.Progression
	if err := db.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		t.Fatalf("get progression: %v", err)
	}
	return prog
}

// seedSkill creates a catalog skill with the given attribute gains.
func seedSkill(t *testing.T, db *gorm.DB, name string, requiredLevel, strGain, conGain int) uint {
	t.Helper()
	skill := models.Skill{
		Name:             name,
		Category:         "calistenia",
		RequiredLevel:    requiredLevel,
		StrengthGain:     strGain,
		ConstitutionGain: conGain,
	}
	if err := db.Create(&skill).Error; err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	return skill.ID
}

func unlockSkill(t *testing.T, db *gorm.DB, userID, skillID uint) {
	t.Helper()
	us := models.UserSkill{UserID: userID, SkillID: skillID, UnlockedAt: time.Now()}
	if err := db.Create(&us).Error; err != nil {
		t.Fatalf("unlock skill: %v", err)
	}
}

// seedMission creates an incomplete mission with standard daily rewards.
func seedMission(t *testing.T, db *gorm.DB, userID uint, skillID *uint, xpReward, pointsReward int) uint {
	t.Helper()
	deadline := time.Now().Add(24 * time.Hour)
	mission := models.Mission{
		UserID:       userID,
		Type:         models.MissionDaily,
		Title:        "test mission",
		SkillID:      skillID,
		TargetReps:   20,
		XPReward:     xpReward,
		PointsReward: pointsReward,
		Deadline:     &deadline,
	}
	if err := db.Create(&mission).Error; err != nil {
		t.Fatalf("seed mission: %v", err)
	}
	return mission.ID
}

// fixedClock pins a service clock to a known instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
