package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
)

func seedAchievement(t *testing.T, db *gorm.DB, name, reqType string, reqValue int) uint {
	t.Helper()
	a := models.Achievement{Name: name, RequirementType: reqType, RequirementValue: reqValue}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed achievement: %v", err)
	}
	return a.ID
}

func seedTitle(t *testing.T, db *gorm.DB, name, reqType string, reqValue int) uint {
	t.Helper()
	title := models.Title{Name: name, RequirementType: reqType, RequirementValue: reqValue}
	if err := db.Create(&title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	return title.ID
}

func TestSatisfies(t *testing.T) {
	stats := &userStats{Level: 5, BestStreak: 10, MissionsCompleted: 30, TotalReps: 500}

	tests := []struct {
		reqType string
		value   int
		want    bool
	}{
		{models.RequirementLevel, 5, true},
		{models.RequirementLevel, 6, false},
		{models.RequirementStreak, 10, true},
		{models.RequirementStreak, 11, false},
		{models.RequirementMissionsCompleted, 30, true},
		{models.RequirementTotalReps, 501, false},
		{"unknown", 0, false},
	}
	for _, tt := range tests {
		if got := satisfies(stats, tt.reqType, tt.value); got != tt.want {
			t.Errorf("satisfies(%s, %d) = %v, want %v", tt.reqType, tt.value, got, tt.want)
		}
	}
}

func TestEvaluateUnlocksIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)

	userID := seedUser(t, db, "conquistador")
	setProgression(t, db, userID, map[string]interface{}{"level": 5, "best_streak": 7})

	reached := seedAchievement(t, db, "Nível 5", models.RequirementLevel, 5)
	seedAchievement(t, db, "Nível 50", models.RequirementLevel, 50)
	seedTitle(t, db, "Constante", models.RequirementStreak, 7)

	for i := 0; i < 2; i++ {
		if err := svc.EvaluateUnlocks(userID); err != nil {
			t.Fatalf("EvaluateUnlocks pass %d: %v", i+1, err)
		}
	}

	var unlocked []models.UserAchievement
	db.Where("user_id = ?", userID).Find(&unlocked)
	if len(unlocked) != 1 || unlocked[0].AchievementID != reached {
		t.Errorf("unlocked = %+v, want only the level-5 achievement", unlocked)
	}

	var titles int64
	db.Model(&models.UserTitle{}).Where("user_id = ?", userID).Count(&titles)
	if titles != 1 {
		t.Errorf("unlocked titles = %d, want 1", titles)
	}
}

func TestListAchievementsFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)

	userID := seedUser(t, db, "colecionador")
	setProgression(t, db, userID, map[string]interface{}{"level": 3})
	seedAchievement(t, db, "Nível 3", models.RequirementLevel, 3)
	seedAchievement(t, db, "Nível 99", models.RequirementLevel, 99)

	if err := svc.EvaluateUnlocks(userID); err != nil {
		t.Fatalf("EvaluateUnlocks: %v", err)
	}

	rows, err := svc.ListAchievements(userID)
	if err != nil {
		t.Fatalf("ListAchievements: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want the full catalog of 2", len(rows))
	}
	if !rows[0].Unlocked || rows[0].UnlockedAt == nil {
		t.Errorf("first row = %+v, want unlocked with timestamp", rows[0])
	}
	if rows[1].Unlocked {
		t.Errorf("second row unlocked, want locked")
	}
}

func TestActivateTitleSingleActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)

	userID := seedUser(t, db, "titulado")
	setProgression(t, db, userID, map[string]interface{}{"level": 10})
	first := seedTitle(t, db, "Iniciado", models.RequirementLevel, 1)
	second := seedTitle(t, db, "Veterano", models.RequirementLevel, 10)
	locked := seedTitle(t, db, "Lenda", models.RequirementLevel, 99)

	if err := svc.EvaluateUnlocks(userID); err != nil {
		t.Fatalf("EvaluateUnlocks: %v", err)
	}

	if err := svc.ActivateTitle(userID, first); err != nil {
		t.Fatalf("ActivateTitle(first): %v", err)
	}
	if err := svc.ActivateTitle(userID, second); err != nil {
		t.Fatalf("ActivateTitle(second): %v", err)
	}

	var active []models.UserTitle
	db.Where("user_id = ? AND is_active = ?", userID, true).Find(&active)
	if len(active) != 1 || active[0].TitleID != second {
		t.Errorf("active titles = %+v, want only the second", active)
	}

	if err := svc.ActivateTitle(userID, locked); err != ErrTitleNotUnlocked {
		t.Fatalf("locked title err = %v, want ErrTitleNotUnlocked", err)
	}
	// A failed activation must not leave the user with no active title.
	db.Where("user_id = ? AND is_active = ?", userID, true).Find(&active)
	if len(active) != 1 || active[0].TitleID != second {
		t.Errorf("active titles after failed activation = %+v, want the second intact", active)
	}
}
