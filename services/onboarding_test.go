package services

import (
	"testing"

	"github.com/fitquest/fitquest/models"
)

func newOnboardedInput(username string) OnboardingInput {
	return OnboardingInput{
		Username:     username,
		FullName:     "Test User",
		Weight:       80,
		Height:       180,
		Conditioning: models.ConditioningBeginner,
		Pushups:      12,
		Situps:       23,
		Squats:       7,
		MainGoal:     "saude_geral",
	}
}

func TestSeedAttributesTiers(t *testing.T) {
	tests := []struct {
		tier string
		want [5]int // str, con, vit, dex, foc
	}{
		{models.ConditioningSedentary, [5]int{10, 10, 10, 10, 10}},
		{models.ConditioningBeginner, [5]int{15, 15, 15, 12, 12}},
		{models.ConditioningIntermediate, [5]int{25, 25, 25, 20, 20}},
		{models.ConditioningAdvanced, [5]int{40, 40, 40, 35, 35}},
		{"unknown", [5]int{10, 10, 10, 10, 10}},
	}

	for _, tt := range tests {
		attrs := seedAttributes(1, tt.tier, 0, 0, 0)
		got := [5]int{attrs.Strength, attrs.Constitution, attrs.Vitality, attrs.Dexterity, attrs.Focus}
		if got != tt.want {
			t.Errorf("seedAttributes(%s) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestSeedAttributesRepBonuses(t *testing.T) {
	// floor(12/5)=2 str, floor(23/5)=4 con, floor(7/5)=1 vit
	attrs := seedAttributes(1, models.ConditioningBeginner, 12, 23, 7)
	if attrs.Strength != 17 || attrs.Constitution != 19 || attrs.Vitality != 16 {
		t.Errorf("bonused attributes = (%d, %d, %d), want (17, 19, 16)",
			attrs.Strength, attrs.Constitution, attrs.Vitality)
	}
	if attrs.Dexterity != 12 || attrs.Focus != 12 {
		t.Errorf("dex/foc = (%d, %d), want untouched (12, 12)", attrs.Dexterity, attrs.Focus)
	}
}

func TestOnboardCreatesFullAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)

	seedSkill(t, db, "flexao", 1, 5, 0)
	seedSkill(t, db, "corrida", 1, 0, 3)
	seedSkill(t, db, "muscle-up", 5, 8, 0)

	user := models.User{Email: "new@example.com", Name: "new", GoogleID: "g-new"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	profile, err := svc.Onboard(user.ID, newOnboardedInput("atleta"))
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}
	if profile.Username != "atleta" {
		t.Errorf("username = %q, want atleta", profile.Username)
	}

	prog := getProgression(t, db, user.ID)
	if prog.Level != 1 || prog.XP != 0 || prog.Points != 0 || prog.CurrentStreak != 0 {
		t.Errorf("progression not zeroed: %+v", prog)
	}

	var unlocks []models.UserSkill
	db.Where("user_id = ?", user.ID).Find(&unlocks)
	if len(unlocks) != 2 {
		t.Errorf("unlocked %d skills, want the 2 level-1 skills", len(unlocks))
	}

	var missions []models.Mission
	db.Where("user_id = ?", user.ID).Find(&missions)
	if len(missions) == 0 || len(missions) > 3 {
		t.Errorf("initial batch = %d missions, want 1-3", len(missions))
	}
	for _, m := range missions {
		if m.SkillID == nil {
			t.Error("batch mission without a skill")
			continue
		}
		if *m.SkillID != unlocks[0].SkillID && *m.SkillID != unlocks[1].SkillID {
			t.Errorf("mission over locked skill %d", *m.SkillID)
		}
		if m.TargetReps != 20 || m.XPReward != 50 || m.PointsReward != 10 {
			t.Errorf("mission rewards = (%d, %d, %d), want (20, 50, 10)",
				m.TargetReps, m.XPReward, m.PointsReward)
		}
	}
}

func TestOnboardUsernameConflictLeavesNoPartialRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)

	first := models.User{Email: "a@example.com", Name: "a", GoogleID: "g-a"}
	second := models.User{Email: "b@example.com", Name: "b", GoogleID: "g-b"}
	db.Create(&first)
	db.Create(&second)

	if _, err := svc.Onboard(first.ID, newOnboardedInput("taken")); err != nil {
		t.Fatalf("first Onboard: %v", err)
	}
	if _, err := svc.Onboard(second.ID, newOnboardedInput("taken")); err != ErrUsernameTaken {
		t.Fatalf("second Onboard err = %v, want ErrUsernameTaken", err)
	}

	var profiles, progressions, attrs int64
	db.Model(&models.Profile{}).Where("user_id = ?", second.ID).Count(&profiles)
	db.Model(&models.Progression{}).Where("user_id = ?", second.ID).Count(&progressions)
	db.Model(&models.Attributes{}).Where("user_id = ?", second.ID).Count(&attrs)
	if profiles != 0 || progressions != 0 || attrs != 0 {
		t.Errorf("partial rows after conflict: profiles=%d progressions=%d attributes=%d",
			profiles, progressions, attrs)
	}
}

func TestOnboardRepeatedRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)

	user := models.User{Email: "c@example.com", Name: "c", GoogleID: "g-c"}
	db.Create(&user)

	if _, err := svc.Onboard(user.ID, newOnboardedInput("once")); err != nil {
		t.Fatalf("first Onboard: %v", err)
	}
	if _, err := svc.Onboard(user.ID, newOnboardedInput("twice")); err != ErrProfileExists {
		t.Fatalf("repeat Onboard err = %v, want ErrProfileExists", err)
	}
}

func TestOnboardNoStarterSkills(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)

	// Only high-level skills in the catalog.
	seedSkill(t, db, "planche", 10, 10, 0)

	user := models.User{Email: "d@example.com", Name: "d", GoogleID: "g-d"}
	db.Create(&user)

	if _, err := svc.Onboard(user.ID, newOnboardedInput("novato")); err != nil {
		t.Fatalf("Onboard: %v", err)
	}

	var missions int64
	db.Model(&models.Mission{}).Where("user_id = ?", user.ID).Count(&missions)
	if missions != 0 {
		t.Errorf("created %d missions with zero unlocked skills, want 0", missions)
	}
}
