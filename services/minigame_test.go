package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
)

func newGameService(db *gorm.DB) *MiniGameService {
	return NewMiniGameService(db, NewProgressionService(db))
}

func TestChallengeFriendRewardConstants(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)

	challenger := seedUser(t, db, "desafiante")
	challenged := seedUser(t, db, "desafiado")
	skillID := seedSkill(t, db, "flexao", 1, 5, 0)

	game, err := svc.Challenge(challenger, &challenged, skillID, 30, OpponentFriend)
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if game.XPReward != 150 || game.PointsReward != 30 {
		t.Errorf("rewards = (%d, %d), want (150, 30)", game.XPReward, game.PointsReward)
	}
	if game.Status != models.MiniGamePending {
		t.Errorf("status = %q, want pending", game.Status)
	}
	if game.Deadline == nil {
		t.Error("missing 24h deadline")
	}
}

func TestChallengeRandomOpponentBand(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)

	challenger := seedUser(t, db, "solo")
	setProgression(t, db, challenger, map[string]interface{}{"level": 10})
	skillID := seedSkill(t, db, "barra", 1, 5, 0)

	// Only user far outside the +-5 band.
	far := seedUser(t, db, "lenda")
	setProgression(t, db, far, map[string]interface{}{"level": 30})

	if _, err := svc.Challenge(challenger, nil, skillID, 10, OpponentRandom); err != ErrNoOpponent {
		t.Fatalf("err = %v, want ErrNoOpponent", err)
	}

	// A user inside the band becomes eligible.
	near := seedUser(t, db, "rival")
	setProgression(t, db, near, map[string]interface{}{"level": 7})

	game, err := svc.Challenge(challenger, nil, skillID, 10, OpponentRandom)
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if game.ChallengedUserID != near {
		t.Errorf("opponent = %d, want %d (only in-band candidate)", game.ChallengedUserID, near)
	}
}

func TestAcceptGating(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)

	challenger := seedUser(t, db, "c1")
	challenged := seedUser(t, db, "c2")
	skillID := seedSkill(t, db, "flexao", 1, 5, 0)

	game, err := svc.Challenge(challenger, &challenged, skillID, 10, OpponentFriend)
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}

	// The challenger cannot accept their own challenge; silent no-op.
	if err := svc.Accept(challenger, game.ID); err != nil {
		t.Fatalf("Accept by challenger: %v", err)
	}
	var fresh models.MiniGame
	db.First(&fresh, game.ID)
	if fresh.Status != models.MiniGamePending {
		t.Errorf("status = %q after wrong-party accept, want pending", fresh.Status)
	}

	if err := svc.Accept(challenged, game.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	db.First(&fresh, game.ID)
	if fresh.Status != models.MiniGameActive {
		t.Errorf("status = %q, want active", fresh.Status)
	}
}

func TestCompleteSplitsRewards(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)

	challenger := seedUser(t, db, "ganhador")
	challenged := seedUser(t, db, "perdedor")
	skillID := seedSkill(t, db, "flexao", 1, 5, 0)
	unlockSkill(t, db, challenger, skillID)

	game, _ := svc.Challenge(challenger, &challenged, skillID, 10, OpponentFriend)
	if err := svc.Accept(challenged, game.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	result, err := svc.Complete(challenger, game.ID, 12, 60)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Winner != challenger {
		t.Errorf("winner = %d, want caller %d", result.Winner, challenger)
	}
	if result.XPGained != 50 || result.PointsGained != 10 {
		t.Errorf("caller rewards = (%d, %d), want (50, 10)", result.XPGained, result.PointsGained)
	}

	winnerProg := getProgression(t, db, challenger)
	loserProg := getProgression(t, db, challenged)
	if winnerProg.XP != 50 || winnerProg.Points != 10 {
		t.Errorf("winner progression = (xp %d, pts %d), want (50, 10)", winnerProg.XP, winnerProg.Points)
	}
	if loserProg.XP != 25 || loserProg.Points != 5 {
		t.Errorf("loser progression = (xp %d, pts %d), want half (25, 5)", loserProg.XP, loserProg.Points)
	}

	var fresh models.MiniGame
	db.First(&fresh, game.ID)
	if fresh.Status != models.MiniGameCompleted {
		t.Errorf("status = %q, want completed", fresh.Status)
	}
	if fresh.WinnerUserID == nil || *fresh.WinnerUserID != challenger {
		t.Error("winner not recorded on the game row")
	}
}

func TestCompleteTerminalState(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)

	challenger := seedUser(t, db, "a1")
	challenged := seedUser(t, db, "a2")
	skillID := seedSkill(t, db, "flexao", 1, 5, 0)

	game, _ := svc.Challenge(challenger, &challenged, skillID, 10, OpponentFriend)

	// Pending games cannot be completed.
	if _, err := svc.Complete(challenger, game.ID, 10, 60); err != ErrGameNotActive {
		t.Fatalf("pending complete err = %v, want ErrGameNotActive", err)
	}

	svc.Accept(challenged, game.ID)
	if _, err := svc.Complete(challenged, game.ID, 10, 60); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// The loser calling afterwards must not re-award.
	if _, err := svc.Complete(challenger, game.ID, 15, 50); err != ErrGameNotActive {
		t.Fatalf("second complete err = %v, want ErrGameNotActive", err)
	}

	// Outsiders see the game as not found.
	outsider := seedUser(t, db, "fora")
	if _, err := svc.Complete(outsider, game.ID, 10, 60); err != ErrGameNotFound {
		t.Fatalf("outsider complete err = %v, want ErrGameNotFound", err)
	}
}
