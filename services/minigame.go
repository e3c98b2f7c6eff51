package services

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
)

// Opponent selection modes accepted at challenge creation.
const (
	OpponentFriend = "friend"
	OpponentRandom = "random"
)

const (
	miniGameXPPerRep   = 5
	miniGameLevelBand  = 5
	miniGameLifetime   = 24 * time.Hour
	loserRewardDivisor = 2
)

// MiniGameService manages pairwise rep-count challenges.
type MiniGameService struct {
	db          *gorm.DB
	progression *ProgressionService
	now         func() time.Time
}

func NewMiniGameService(db *gorm.DB, progression *ProgressionService) *MiniGameService {
	return &MiniGameService{db: db, progression: progression, now: time.Now}
}

// Challenge creates a pending mini-game. The opponent is either the given
// friend or a random user within five levels of the challenger. Rewards
// scale with the target: 5 xp and 1 point per rep.
func (s *MiniGameService) Challenge(challengerID uint, challengedID *uint, skillID uint, targetReps int, opponentType string) (*models.MiniGame, error) {
	var opponentID uint
	switch {
	case opponentType == OpponentRandom:
		id, err := s.pickRandomOpponent(challengerID)
		if err != nil {
			return nil, err
		}
		opponentID = id
	case challengedID != nil:
		opponentID = *challengedID
	default:
		return nil, ErrNoOpponent
	}

	deadline := s.now().Add(miniGameLifetime)
	game := models.MiniGame{
		ChallengerUserID: challengerID,
		ChallengedUserID: opponentID,
		SkillID:          skillID,
		TargetReps:       targetReps,
		Status:           models.MiniGamePending,
		XPReward:         targetReps * miniGameXPPerRep,
		PointsReward:     targetReps,
		Deadline:         &deadline,
	}
	if err := s.db.Create(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// pickRandomOpponent selects a user within the level band around the
// challenger, excluding the challenger.
func (s *MiniGameService) pickRandomOpponent(challengerID uint) (uint, error) {
	var prog models.Progression
	if err := s.db.Where("user_id = ?", challengerID).First(&prog).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrProgressionMissing
		}
		return 0, err
	}

	minLevel := prog.Level - miniGameLevelBand
	if minLevel < 1 {
		minLevel = 1
	}
	maxLevel := prog.Level + miniGameLevelBand

	var count int64
	if err := s.db.Model(&models.Progression{}).
		Where("user_id <> ? AND level BETWEEN ? AND ?", challengerID, minLevel, maxLevel).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoOpponent
	}

	var candidate models.Progression
	if err := s.db.
		Where("user_id <> ? AND level BETWEEN ? AND ?", challengerID, minLevel, maxLevel).
		Order("user_id").
		Offset(rand.Intn(int(count))).
		First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNoOpponent
		}
		return 0, err
	}
	return candidate.UserID, nil
}

// Accept moves a pending game to active. Only the challenged party can
// accept; anything else is a silent no-op.
func (s *MiniGameService) Accept(userID, gameID uint) error {
	return s.db.Model(&models.MiniGame{}).
		Where("id = ? AND challenged_user_id = ? AND status = ?", gameID, userID, models.MiniGamePending).
		Update("status", models.MiniGameActive).Error
}

// GameResult reports a completed mini-game from the caller's side.
type GameResult struct {
	Success      bool `json:"success"`
	Winner       uint `json:"winner"`
	XPGained     int  `json:"xp_gained"`
	PointsGained int  `json:"points_gained"`
}

// Complete resolves an active game. The first participant to call wins:
// the claim on the status column makes the race explicit and atomic. The
// winner takes the full reward, the other party half (floored). The two
// award writes touch different progression rows and carry no shared
// invariant.
func (s *MiniGameService) Complete(userID, gameID uint, repsCompleted, timeSeconds int) (*GameResult, error) {
	var game models.MiniGame
	if err := s.db.First(&game, gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if userID != game.ChallengerUserID && userID != game.ChallengedUserID {
		return nil, ErrGameNotFound
	}

	var result GameResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.MiniGame{}).
			Where("id = ? AND status = ?", gameID, models.MiniGameActive).
			Updates(map[string]interface{}{
				"status":         models.MiniGameCompleted,
				"winner_user_id": userID,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrGameNotActive
		}

		opponentID := game.ChallengerUserID
		if userID == game.ChallengerUserID {
			opponentID = game.ChallengedUserID
		}

		if _, err := s.progression.AwardReward(tx, userID, game.XPReward, game.PointsReward); err != nil {
			return err
		}
		if _, err := s.progression.AwardReward(tx, opponentID, game.XPReward/loserRewardDivisor, game.PointsReward/loserRewardDivisor); err != nil {
			return err
		}

		if game.SkillID != 0 && repsCompleted > 0 {
			if err := applySkillGains(tx, userID, game.SkillID, repsCompleted, s.now()); err != nil {
				return err
			}
		}

		result = GameResult{
			Success:      true,
			Winner:       userID,
			XPGained:     game.XPReward,
			PointsGained: game.PointsReward,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GameListing is a mini-game row joined with usernames and skill name.
type GameListing struct {
	models.MiniGame
	ChallengerName string `json:"challenger_name"`
	ChallengedName string `json:"challenged_name"`
	SkillName      string `json:"skill_name"`
}

// ListForUser returns games where the user is either party, newest first.
func (s *MiniGameService) ListForUser(userID uint, statuses []string) ([]GameListing, error) {
	q := s.db.Model(&models.MiniGame{}).
		Select(`mini_games.*,
			COALESCE(cp.username, '') AS challenger_name,
			COALESCE(dp.username, '') AS challenged_name,
			COALESCE(skills.name, '') AS skill_name`).
		Joins("LEFT JOIN profiles cp ON cp.user_id = mini_games.challenger_user_id").
		Joins("LEFT JOIN profiles dp ON dp.user_id = mini_games.challenged_user_id").
		Joins("LEFT JOIN skills ON skills.id = mini_games.skill_id").
		Where("mini_games.challenger_user_id = ? OR mini_games.challenged_user_id = ?", userID, userID)
	if len(statuses) > 0 {
		q = q.Where("mini_games.status IN ?", statuses)
	}
	var rows []GameListing
	if err := q.Order("mini_games.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
