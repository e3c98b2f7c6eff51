package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

const rankingCacheKey = "cache:ranking:global"

// SocialService covers user search, friendships and the global ranking.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// PublicUser is a search/listing row safe to expose to other users.
type PublicUser struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Level    int    `json:"level"`
}

// SearchUsers finds users by username prefix, excluding the searcher.
// Queries shorter than 3 characters return nothing.
func (s *SocialService) SearchUsers(userID uint, query string) ([]PublicUser, error) {
	if len(query) < 3 {
		return []PublicUser{}, nil
	}
	var rows []PublicUser
	err := s.db.Model(&models.Profile{}).
		Select("profiles.user_id, profiles.username, profiles.full_name, COALESCE(progressions.level, 1) AS level").
		Joins("LEFT JOIN progressions ON progressions.user_id = profiles.user_id").
		Where("profiles.username LIKE ? AND profiles.user_id <> ?", query+"%", userID).
		Order("profiles.username").
		Limit(20).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RequestFriendship creates a pending request from userID to friendID.
// An existing record in either direction, whatever its status, is a
// conflict.
func (s *SocialService) RequestFriendship(userID, friendID uint) error {
	if userID == friendID {
		return ErrFriendshipExists
	}
	var count int64
	err := s.db.Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFriendshipExists
	}

	f := models.Friendship{UserID: userID, FriendUserID: friendID, Status: models.FriendshipPending}
	if err := s.db.Create(&f).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrFriendshipExists
		}
		return err
	}
	return nil
}

// PendingRequest is an inbound request row with requester identity.
type PendingRequest struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListPendingRequests returns requests waiting on the given user.
func (s *SocialService) ListPendingRequests(userID uint) ([]PendingRequest, error) {
	var rows []PendingRequest
	err := s.db.Model(&models.Friendship{}).
		Select("friendships.id, friendships.user_id, COALESCE(profiles.username, '') AS username, COALESCE(profiles.full_name, '') AS full_name, friendships.created_at").
		Joins("LEFT JOIN profiles ON profiles.user_id = friendships.user_id").
		Where("friendships.friend_user_id = ? AND friendships.status = ?", userID, models.FriendshipPending).
		Order("friendships.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AcceptFriendship accepts a pending request addressed to userID.
func (s *SocialService) AcceptFriendship(userID, requestID uint) error {
	res := s.db.Model(&models.Friendship{}).
		Where("id = ? AND friend_user_id = ? AND status = ?", requestID, userID, models.FriendshipPending).
		Update("status", models.FriendshipAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RejectFriendship deletes a pending request addressed to userID.
func (s *SocialService) RejectFriendship(userID, requestID uint) error {
	res := s.db.
		Where("id = ? AND friend_user_id = ? AND status = ?", requestID, userID, models.FriendshipPending).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FriendsOf lists accepted friends of the user. Acceptance makes the
// record logically undirected, so both directions are unioned and each
// counterparty appears exactly once.
func (s *SocialService) FriendsOf(userID uint) ([]PublicUser, error) {
	var friendships []models.Friendship
	err := s.db.
		Where("status = ? AND (user_id = ? OR friend_user_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	if len(friendships) == 0 {
		return []PublicUser{}, nil
	}

	seen := map[uint]bool{}
	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		other := f.UserID
		if other == userID {
			other = f.FriendUserID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}

	var rows []PublicUser
	err = s.db.Model(&models.Profile{}).
		Select("profiles.user_id, profiles.username, profiles.full_name, COALESCE(progressions.level, 1) AS level").
		Joins("LEFT JOIN progressions ON progressions.user_id = profiles.user_id").
		Where("profiles.user_id IN ?", ids).
		Order("profiles.username").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RankingEntry is one global leaderboard row.
type RankingEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Points   int    `json:"points"`
}

// GlobalRanking returns the top 100 users by level then xp. Results are
// cached in redis for a minute; the leaderboard tolerates staleness.
func (s *SocialService) GlobalRanking() ([]RankingEntry, error) {
	if b, ok := utils.CacheGetBytes(rankingCacheKey); ok {
		var cached []RankingEntry
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	var rows []RankingEntry
	err := s.db.Model(&models.Progression{}).
		Select("progressions.user_id, COALESCE(profiles.username, '') AS username, progressions.level, progressions.xp, progressions.points").
		Joins("LEFT JOIN profiles ON profiles.user_id = progressions.user_id").
		Order("progressions.level DESC, progressions.xp DESC").
		Limit(100).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	utils.CacheSetJSON(rankingCacheKey, rows, time.Minute)
	return rows, nil
}
