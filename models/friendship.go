package models

import "time"

// Friendship statuses.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a directed request record that becomes logically
// undirected once accepted: listings must resolve both directions to the
// same friendship.
type Friendship struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index:idx_friend_pair,unique;not null" json:"user_id"`
	FriendUserID uint      `gorm:"index:idx_friend_pair,unique;not null" json:"friend_user_id"`
	Status       string    `gorm:"size:16;default:pending;index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
