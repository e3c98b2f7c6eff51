package services

import "errors"

// Sentinel errors returned by services. Controllers translate them into
// HTTP statuses; everything else is treated as an internal error.
var (
	ErrMissionNotFound    = errors.New("mission not found or already completed")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrProfileExists      = errors.New("profile already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrGameNotFound       = errors.New("mini-game not found")
	ErrGameNotActive      = errors.New("mini-game is not active")
	ErrNoOpponent         = errors.New("no eligible opponent found")
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrTitleNotUnlocked   = errors.New("title not unlocked")

	// ErrProgressionMissing means a per-user singleton row is absent. That
	// only happens after a failed onboarding, so it is logged as a
	// consistency fault rather than silently recreated.
	ErrProgressionMissing = errors.New("progression row missing for user")
	ErrAttributesMissing  = errors.New("attributes row missing for user")

	ErrUpstream      = errors.New("ai service request failed")
	ErrBadAIResponse = errors.New("ai response did not contain valid data")
)
