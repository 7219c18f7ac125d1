package domain

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user has no rating state.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating rating state for a taken user ID.
	ErrUserExists = errors.New("user already exists")
	// ErrAchievementNotFound indicates an unknown achievement key.
	ErrAchievementNotFound = errors.New("achievement not found")
	// ErrGroupNotFound indicates a leaderboard group filter matched no group.
	ErrGroupNotFound = errors.New("group not found")
	// ErrUnauthorized is returned when an operation requires an actor and none is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownMetric indicates a leaderboard metric the population cannot be ordered by.
	ErrUnknownMetric = errors.New("unknown leaderboard metric")
)
