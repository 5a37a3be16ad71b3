package models

import "errors"

var (
	// ErrPlayerNotFound is returned by lookups that match no player.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrConflict is returned by the store when an insert violates a
	// uniqueness constraint.
	ErrConflict = errors.New("conflicts with an existing record")

	// ErrDailyLimitReached signals that the player already has an entry
	// for the current UTC day. Callers must surface it as "already
	// submitted today", never as a generic failure.
	ErrDailyLimitReached = errors.New("already submitted an entry today")

	// ErrScoreOutOfRange signals a round score outside [0, 5000].
	ErrScoreOutOfRange = errors.New("round scores must be between 0 and 5000")

	// ErrInvalidPeriod signals an unknown leaderboard period selector.
	ErrInvalidPeriod = errors.New("invalid leaderboard period")
)
