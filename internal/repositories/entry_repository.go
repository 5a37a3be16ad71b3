package repositories

import (
	"time"

	"geoboard/internal/models"
)

// EntryRepository defines the interface for score entry data access.
type EntryRepository interface {
	// Create persists a new entry. A violation of the per-day unique
	// index is reported as models.ErrConflict.
	Create(entry *models.ScoreEntry) error

	// CountForPlayerSince counts entries by a player with PlayedAt at or
	// after the given instant.
	CountForPlayerSince(playerID string, since time.Time) (int64, error)

	// Aggregate groups entries with PlayedAt >= since (no lower bound
	// when since is nil) by player and returns one unranked row per
	// player, ordered by summed total descending with ties broken by
	// earliest entry then player name. Players with no entries in the
	// window are omitted.
	Aggregate(since *time.Time) ([]models.LeaderboardRow, error)
}
