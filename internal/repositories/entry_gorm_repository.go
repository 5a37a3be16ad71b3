package repositories

import (
	"errors"
	"fmt"
	"time"

	"geoboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMEntryRepository is a GORM implementation of EntryRepository.
type GORMEntryRepository struct {
	db *gorm.DB
}

// NewGORMEntryRepository creates a new instance of GORMEntryRepository.
func NewGORMEntryRepository(db *gorm.DB) *GORMEntryRepository {
	return &GORMEntryRepository{
		db: db,
	}
}

// Create persists a new score entry. A duplicate (player_id, day_bucket)
// pair surfaces as models.ErrConflict.
func (r *GORMEntryRepository) Create(entry *models.ScoreEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.DayBucket == "" {
		entry.DayBucket = models.DayBucketFor(entry.PlayedAt)
	}
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("entry for player %s on %s: %w", entry.PlayerID, entry.DayBucket, models.ErrConflict)
		}
		return fmt.Errorf("failed to create score entry: %w", err)
	}
	return nil
}

// CountForPlayerSince counts a player's entries at or after the given instant.
func (r *GORMEntryRepository) CountForPlayerSince(playerID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ScoreEntry{}).
		Where("player_id = ? AND played_at >= ?", playerID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for player %s: %w", playerID, err)
	}
	return count, nil
}

// leaderboardScan receives one grouped row from the aggregation query.
type leaderboardScan struct {
	PlayerName string
	Entries    int64
	TotalScore int64
	AvgScore   float64
	MaxR1      int
	MaxR2      int
	MaxR3      int
}

// Aggregate runs the grouped leaderboard query. Entries are joined to
// players (inner join, so players without entries in the window never
// appear), grouped per player, and ordered by summed total descending.
// Ties are broken by the earliest entry in the window, then by name, so
// the ordering is deterministic across stores.
func (r *GORMEntryRepository) Aggregate(since *time.Time) ([]models.LeaderboardRow, error) {
	q := r.db.Model(&models.ScoreEntry{}).
		Select(`players.name AS player_name,
			COUNT(score_entries.id) AS entries,
			COALESCE(SUM(score_entries.total_score), 0) AS total_score,
			COALESCE(AVG(score_entries.total_score), 0) AS avg_score,
			MAX(score_entries.round1) AS max_r1,
			MAX(score_entries.round2) AS max_r2,
			MAX(score_entries.round3) AS max_r3`).
		Joins("INNER JOIN players ON players.id = score_entries.player_id")
	if since != nil {
		q = q.Where("score_entries.played_at >= ?", *since)
	}
	q = q.Group("players.id, players.name").
		Order("total_score DESC, MIN(score_entries.played_at) ASC, player_name ASC")

	var scans []leaderboardScan
	if err := q.Scan(&scans).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}

	rows := make([]models.LeaderboardRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, models.LeaderboardRow{
			PlayerName:   s.PlayerName,
			Count:        int(s.Entries),
			TotalScore:   int(s.TotalScore),
			AverageScore: s.AvgScore,
			MaxRound:     maxRound(s.MaxR1, s.MaxR2, s.MaxR3),
		})
	}
	return rows, nil
}

func maxRound(a, b, c int) int {
	best := a
	if b > best {
		best = b
	}
	if c > best {
		best = c
	}
	return best
}
