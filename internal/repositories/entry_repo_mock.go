package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"geoboard/internal/models"

	"github.com/google/uuid"
)

// MockEntryRepository is an in-memory implementation of EntryRepository
// with the same semantics as the GORM implementation, including the
// per-day uniqueness guarantee and deterministic aggregate ordering.
// It needs the player repository to resolve names during aggregation.
type MockEntryRepository struct {
	entries map[string]models.ScoreEntry
	players *MockPlayerRepository
	mu      sync.RWMutex
}

// NewMockEntryRepository creates a new instance of MockEntryRepository.
func NewMockEntryRepository(players *MockPlayerRepository) *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]models.ScoreEntry),
		players: players,
	}
}

// Create adds a new entry, rejecting a second entry for the same player
// and UTC day with models.ErrConflict.
func (r *MockEntryRepository) Create(entry *models.ScoreEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.DayBucket == "" {
		entry.DayBucket = models.DayBucketFor(entry.PlayedAt)
	}
	for _, existing := range r.entries {
		if existing.PlayerID == entry.PlayerID && existing.DayBucket == entry.DayBucket {
			return fmt.Errorf("entry for player %s on %s: %w", entry.PlayerID, entry.DayBucket, models.ErrConflict)
		}
	}
	entry.CreatedAt = time.Now()
	r.entries[entry.ID] = *entry
	return nil
}

// CountForPlayerSince counts a player's entries at or after the given instant.
func (r *MockEntryRepository) CountForPlayerSince(playerID string, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, entry := range r.entries {
		if entry.PlayerID == playerID && !entry.PlayedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type mockAggregate struct {
	row         models.LeaderboardRow
	firstPlayed time.Time
	totalSum    int
}

// Aggregate groups the stored entries by player within the window and
// orders rows the same way the SQL query does: summed total descending,
// then earliest entry, then name.
func (r *MockEntryRepository) Aggregate(since *time.Time) ([]models.LeaderboardRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[string]*mockAggregate)
	for _, entry := range r.entries {
		if since != nil && entry.PlayedAt.Before(*since) {
			continue
		}
		agg, ok := groups[entry.PlayerID]
		if !ok {
			player, err := r.players.GetByID(entry.PlayerID)
			if err != nil {
				return nil, err
			}
			agg = &mockAggregate{
				row:         models.LeaderboardRow{PlayerName: player.Name},
				firstPlayed: entry.PlayedAt,
			}
			groups[entry.PlayerID] = agg
		}
		agg.row.Count++
		agg.totalSum += entry.TotalScore
		if entry.PlayedAt.Before(agg.firstPlayed) {
			agg.firstPlayed = entry.PlayedAt
		}
		if best := maxRound(entry.Round1, entry.Round2, entry.Round3); best > agg.row.MaxRound {
			agg.row.MaxRound = best
		}
	}

	aggs := make([]*mockAggregate, 0, len(groups))
	for _, agg := range groups {
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].totalSum != aggs[j].totalSum {
			return aggs[i].totalSum > aggs[j].totalSum
		}
		if !aggs[i].firstPlayed.Equal(aggs[j].firstPlayed) {
			return aggs[i].firstPlayed.Before(aggs[j].firstPlayed)
		}
		return aggs[i].row.PlayerName < aggs[j].row.PlayerName
	})

	rows := make([]models.LeaderboardRow, 0, len(aggs))
	for _, agg := range aggs {
		agg.row.TotalScore = agg.totalSum
		agg.row.AverageScore = float64(agg.totalSum) / float64(agg.row.Count)
		rows = append(rows, agg.row)
	}
	return rows, nil
}
