package services

import (
	"errors"
	"fmt"
	"time"

	"geoboard/internal/clock"
	"geoboard/internal/logger"
	"geoboard/internal/models"
	"geoboard/internal/monitor"
	"geoboard/internal/repositories"
	"geoboard/pkg/events"

	"github.com/go-playground/validator/v10"
)

// ScoreboardService handles score submission (including the daily
// gate) and windowed leaderboard queries.
type ScoreboardService struct {
	entries   repositories.EntryRepository
	clk       clock.Clock
	validate  *validator.Validate
	publisher events.Publisher
	mon       *monitor.Monitor
}

// NewScoreboardService creates a new ScoreboardService. publisher and
// mon may be nil; events and metrics are then skipped.
func NewScoreboardService(entries repositories.EntryRepository, clk clock.Clock, publisher events.Publisher, mon *monitor.Monitor) *ScoreboardService {
	return &ScoreboardService{
		entries:   entries,
		clk:       clk,
		validate:  validator.New(),
		publisher: publisher,
		mon:       mon,
	}
}

// roundScores carries the submitted rounds through validation.
type roundScores struct {
	Round1 int `validate:"gte=0,lte=5000"`
	Round2 int `validate:"gte=0,lte=5000"`
	Round3 int `validate:"gte=0,lte=5000"`
}

// HasSubmittedToday reports whether the player already has an entry
// within the current UTC calendar day.
func (s *ScoreboardService) HasSubmittedToday(playerID string) (bool, error) {
	count, err := s.entries.CountForPlayerSince(playerID, StartOfDayUTC(s.clk.Now()))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SubmitEntry validates the rounds, enforces the one-per-UTC-day rule,
// and persists a new entry with the total computed as the exact sum of
// the three rounds.
//
// The gate is checked twice: an advisory read first so the common case
// gets a clean refusal, and the unique (player, day) index on insert as
// the authoritative guard. Both surface models.ErrDailyLimitReached.
func (s *ScoreboardService) SubmitEntry(player *models.Player, round1, round2, round3 int) (*models.ScoreEntry, error) {
	if err := s.validate.Struct(roundScores{Round1: round1, Round2: round2, Round3: round3}); err != nil {
		s.countRejected("invalid_score")
		return nil, fmt.Errorf("%w: %v", models.ErrScoreOutOfRange, err)
	}

	already, err := s.HasSubmittedToday(player.ID)
	if err != nil {
		return nil, err
	}
	if already {
		s.countRejected("daily_limit")
		return nil, models.ErrDailyLimitReached
	}

	now := s.clk.Now().UTC()
	entry := &models.ScoreEntry{
		PlayerID:   player.ID,
		PlayedAt:   now,
		DayBucket:  models.DayBucketFor(now),
		Round1:     round1,
		Round2:     round2,
		Round3:     round3,
		TotalScore: round1 + round2 + round3,
	}
	if err := s.entries.Create(entry); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Lost a same-day race; the index kept the invariant.
			s.countRejected("daily_limit")
			return nil, models.ErrDailyLimitReached
		}
		return nil, err
	}

	if s.mon != nil {
		s.mon.IncSubmissionAccepted()
	}
	s.publishRecorded(player, entry)
	return entry, nil
}

// Leaderboard runs the windowed aggregate query for the period and
// annotates each row with its dense 1-based rank.
func (s *ScoreboardService) Leaderboard(period models.Period) ([]models.LeaderboardRow, error) {
	var since *time.Time
	switch period {
	case models.PeriodToday:
		t := StartOfDayUTC(s.clk.Now())
		since = &t
	case models.PeriodWeek:
		t := StartOfWeekUTC(s.clk.Now())
		since = &t
	case models.PeriodAll:
		// No lower bound.
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidPeriod, period)
	}

	rows, err := s.entries.Aggregate(since)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	if s.mon != nil {
		s.mon.IncLeaderboardQuery(string(period))
	}
	return rows, nil
}

func (s *ScoreboardService) countRejected(reason string) {
	if s.mon != nil {
		s.mon.IncSubmissionRejected(reason)
	}
}

func (s *ScoreboardService) publishRecorded(player *models.Player, entry *models.ScoreEntry) {
	if s.publisher == nil {
		return
	}
	ev := events.ScoreRecorded{
		EntryID:    entry.ID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		TotalScore: entry.TotalScore,
		PlayedAt:   entry.PlayedAt,
	}
	if err := s.publisher.PublishScoreRecorded(ev); err != nil {
		// Event delivery is best effort; the entry is already durable.
		logger.Log.Warnf("failed to publish score recorded event for entry %s: %v", entry.ID, err)
	}
}
