package services_test

import (
	"testing"
	"time"

	"geoboard/internal/models"
	"geoboard/internal/repositories"
	"geoboard/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins "now" so day and week boundaries are deterministic.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// Wednesday 2026-03-04 09:00 UTC; the ISO week began Monday 2026-03-02.
var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

func newScoreboard(t *testing.T, now time.Time) (*services.ScoreboardService, *repositories.MockPlayerRepository, *repositories.MockEntryRepository) {
	t.Helper()
	players := repositories.NewMockPlayerRepository()
	entries := repositories.NewMockEntryRepository(players)
	svc := services.NewScoreboardService(entries, &fixedClock{now: now}, nil, nil)
	return svc, players, entries
}

func createPlayer(t *testing.T, players *repositories.MockPlayerRepository, name, email string) *models.Player {
	t.Helper()
	player := &models.Player{Name: name}
	player.SetEmail(email)
	require.NoError(t, players.Create(player))
	return player
}

func TestSubmitEntryComputesTotal(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")

	entry, err := svc.SubmitEntry(ana, 10, 20, 30)
	require.NoError(t, err)
	assert.Equal(t, 60, entry.TotalScore)
	assert.Equal(t, ana.ID, entry.PlayerID)
	assert.Equal(t, "2026-03-04", entry.DayBucket)
	assert.True(t, entry.PlayedAt.Equal(testNow))

	count, err := entries.CountForPlayerSince(ana.ID, services.StartOfDayUTC(testNow))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSubmitEntryRejectsOutOfRangeScores(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")

	for _, rounds := range [][3]int{
		{5001, 0, 0},
		{0, -1, 0},
		{0, 0, 99999},
	} {
		_, err := svc.SubmitEntry(ana, rounds[0], rounds[1], rounds[2])
		assert.ErrorIs(t, err, models.ErrScoreOutOfRange)
	}

	// Nothing was persisted.
	count, err := entries.CountForPlayerSince(ana.ID, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Boundary values are accepted.
	_, err = svc.SubmitEntry(ana, 0, 5000, 2500)
	assert.NoError(t, err)
}

func TestSubmitEntryEnforcesDailyLimit(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")

	_, err := svc.SubmitEntry(ana, 10, 20, 30)
	require.NoError(t, err)

	// A second attempt the same UTC day is refused and nothing new is stored.
	_, err = svc.SubmitEntry(ana, 1, 1, 1)
	assert.ErrorIs(t, err, models.ErrDailyLimitReached)

	rows, err := svc.Leaderboard(models.PeriodToday)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, 60, rows[0].TotalScore)

	// After the next UTC midnight the player may submit again.
	tomorrow := services.NewScoreboardService(entries, &fixedClock{now: testNow.Add(24 * time.Hour)}, nil, nil)
	_, err = tomorrow.SubmitEntry(ana, 1, 1, 1)
	assert.NoError(t, err)
}

func TestSubmitEntryMapsStoreConflictToDailyLimit(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")

	// Simulate a racing submission that landed between the advisory
	// check and the insert: an entry occupies today's bucket but its
	// PlayedAt (stamped by a skewed writer) predates the day boundary,
	// so the advisory count query does not see it.
	require.NoError(t, entries.Create(&models.ScoreEntry{
		PlayerID:   ana.ID,
		PlayedAt:   services.StartOfDayUTC(testNow).Add(-time.Hour),
		DayBucket:  models.DayBucketFor(testNow),
		Round1:     1,
		Round2:     1,
		Round3:     1,
		TotalScore: 3,
	}))

	err := entries.Create(&models.ScoreEntry{
		PlayerID:  ana.ID,
		PlayedAt:  testNow,
		DayBucket: models.DayBucketFor(testNow),
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.SubmitEntry(ana, 2, 2, 2)
	assert.ErrorIs(t, err, models.ErrDailyLimitReached)
}

func TestLeaderboardRanksByTotalDescending(t *testing.T) {
	svc, players, _ := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")
	bo := createPlayer(t, players, "Bo", "b@x.com")

	_, err := svc.SubmitEntry(ana, 10, 20, 30)
	require.NoError(t, err)
	_, err = svc.SubmitEntry(bo, 30, 30, 30)
	require.NoError(t, err)

	for _, period := range []models.Period{models.PeriodAll, models.PeriodWeek, models.PeriodToday} {
		rows, err := svc.Leaderboard(period)
		require.NoError(t, err)
		require.Len(t, rows, 2, "period %s", period)

		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, "Bo", rows[0].PlayerName)
		assert.Equal(t, 90, rows[0].TotalScore)

		assert.Equal(t, 2, rows[1].Rank)
		assert.Equal(t, "Ana", rows[1].PlayerName)
		assert.Equal(t, 1, rows[1].Count)
		assert.Equal(t, 60, rows[1].TotalScore)
		assert.InDelta(t, 60.0, rows[1].AverageScore, 1e-9)
		assert.Equal(t, 30, rows[1].MaxRound, "best round is the max single round, not the max total")
	}
}

func TestLeaderboardWindows(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	ana := createPlayer(t, players, "Ana", "a@x.com")

	insertAt := func(at time.Time, total int) {
		require.NoError(t, entries.Create(&models.ScoreEntry{
			PlayerID:   ana.ID,
			PlayedAt:   at,
			Round1:     total,
			TotalScore: total,
		}))
	}

	insertAt(testNow, 100)                         // today
	insertAt(testNow.AddDate(0, 0, -1), 200)       // Tuesday, this week
	insertAt(testNow.AddDate(0, 0, -3), 400)       // Sunday, last week
	insertAt(testNow.AddDate(0, 0, -30), 800)      // last month
	weekStart := services.StartOfWeekUTC(testNow)  // Monday 00:00 exactly
	insertAt(weekStart, 1600)

	expect := map[models.Period]int{
		models.PeriodToday: 100,
		models.PeriodWeek:  100 + 200 + 1600,
		models.PeriodAll:   100 + 200 + 400 + 800 + 1600,
	}
	for period, total := range expect {
		rows, err := svc.Leaderboard(period)
		require.NoError(t, err)
		require.Len(t, rows, 1, "period %s", period)
		assert.Equal(t, total, rows[0].TotalScore, "period %s", period)
	}
}

func TestLeaderboardTieBreakIsDeterministic(t *testing.T) {
	svc, players, entries := newScoreboard(t, testNow)
	late := createPlayer(t, players, "Zed", "z@x.com")
	early := createPlayer(t, players, "Ana", "a@x.com")

	// Equal totals; Zed's entry is older, so Zed ranks first.
	require.NoError(t, entries.Create(&models.ScoreEntry{
		PlayerID: late.ID, PlayedAt: testNow.Add(-2 * time.Hour), Round1: 50, TotalScore: 50,
	}))
	require.NoError(t, entries.Create(&models.ScoreEntry{
		PlayerID: early.ID, PlayedAt: testNow.Add(-1 * time.Hour), Round1: 50, TotalScore: 50,
	}))

	rows, err := svc.Leaderboard(models.PeriodAll)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Zed", "Ana"}, []string{rows[0].PlayerName, rows[1].PlayerName})
	assert.Equal(t, []int{1, 2}, []int{rows[0].Rank, rows[1].Rank})
}

func TestLeaderboardRejectsUnknownPeriod(t *testing.T) {
	svc, _, _ := newScoreboard(t, testNow)
	_, err := svc.Leaderboard(models.Period("fortnight"))
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)
}
