package models

import "fmt"

// Period selects the aggregation window for leaderboard queries.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
)

// ParsePeriod validates a raw period selector.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodAll, PeriodToday, PeriodWeek:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// LeaderboardRow is one ranked aggregate row for a player within a
// period. MaxRound is the best single-round score across every round
// field of every entry counted in the window, not the best total.
type LeaderboardRow struct {
	Rank         int     `json:"rank"`
	PlayerName   string  `json:"player_name"`
	Count        int     `json:"count"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	MaxRound     int     `json:"max_round"`
}
