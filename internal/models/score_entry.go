package models

import "time"

// ScoreEntry is one completed game: three round scores and their
// precomputed total, stamped with the UTC submission time. Entries are
// immutable once written.
//
// DayBucket is the UTC calendar day of PlayedAt ("2006-01-02"). The
// composite unique index on (player_id, day_bucket) makes the
// one-entry-per-day rule a storage guarantee rather than an advisory
// check, so two racing submissions cannot both land.
type ScoreEntry struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	PlayerID   string    `json:"player_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_score_entries_player_day"`
	PlayedAt   time.Time `json:"played_at" gorm:"not null;index"`
	DayBucket  string    `json:"-" gorm:"type:varchar(10);not null;uniqueIndex:idx_score_entries_player_day"`
	Round1     int       `json:"round1" validate:"gte=0,lte=5000"`
	Round2     int       `json:"round2" validate:"gte=0,lte=5000"`
	Round3     int       `json:"round3" validate:"gte=0,lte=5000"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// DayBucketFor formats the UTC calendar day an instant falls in.
func DayBucketFor(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
