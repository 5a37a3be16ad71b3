package services_test

import (
	"testing"
	"time"

	"geoboard/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUTC(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 45, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), services.StartOfDayUTC(now))

	// A local timestamp is converted to UTC before truncation.
	sydney := time.FixedZone("AEST", 10*60*60)
	early := time.Date(2026, 3, 4, 1, 0, 0, 0, sydney) // 2026-03-03 15:00 UTC
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), services.StartOfDayUTC(early))
}

func TestStartOfWeekUTC(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Mid-week falls back to the preceding Monday.
	wednesday := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, services.StartOfWeekUTC(wednesday))

	// On a Monday the window starts that same day.
	assert.Equal(t, monday, services.StartOfWeekUTC(monday.Add(8*time.Hour)))

	// Sunday still belongs to the week that began the previous Monday.
	sunday := time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, monday, services.StartOfWeekUTC(sunday))
}
