package repositories_test

import (
	"testing"

	"geoboard/internal/models"
	"geoboard/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMPlayerRepositoryRejectsDuplicateIdentity(t *testing.T) {
	db := openTestDB(t)
	players := repositories.NewGORMPlayerRepository(db)
	seedPlayer(t, players, "Ana", "a@x.com")

	// Same email under a different name: the unique index refuses the
	// insert, which is what lets the registration race fall back to an
	// update of the winning row.
	dup := &models.Player{Name: "Anna"}
	dup.SetEmail("a@x.com")
	assert.ErrorIs(t, players.Create(dup), models.ErrConflict)

	// Same display name under a different email.
	dup = &models.Player{Name: "Ana"}
	dup.SetEmail("b@x.com")
	assert.ErrorIs(t, players.Create(dup), models.ErrConflict)

	// Name-only players carry no email, so any number of them coexist
	// without tripping the email index.
	require.NoError(t, players.Create(&models.Player{Name: "Bo"}))
	require.NoError(t, players.Create(&models.Player{Name: "Cleo"}))
}

func TestGORMPlayerRepositoryUpdateRejectsTakenIdentity(t *testing.T) {
	db := openTestDB(t)
	players := repositories.NewGORMPlayerRepository(db)
	seedPlayer(t, players, "Ana", "a@x.com")
	bo := seedPlayer(t, players, "Bo", "b@x.com")

	bo.Name = "Ana"
	assert.ErrorIs(t, players.Update(bo), models.ErrConflict)
}

func TestGORMPlayerRepositoryEmptyEmailNeverMatches(t *testing.T) {
	db := openTestDB(t)
	players := repositories.NewGORMPlayerRepository(db)

	// A name-only row must not be reachable through an empty email.
	require.NoError(t, players.Create(&models.Player{Name: "Ana"}))

	_, err := players.GetByEmail("")
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}
