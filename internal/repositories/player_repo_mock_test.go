package repositories_test

import (
	"testing"

	"geoboard/internal/models"
	"geoboard/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPlayer(name, email string) *models.Player {
	player := &models.Player{Name: name}
	player.SetEmail(email)
	return player
}

func TestMockPlayerRepositoryRejectsDuplicateIdentity(t *testing.T) {
	players := repositories.NewMockPlayerRepository()
	require.NoError(t, players.Create(newMockPlayer("Ana", "a@x.com")))

	// Same semantics as the unique indexes in the GORM schema: a second
	// row may share neither the email nor the name.
	assert.ErrorIs(t, players.Create(newMockPlayer("Anna", "a@x.com")), models.ErrConflict)
	assert.ErrorIs(t, players.Create(newMockPlayer("Ana", "b@x.com")), models.ErrConflict)

	// Name-only players are exempt from the email constraint.
	require.NoError(t, players.Create(&models.Player{Name: "Bo"}))
	require.NoError(t, players.Create(&models.Player{Name: "Cleo"}))
}

func TestMockPlayerRepositoryUpdateRejectsTakenIdentity(t *testing.T) {
	players := repositories.NewMockPlayerRepository()
	require.NoError(t, players.Create(newMockPlayer("Ana", "a@x.com")))
	bo := newMockPlayer("Bo", "b@x.com")
	require.NoError(t, players.Create(bo))

	bo.Name = "Ana"
	assert.ErrorIs(t, players.Update(bo), models.ErrConflict)

	// Updating a row in place, without touching another identity, stays
	// allowed.
	bo.Name = "Bob"
	assert.NoError(t, players.Update(bo))
}
