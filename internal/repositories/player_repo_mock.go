package repositories

import (
	"fmt"
	"strings"
	"sync"

	"geoboard/internal/models"

	"github.com/google/uuid"
)

// MockPlayerRepository is an in-memory implementation of
// PlayerRepository, used by tests and by the "memory" database driver.
// It enforces the same uniqueness the GORM schema does: one row per
// name and per email, with name-only players (no email) exempt from
// the email constraint.
type MockPlayerRepository struct {
	players map[string]models.Player
	mu      sync.RWMutex
}

// NewMockPlayerRepository creates a new instance of MockPlayerRepository.
func NewMockPlayerRepository() *MockPlayerRepository {
	return &MockPlayerRepository{
		players: make(map[string]models.Player),
	}
}

// Create adds a new player, rejecting a duplicate name or email with
// models.ErrConflict.
func (r *MockPlayerRepository) Create(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(player); err != nil {
		return err
	}
	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	r.players[player.ID] = *player
	return nil
}

// GetByID returns a player by their ID.
func (r *MockPlayerRepository) GetByID(id string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[id]
	if !ok {
		return nil, fmt.Errorf("player with ID %s: %w", id, models.ErrPlayerNotFound)
	}
	return &player, nil
}

// GetByEmail returns a player by email, case-insensitively. Players
// without an email never match.
func (r *MockPlayerRepository) GetByEmail(email string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(email)
	if needle == "" {
		return nil, fmt.Errorf("player with empty email: %w", models.ErrPlayerNotFound)
	}
	for _, player := range r.players {
		if strings.ToLower(player.EmailValue()) == needle {
			p := player
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player with email %s: %w", email, models.ErrPlayerNotFound)
}

// GetByName returns a player by display name, case-insensitively.
func (r *MockPlayerRepository) GetByName(name string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	for _, player := range r.players {
		if strings.ToLower(player.Name) == needle {
			p := player
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player named %s: %w", name, models.ErrPlayerNotFound)
}

// Update modifies an existing player. Moving the player onto a name or
// email another row holds is rejected with models.ErrConflict.
func (r *MockPlayerRepository) Update(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[player.ID]; !ok {
		return fmt.Errorf("player with ID %s: %w", player.ID, models.ErrPlayerNotFound)
	}
	if err := r.checkUnique(player); err != nil {
		return err
	}
	r.players[player.ID] = *player
	return nil
}

// checkUnique mirrors the schema's unique indexes on name and email.
// Rows compare exactly, matching the index semantics; the
// case-insensitive lookups above are a separate concern. Callers must
// hold the write lock.
func (r *MockPlayerRepository) checkUnique(player *models.Player) error {
	for _, existing := range r.players {
		if existing.ID == player.ID {
			continue
		}
		if existing.Name == player.Name {
			return fmt.Errorf("player %s: %w", player.Name, models.ErrConflict)
		}
		if email := player.EmailValue(); email != "" && existing.EmailValue() == email {
			return fmt.Errorf("player %s: %w", player.Name, models.ErrConflict)
		}
	}
	return nil
}
