package repositories

import (
	"errors"
	"fmt"
	"strings"

	"geoboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPlayerRepository is a GORM implementation of PlayerRepository.
type GORMPlayerRepository struct {
	db *gorm.DB
}

// NewGORMPlayerRepository creates a new instance of GORMPlayerRepository.
func NewGORMPlayerRepository(db *gorm.DB) *GORMPlayerRepository {
	return &GORMPlayerRepository{
		db: db,
	}
}

// Create creates a new player in the database.
func (r *GORMPlayerRepository) Create(player *models.Player) error {
	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	if err := r.db.Create(player).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("player %s: %w", player.Name, models.ErrConflict)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by their ID from the database.
func (r *GORMPlayerRepository) GetByID(id string) (*models.Player, error) {
	var player models.Player
	if err := r.db.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player with ID %s: %w", id, models.ErrPlayerNotFound)
		}
		return nil, fmt.Errorf("failed to get player by ID %s: %w", id, err)
	}
	return &player, nil
}

// GetByEmail retrieves a player by email, case-insensitively. An empty
// email never matches; name-only rows have no email at all.
func (r *GORMPlayerRepository) GetByEmail(email string) (*models.Player, error) {
	if email == "" {
		return nil, fmt.Errorf("player with empty email: %w", models.ErrPlayerNotFound)
	}
	var player models.Player
	err := r.db.First(&player, "lower(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player with email %s: %w", email, models.ErrPlayerNotFound)
		}
		return nil, fmt.Errorf("failed to get player by email %s: %w", email, err)
	}
	return &player, nil
}

// GetByName retrieves a player by display name, case-insensitively.
func (r *GORMPlayerRepository) GetByName(name string) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player, "lower(name) = ?", strings.ToLower(name)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player named %s: %w", name, models.ErrPlayerNotFound)
		}
		return nil, fmt.Errorf("failed to get player by name %s: %w", name, err)
	}
	return &player, nil
}

// Update updates an existing player in the database. Moving the player
// onto a name or email another row holds surfaces as models.ErrConflict.
func (r *GORMPlayerRepository) Update(player *models.Player) error {
	res := r.db.Save(player)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("player %s: %w", player.Name, models.ErrConflict)
		}
		return fmt.Errorf("failed to update player: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a no-op update, so
		// check RowsAffected.
		return fmt.Errorf("player with ID %s: %w", player.ID, models.ErrPlayerNotFound)
	}
	return nil
}
