package repositories

import "geoboard/internal/models"

// PlayerRepository defines the interface for player data access.
// Email and name lookups are case-insensitive.
type PlayerRepository interface {
	Create(player *models.Player) error
	GetByID(id string) (*models.Player, error)
	GetByEmail(email string) (*models.Player, error)
	GetByName(name string) (*models.Player, error)
	Update(player *models.Player) error
}
