package services

import (
	"errors"
	"fmt"
	"strings"

	"geoboard/internal/models"
	"geoboard/internal/repositories"
)

// IdentityService resolves and maintains player identity. Email is the
// authoritative key; name is a mutable display attribute. Legacy
// name-only rows (created through the by-name JSON API, or inherited
// from databases that predate email login) are claimed by attaching an
// email on registration.
type IdentityService struct {
	players repositories.PlayerRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(players repositories.PlayerRepository) *IdentityService {
	return &IdentityService{
		players: players,
	}
}

// Upsert creates or updates a player for the given email and name.
// Resolution order: existing email match (rename if needed), then
// name match (claim the row by attaching the email), then create.
// A uniqueness conflict on create falls back to updating the row that
// won the race, so concurrent registrations never duplicate players.
func (s *IdentityService) Upsert(email, name string) (*models.Player, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	player, err := s.players.GetByEmail(email)
	if err == nil {
		if player.Name != name {
			player.Name = name
			if err := s.players.Update(player); err != nil {
				return nil, fmt.Errorf("failed to rename player: %w", err)
			}
		}
		return player, nil
	}
	if !errors.Is(err, models.ErrPlayerNotFound) {
		return nil, err
	}

	byName, err := s.players.GetByName(name)
	if err == nil {
		byName.SetEmail(email)
		if err := s.players.Update(byName); err != nil {
			return nil, fmt.Errorf("failed to claim player by name: %w", err)
		}
		return byName, nil
	}
	if !errors.Is(err, models.ErrPlayerNotFound) {
		return nil, err
	}

	player = &models.Player{Name: name}
	player.SetEmail(email)
	if err := s.players.Create(player); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return s.resolveCreateConflict(email, name)
		}
		return nil, err
	}
	return player, nil
}

// resolveCreateConflict retries a lost creation race as an update of
// whichever existing row the insert collided with.
func (s *IdentityService) resolveCreateConflict(email, name string) (*models.Player, error) {
	if player, err := s.players.GetByEmail(email); err == nil {
		if player.Name != name {
			player.Name = name
			if err := s.players.Update(player); err != nil {
				return nil, err
			}
		}
		return player, nil
	}
	player, err := s.players.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity conflict for %s: %w", email, err)
	}
	player.SetEmail(email)
	if err := s.players.Update(player); err != nil {
		return nil, err
	}
	return player, nil
}

// FindByEmail looks up a player by email for login and session
// resolution. Returns models.ErrPlayerNotFound for unknown emails.
func (s *IdentityService) FindByEmail(email string) (*models.Player, error) {
	return s.players.GetByEmail(NormalizeEmail(email))
}

// ResolveByName returns the player with the given display name,
// creating a name-only record when none exists. Used by the legacy
// JSON submit endpoint, which identifies players by name.
func (s *IdentityService) ResolveByName(name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	player, err := s.players.GetByName(name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, models.ErrPlayerNotFound) {
		return nil, err
	}

	player = &models.Player{Name: name}
	if err := s.players.Create(player); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return s.players.GetByName(name)
		}
		return nil, err
	}
	return player, nil
}

// NormalizeEmail lowercases and trims an email so lookups and stored
// values compare consistently.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
