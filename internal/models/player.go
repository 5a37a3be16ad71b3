package models

import "time"

// Player is a registered player. Email is the canonical identity key
// once present (stored lowercased); Name is a mutable display
// attribute. Legacy rows created through the by-name JSON API have no
// email until they are claimed via registration, hence the nullable
// column: NULLs stay out of the unique index, so any number of
// name-only players can coexist while a duplicate email or name is
// refused by the store.
type Player struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string       `json:"name" gorm:"type:varchar(80);uniqueIndex" validate:"required,min=1,max=80"`
	Email     *string      `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex" validate:"omitempty,email"`
	Entries   []ScoreEntry `json:"-" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// EmailValue returns the player's email, or "" for name-only players.
func (p *Player) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// SetEmail attaches an email to the player. An empty string clears it
// back to NULL rather than storing "".
func (p *Player) SetEmail(email string) {
	if email == "" {
		p.Email = nil
		return
	}
	p.Email = &email
}
