package models

import "gorm.io/gorm"

// Role is an assignable in-game persona (e.g. "Godfather", "Doctor").
// Roles are lookup data, created administratively and reused across games.
type Role struct {
	gorm.Model
	Name        string `gorm:"size:25;not null"`
	Description string `gorm:"size:100"`
	Team        Team   `gorm:"size:5;not null"`
}

func (r *Role) BeforeSave(tx *gorm.DB) error {
	if !r.Team.Valid() {
		return ErrInvalidTeam
	}
	return nil
}
