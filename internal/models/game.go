package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrEndTimeRequired is returned when a game is persisted without the
	// time it concluded.
	ErrEndTimeRequired = errors.New("game end time is required")

	// ErrInvalidTeam is returned when a winner or role team is not one of
	// the known factions.
	ErrInvalidTeam = errors.New("team must be Mafia or Town")
)

// Game records one completed match. CreatedAt is the record's creation
// timestamp; games are immutable once persisted.
type Game struct {
	gorm.Model
	EndTime time.Time `gorm:"not null"`
	Winner  Team      `gorm:"size:5;not null"`

	Participations []GameParticipation
}

func (g *Game) BeforeSave(tx *gorm.DB) error {
	if g.EndTime.IsZero() {
		return ErrEndTimeRequired
	}
	if !g.Winner.Valid() {
		return ErrInvalidTeam
	}
	return nil
}
