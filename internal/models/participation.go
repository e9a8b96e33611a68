package models

import "gorm.io/gorm"

// GameParticipation links a user to a game and the role they played in it.
// Deleting the referenced user, game, or role removes the participation.
type GameParticipation struct {
	gorm.Model
	UserID uint `gorm:"not null;index"`
	GameID uint `gorm:"not null;index"`
	RoleID uint `gorm:"not null;index"`

	User UserProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Game Game        `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Role Role        `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
