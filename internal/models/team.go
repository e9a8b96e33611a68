package models

// Team identifies one of the two factions a game is played between.
type Team string

const (
	TeamMafia Team = "Mafia"
	TeamTown  Team = "Town"
)

// Valid reports whether t is one of the known factions.
func (t Team) Valid() bool {
	return t == TeamMafia || t == TeamTown
}
