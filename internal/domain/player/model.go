package player

import (
	"fmt"
	"time"
)

// Position is a fantasy-relevant NFL position.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// AllPositions is the allowed fantasy position set. Players outside it are
// pruned from the directory.
var AllPositions = map[Position]struct{}{
	PositionQB:  {},
	PositionRB:  {},
	PositionWR:  {},
	PositionTE:  {},
	PositionK:   {},
	PositionDEF: {},
}

// Matchup is one week's opponent for a player's pro team.
type Matchup struct {
	Opp string `json:"opp"`
}

// Player is the canonical de-duplicated record for one athlete. Projections
// and Matchups are sparse maps keyed by week number rendered as a string.
type Player struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Position    Position           `json:"position"`
	Team        string             `json:"team,omitempty"`
	ESPNID      string             `json:"espnId,omitempty"`
	SleeperID   string             `json:"sleeperId,omitempty"`
	PhotoURL    string             `json:"photoUrl,omitempty"`
	Projections map[string]float64 `json:"projections,omitempty"`
	Matchups    map[string]Matchup `json:"matchups,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (p Player) ValidateBasic() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("unsupported position %q", p.Position)
	}

	return nil
}

// WeekKey converts a week number into the sparse-map key format.
func WeekKey(week int) string {
	return fmt.Sprintf("%d", week)
}
