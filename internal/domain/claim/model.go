package claim

import (
	"context"
	"time"
)

// Claim records which team owns a player within a league's draft pool.
// Existence of a claim implies exactly one team holds the player.
type Claim struct {
	LeagueID  string    `json:"leagueId"`
	PlayerID  string    `json:"playerId"`
	ClaimedBy string    `json:"claimedBy"`
	At        time.Time `json:"at"`
}

// Repository describes claim persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, leagueID, playerID string) (Claim, bool, error)
	Put(ctx context.Context, c Claim) error
	Delete(ctx context.Context, leagueID, playerID string) error
	ListByLeague(ctx context.Context, leagueID string) ([]Claim, error)
}
