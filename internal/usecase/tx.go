package usecase

import (
	"context"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/team"
)

// LeagueTx is the storage view inside one atomic per-league unit of work.
// Draft picks and payout transitions read and write through it so the
// turn-ownership and claim checks commit together with the state update.
type LeagueTx interface {
	League(ctx context.Context) (league.League, bool, error)
	SaveLeague(ctx context.Context, l league.League) error
	Team(ctx context.Context, username string) (team.Team, bool, error)
	SaveTeam(ctx context.Context, t team.Team) error
	Claim(ctx context.Context, playerID string) (claim.Claim, bool, error)
	PutClaim(ctx context.Context, c claim.Claim) error
	DeleteClaim(ctx context.Context, playerID string) error
}

// TxRunner executes fn atomically with respect to other units touching the
// same league. Different leagues may run concurrently.
type TxRunner interface {
	InLeague(ctx context.Context, leagueID string, fn func(tx LeagueTx) error) error
}
