package memory

import (
	"context"
	"sync"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

// TxRunner serializes units of work per league with one mutex per league id.
// That makes the turn-check/claim-check/update sequence of a draft pick
// indivisible with respect to concurrent picks in the same league.
type TxRunner struct {
	leagues *LeagueRepository
	teams   *TeamRepository
	claims  *ClaimRepository
	mu      sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewTxRunner(leagues *LeagueRepository, teams *TeamRepository, claims *ClaimRepository) *TxRunner {
	return &TxRunner{
		leagues: leagues,
		teams:   teams,
		claims:  claims,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (r *TxRunner) InLeague(ctx context.Context, leagueID string, fn func(tx usecase.LeagueTx) error) error {
	lock := r.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	return fn(&leagueTx{runner: r, leagueID: leagueID})
}

func (r *TxRunner) leagueLock(leagueID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[leagueID] = lock
	}

	return lock
}

type leagueTx struct {
	runner   *TxRunner
	leagueID string
}

func (tx *leagueTx) League(ctx context.Context) (league.League, bool, error) {
	return tx.runner.leagues.GetByID(ctx, tx.leagueID)
}

func (tx *leagueTx) SaveLeague(ctx context.Context, l league.League) error {
	return tx.runner.leagues.Save(ctx, l)
}

func (tx *leagueTx) Team(ctx context.Context, username string) (team.Team, bool, error) {
	return tx.runner.teams.Get(ctx, tx.leagueID, username)
}

func (tx *leagueTx) SaveTeam(ctx context.Context, t team.Team) error {
	return tx.runner.teams.Save(ctx, t)
}

func (tx *leagueTx) Claim(ctx context.Context, playerID string) (claim.Claim, bool, error) {
	return tx.runner.claims.Get(ctx, tx.leagueID, playerID)
}

func (tx *leagueTx) PutClaim(ctx context.Context, c claim.Claim) error {
	return tx.runner.claims.Put(ctx, c)
}

func (tx *leagueTx) DeleteClaim(ctx context.Context, playerID string) error {
	return tx.runner.claims.Delete(ctx, tx.leagueID, playerID)
}
