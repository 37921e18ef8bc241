package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpi/gridiron/internal/domain/claim"
)

type claimKey struct {
	leagueID string
	playerID string
}

type ClaimRepository struct {
	mu    sync.RWMutex
	items map[claimKey]claim.Claim
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{items: make(map[claimKey]claim.Claim)}
}

func (r *ClaimRepository) Get(_ context.Context, leagueID, playerID string) (claim.Claim, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[claimKey{leagueID: leagueID, playerID: playerID}]
	if !ok {
		return claim.Claim{}, false, nil
	}

	return c, true, nil
}

func (r *ClaimRepository) Put(_ context.Context, c claim.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[claimKey{leagueID: c.LeagueID, playerID: c.PlayerID}] = c

	return nil
}

func (r *ClaimRepository) Delete(_ context.Context, leagueID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, claimKey{leagueID: leagueID, playerID: playerID})

	return nil
}

func (r *ClaimRepository) ListByLeague(_ context.Context, leagueID string) ([]claim.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]claim.Claim, 0)
	for key, c := range r.items {
		if key.leagueID == leagueID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}
