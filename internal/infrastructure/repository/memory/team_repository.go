package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpi/gridiron/internal/domain/team"
)

type teamKey struct {
	leagueID string
	owner    string
}

type TeamRepository struct {
	mu    sync.RWMutex
	items map[teamKey]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[teamKey]team.Team)}
}

func (r *TeamRepository) Get(_ context.Context, leagueID, username string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamKey{leagueID: leagueID, owner: username}]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(t), true, nil
}

func (r *TeamRepository) Save(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamKey{leagueID: t.LeagueID, owner: t.Owner}] = cloneTeam(t)

	return nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for key, t := range r.items {
		if key.leagueID == leagueID {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Owner < out[j].Owner })

	return out, nil
}

// cloneTeam guards the stored maps and slices from caller mutation.
func cloneTeam(t team.Team) team.Team {
	out := t
	out.Roster = make(map[team.Slot]string, len(t.Roster))
	for slot, id := range t.Roster {
		out.Roster[slot] = id
	}
	out.Bench = append([]string(nil), t.Bench...)

	return out
}
