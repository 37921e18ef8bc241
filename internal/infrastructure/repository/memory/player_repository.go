package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	for _, p := range players {
		items[p.ID] = p
	}

	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = p

	return nil
}

func (r *PlayerRepository) UpsertMany(_ context.Context, players []player.Player) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.items[p.ID] = p
	}

	return len(players), nil
}

func (r *PlayerRepository) DeleteMany(_ context.Context, playerIDs []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for _, id := range playerIDs {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			deleted++
		}
	}

	return deleted, nil
}
