package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

// PlayerFilter narrows directory listings.
type PlayerFilter struct {
	Position player.Position
	Search   string
}

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return p, nil
}

// ListPlayers returns the directory sorted by name, optionally filtered by
// position and a case-insensitive name substring.
func (s *PlayerService) ListPlayers(ctx context.Context, filter PlayerFilter) ([]player.Player, error) {
	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: unsupported position %q", ErrInvalidInput, filter.Position)
		}
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
