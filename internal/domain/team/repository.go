package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, leagueID, username string) (Team, bool, error)
	Save(ctx context.Context, t Team) error
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
}
