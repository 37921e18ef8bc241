package league

import "context"

// Repository describes league persistence needs from use cases. Draft picks
// and treasury transitions go through the transactional runner in usecase
// instead of these plain accessors.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	Save(ctx context.Context, l League) error
}
