package player

import "context"

// Repository describes player directory persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	Upsert(ctx context.Context, p Player) error
	UpsertMany(ctx context.Context, players []Player) (int, error)
	DeleteMany(ctx context.Context, playerIDs []string) (int, error)
}
