package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpi/gridiron/internal/domain/player"
	qb "github.com/gridironpi/gridiron/internal/platform/querybuilder"
	"github.com/gridironpi/gridiron/internal/platform/resilience"
)

const (
	// Ingestion upserts the whole directory at once; chunking keeps each
	// statement under the parameter limit and the pacing delay keeps bulk
	// writes from starving interactive queries.
	playerUpsertChunkSize = 400
	playerChunkPacing     = 25 * time.Millisecond
)

const playerUpsertConflictClause = "ON CONFLICT (id) DO UPDATE SET " +
	"doc = EXCLUDED.doc, position = EXCLUDED.position, team = EXCLUDED.team, updated_at = EXCLUDED.updated_at"

type PlayerRepository struct {
	db    *sqlx.DB
	retry resilience.RetryConfig
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db, retry: resilience.DefaultRetryConfig()}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("id", "doc", "position", "team", "updated_at").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	p, err := decodePlayer(row)
	if err != nil {
		return player.Player{}, false, err
	}

	return p, true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("id", "doc", "position", "team", "updated_at").From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		p, err := decodePlayer(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	row, err := encodePlayer(p)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("players").
		Columns("id", "doc", "position", "team", "updated_at").
		Values(row.ID, row.Doc, row.Position, row.Team, row.UpdatedAt).
		Suffix(playerUpsertConflictClause).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}

	written := 0
	for start := 0; start < len(players); start += playerUpsertChunkSize {
		end := start + playerUpsertChunkSize
		if end > len(players) {
			end = len(players)
		}

		if err := r.upsertChunk(ctx, players[start:end]); err != nil {
			return written, err
		}
		written += end - start

		if end < len(players) {
			select {
			case <-ctx.Done():
				return written, ctx.Err()
			case <-time.After(playerChunkPacing):
			}
		}
	}

	return written, nil
}

func (r *PlayerRepository) upsertChunk(ctx context.Context, players []player.Player) error {
	builder := qb.InsertInto("players").
		Columns("id", "doc", "position", "team", "updated_at")
	for _, p := range players {
		row, err := encodePlayer(p)
		if err != nil {
			return err
		}
		builder.Values(row.ID, row.Doc, row.Position, row.Team, row.UpdatedAt)
	}

	query, args, err := builder.Suffix(playerUpsertConflictClause).ToSQL()
	if err != nil {
		return fmt.Errorf("build bulk upsert players query: %w", err)
	}

	return resilience.Retry(ctx, r.retry, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return resilience.MarkRetryable(fmt.Errorf("bulk upsert players: %w", err))
		}
		return nil
	})
}

func (r *PlayerRepository) DeleteMany(ctx context.Context, playerIDs []string) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}

	ids := make([]any, 0, len(playerIDs))
	for _, id := range playerIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.DeleteFrom("players").
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete players query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete players: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete players rows affected: %w", err)
	}

	return int(deleted), nil
}
