package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	qb "github.com/gridironpi/gridiron/internal/platform/querybuilder"
)

// Claims are narrow enough that plain columns beat a document; the unique
// key (league_id, player_id) is the single-owner invariant enforced by the
// database itself.
type claimTableModel struct {
	LeagueID  string    `db:"league_id"`
	PlayerID  string    `db:"player_id"`
	ClaimedBy string    `db:"claimed_by"`
	ClaimedAt time.Time `db:"claimed_at"`
}

func (m claimTableModel) toDomain() claim.Claim {
	return claim.Claim{
		LeagueID:  m.LeagueID,
		PlayerID:  m.PlayerID,
		ClaimedBy: m.ClaimedBy,
		At:        m.ClaimedAt,
	}
}

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Get(ctx context.Context, leagueID, playerID string) (claim.Claim, bool, error) {
	query, args, err := qb.Select("league_id", "player_id", "claimed_by", "claimed_at").From("claims").
		Where(qb.Eq("league_id", leagueID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return claim.Claim{}, false, fmt.Errorf("build get claim query: %w", err)
	}

	var row claimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return claim.Claim{}, false, nil
		}
		return claim.Claim{}, false, fmt.Errorf("get claim: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ClaimRepository) Put(ctx context.Context, c claim.Claim) error {
	query, args, err := qb.InsertInto("claims").
		Columns("league_id", "player_id", "claimed_by", "claimed_at").
		Values(c.LeagueID, c.PlayerID, c.ClaimedBy, c.At).
		Suffix("ON CONFLICT (league_id, player_id) DO UPDATE SET claimed_by = EXCLUDED.claimed_by, claimed_at = EXCLUDED.claimed_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert claim query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert claim: %w", err)
	}

	return nil
}

func (r *ClaimRepository) Delete(ctx context.Context, leagueID, playerID string) error {
	query, args, err := qb.DeleteFrom("claims").
		Where(qb.Eq("league_id", leagueID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete claim query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}

	return nil
}

func (r *ClaimRepository) ListByLeague(ctx context.Context, leagueID string) ([]claim.Claim, error) {
	query, args, err := qb.Select("league_id", "player_id", "claimed_by", "claimed_at").From("claims").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select claims query: %w", err)
	}

	var rows []claimTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select claims: %w", err)
	}

	out := make([]claim.Claim, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
