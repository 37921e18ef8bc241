package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/team"
	qb "github.com/gridironpi/gridiron/internal/platform/querybuilder"
	"github.com/gridironpi/gridiron/internal/usecase"
)

// TxRunner serializes units of work per league by taking a row lock on the
// league before fn runs. Concurrent picks against the same league queue up
// behind the lock; different leagues proceed in parallel.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InLeague(ctx context.Context, leagueID string, fn func(tx usecase.LeagueTx) error) error {
	sqlTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin league tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := lockLeagueRow(ctx, sqlTx, leagueID); err != nil {
		return err
	}

	if err := fn(&leagueTx{tx: sqlTx, leagueID: leagueID}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit league tx: %w", err)
	}

	return nil
}

func lockLeagueRow(ctx context.Context, tx *sqlx.Tx, leagueID string) error {
	query, args, err := qb.Select("id").From("leagues").
		Where(qb.Eq("id", leagueID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock league query: %w", err)
	}

	var id string
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			// Missing league surfaces through tx.League; no row means
			// nothing to serialize against.
			return nil
		}
		return fmt.Errorf("lock league row: %w", err)
	}

	return nil
}

type leagueTx struct {
	tx       *sqlx.Tx
	leagueID string
}

func (t *leagueTx) League(ctx context.Context) (league.League, bool, error) {
	query, args, err := qb.Select("id", "doc", "updated_at").From("leagues").
		Where(qb.Eq("id", t.leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build tx get league query: %w", err)
	}

	var row leagueTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("tx get league: %w", err)
	}

	l, err := decodeLeague(row)
	if err != nil {
		return league.League{}, false, err
	}

	return l, true, nil
}

func (t *leagueTx) SaveLeague(ctx context.Context, l league.League) error {
	l.UpdatedAt = time.Now().UTC()

	row, err := encodeLeague(l)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("leagues").
		Columns("id", "doc", "updated_at").
		Values(row.ID, row.Doc, row.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build tx upsert league query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tx upsert league: %w", err)
	}

	return nil
}

func (t *leagueTx) Team(ctx context.Context, username string) (team.Team, bool, error) {
	query, args, err := qb.Select("league_id", "owner", "doc", "updated_at").From("teams").
		Where(qb.Eq("league_id", t.leagueID), qb.Eq("owner", username)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build tx get team query: %w", err)
	}

	var row teamTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("tx get team: %w", err)
	}

	tm, err := decodeTeam(row)
	if err != nil {
		return team.Team{}, false, err
	}

	return tm, true, nil
}

func (t *leagueTx) SaveTeam(ctx context.Context, tm team.Team) error {
	row, err := encodeTeam(tm)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("teams").
		Columns("league_id", "owner", "doc", "updated_at").
		Values(row.LeagueID, row.Owner, row.Doc, row.UpdatedAt).
		Suffix("ON CONFLICT (league_id, owner) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build tx upsert team query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tx upsert team: %w", err)
	}

	return nil
}

func (t *leagueTx) Claim(ctx context.Context, playerID string) (claim.Claim, bool, error) {
	query, args, err := qb.Select("league_id", "player_id", "claimed_by", "claimed_at").From("claims").
		Where(qb.Eq("league_id", t.leagueID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return claim.Claim{}, false, fmt.Errorf("build tx get claim query: %w", err)
	}

	var row claimTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return claim.Claim{}, false, nil
		}
		return claim.Claim{}, false, fmt.Errorf("tx get claim: %w", err)
	}

	return row.toDomain(), true, nil
}

func (t *leagueTx) PutClaim(ctx context.Context, c claim.Claim) error {
	query, args, err := qb.InsertInto("claims").
		Columns("league_id", "player_id", "claimed_by", "claimed_at").
		Values(c.LeagueID, c.PlayerID, c.ClaimedBy, c.At).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build tx insert claim query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player %s is already claimed", usecase.ErrStateConflict, c.PlayerID)
		}
		return fmt.Errorf("tx insert claim: %w", err)
	}

	return nil
}

func (t *leagueTx) DeleteClaim(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("claims").
		Where(qb.Eq("league_id", t.leagueID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build tx delete claim query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tx delete claim: %w", err)
	}

	return nil
}
