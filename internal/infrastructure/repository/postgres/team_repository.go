package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/gridironpi/gridiron/internal/domain/team"
	qb "github.com/gridironpi/gridiron/internal/platform/querybuilder"
)

type teamTableModel struct {
	LeagueID  string    `db:"league_id"`
	Owner     string    `db:"owner"`
	Doc       []byte    `db:"doc"`
	UpdatedAt time.Time `db:"updated_at"`
}

func encodeTeam(t team.Team) (teamTableModel, error) {
	doc, err := sonic.Marshal(t)
	if err != nil {
		return teamTableModel{}, fmt.Errorf("encode team doc: %w", err)
	}

	return teamTableModel{
		LeagueID:  t.LeagueID,
		Owner:     t.Owner,
		Doc:       doc,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

func decodeTeam(row teamTableModel) (team.Team, error) {
	var t team.Team
	if err := sonic.Unmarshal(row.Doc, &t); err != nil {
		return team.Team{}, fmt.Errorf("decode team doc %s/%s: %w", row.LeagueID, row.Owner, err)
	}

	return t, nil
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Get(ctx context.Context, leagueID, username string) (team.Team, bool, error) {
	query, args, err := qb.Select("league_id", "owner", "doc", "updated_at").From("teams").
		Where(qb.Eq("league_id", leagueID), qb.Eq("owner", username)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	t, err := decodeTeam(row)
	if err != nil {
		return team.Team{}, false, err
	}

	return t, true, nil
}

func (r *TeamRepository) Save(ctx context.Context, t team.Team) error {
	row, err := encodeTeam(t)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("teams").
		Columns("league_id", "owner", "doc", "updated_at").
		Values(row.LeagueID, row.Owner, row.Doc, row.UpdatedAt).
		Suffix("ON CONFLICT (league_id, owner) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("league_id", "owner", "doc", "updated_at").From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("owner").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := decodeTeam(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}
