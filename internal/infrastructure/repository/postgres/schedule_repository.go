package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/gridironpi/gridiron/internal/domain/schedule"
	qb "github.com/gridironpi/gridiron/internal/platform/querybuilder"
)

type scheduleTableModel struct {
	LeagueID string `db:"league_id"`
	Week     int    `db:"week"`
	Doc      []byte `db:"doc"`
}

func encodeWeek(w schedule.Week) (scheduleTableModel, error) {
	doc, err := sonic.Marshal(w)
	if err != nil {
		return scheduleTableModel{}, fmt.Errorf("encode schedule week doc: %w", err)
	}

	return scheduleTableModel{LeagueID: w.LeagueID, Week: w.Week, Doc: doc}, nil
}

func decodeWeek(row scheduleTableModel) (schedule.Week, error) {
	var w schedule.Week
	if err := sonic.Unmarshal(row.Doc, &w); err != nil {
		return schedule.Week{}, fmt.Errorf("decode schedule week doc %s/%d: %w", row.LeagueID, row.Week, err)
	}

	return w, nil
}

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) SaveAll(ctx context.Context, weeks []schedule.Week) error {
	if len(weeks) == 0 {
		return nil
	}

	builder := qb.InsertInto("schedule_weeks").
		Columns("league_id", "week", "doc")
	for _, w := range weeks {
		row, err := encodeWeek(w)
		if err != nil {
			return err
		}
		builder.Values(row.LeagueID, row.Week, row.Doc)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (league_id, week) DO UPDATE SET doc = EXCLUDED.doc").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert schedule weeks query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert schedule weeks: %w", err)
	}

	return nil
}

func (r *ScheduleRepository) GetWeek(ctx context.Context, leagueID string, week int) (schedule.Week, bool, error) {
	query, args, err := qb.Select("league_id", "week", "doc").From("schedule_weeks").
		Where(qb.Eq("league_id", leagueID), qb.Eq("week", week)).
		ToSQL()
	if err != nil {
		return schedule.Week{}, false, fmt.Errorf("build get schedule week query: %w", err)
	}

	var row scheduleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return schedule.Week{}, false, nil
		}
		return schedule.Week{}, false, fmt.Errorf("get schedule week: %w", err)
	}

	w, err := decodeWeek(row)
	if err != nil {
		return schedule.Week{}, false, err
	}

	return w, true, nil
}

func (r *ScheduleRepository) ListByLeague(ctx context.Context, leagueID string) ([]schedule.Week, error) {
	query, args, err := qb.Select("league_id", "week", "doc").From("schedule_weeks").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select schedule weeks query: %w", err)
	}

	var rows []scheduleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select schedule weeks: %w", err)
	}

	out := make([]schedule.Week, 0, len(rows))
	for _, row := range rows {
		w, err := decodeWeek(row)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}

	return out, nil
}

func (r *ScheduleRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	query, args, err := qb.DeleteFrom("schedule_weeks").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete schedule weeks query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete schedule weeks: %w", err)
	}

	return nil
}
