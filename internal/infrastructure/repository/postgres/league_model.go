package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/gridironpi/gridiron/internal/domain/league"
)

// Leagues persist as one JSONB document per aggregate; the draft, treasury
// and standings always travel together so a pick or payout commits as one
// row write.
type leagueTableModel struct {
	ID        string    `db:"id"`
	Doc       []byte    `db:"doc"`
	UpdatedAt time.Time `db:"updated_at"`
}

func encodeLeague(l league.League) (leagueTableModel, error) {
	doc, err := sonic.Marshal(l)
	if err != nil {
		return leagueTableModel{}, fmt.Errorf("encode league doc: %w", err)
	}

	return leagueTableModel{
		ID:        l.ID,
		Doc:       doc,
		UpdatedAt: l.UpdatedAt,
	}, nil
}

func decodeLeague(row leagueTableModel) (league.League, error) {
	var l league.League
	if err := sonic.Unmarshal(row.Doc, &l); err != nil {
		return league.League{}, fmt.Errorf("decode league doc %s: %w", row.ID, err)
	}

	return l, nil
}
