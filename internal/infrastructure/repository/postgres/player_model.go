package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

// Players persist as JSONB documents with position and team mirrored into
// plain columns for filtered listings.
type playerTableModel struct {
	ID        string    `db:"id"`
	Doc       []byte    `db:"doc"`
	Position  string    `db:"position"`
	Team      string    `db:"team"`
	UpdatedAt time.Time `db:"updated_at"`
}

func encodePlayer(p player.Player) (playerTableModel, error) {
	doc, err := sonic.Marshal(p)
	if err != nil {
		return playerTableModel{}, fmt.Errorf("encode player doc: %w", err)
	}

	return playerTableModel{
		ID:        p.ID,
		Doc:       doc,
		Position:  string(p.Position),
		Team:      p.Team,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func decodePlayer(row playerTableModel) (player.Player, error) {
	var p player.Player
	if err := sonic.Unmarshal(row.Doc, &p); err != nil {
		return player.Player{}, fmt.Errorf("decode player doc %s: %w", row.ID, err)
	}

	return p, nil
}
