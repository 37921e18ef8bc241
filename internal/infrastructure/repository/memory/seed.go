package memory

import (
	"time"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

var seedTime = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

// SeedPlayers is a small directory for local development before the first
// ingestion run fills the real one.
func SeedPlayers() []player.Player {
	return []player.Player{
		seedPlayer("3918298", "Josh Allen", player.PositionQB, "BUF", 23.4),
		seedPlayer("3139477", "Patrick Mahomes", player.PositionQB, "KC", 22.8),
		seedPlayer("4241389", "CeeDee Lamb", player.PositionWR, "DAL", 17.9),
		seedPlayer("4262921", "Justin Jefferson", player.PositionWR, "MIN", 18.6),
		seedPlayer("4430807", "Bijan Robinson", player.PositionRB, "ATL", 16.2),
		seedPlayer("4429795", "Jahmyr Gibbs", player.PositionRB, "DET", 15.8),
		seedPlayer("4360438", "Breece Hall", player.PositionRB, "NYJ", 14.9),
		seedPlayer("3116365", "Travis Kelce", player.PositionTE, "KC", 12.1),
		seedPlayer("4361307", "Sam LaPorta", player.PositionTE, "DET", 11.4),
		seedPlayer("3055899", "Harrison Butker", player.PositionK, "KC", 8.6),
		seedPlayer("", "49ers D/ST", player.PositionDEF, "SF", 7.5),
		seedPlayer("", "Cowboys D/ST", player.PositionDEF, "DAL", 7.1),
	}
}

func seedPlayer(espnID, name string, pos player.Position, team string, weekOneProjection float64) player.Player {
	return player.Player{
		ID:          player.DocID(espnID, name, team, pos),
		Name:        name,
		Position:    pos,
		Team:        team,
		ESPNID:      espnID,
		Projections: map[string]float64{"1": weekOneProjection},
		UpdatedAt:   seedTime,
	}
}
