package scoring

import "math"

// PPR weight table. Fixed by league format, not configurable per league.
const (
	pointsPerPassYd = 0.04
	pointsPerPassTD = 4.0
	pointsPerInt    = -2.0
	pointsPerRushYd = 0.1
	pointsPerRushTD = 6.0
	pointsPerRecYd  = 0.1
	pointsPerRecTD  = 6.0
	pointsPerRec    = 1.0
	pointsPerFumble = -2.0
)

// StatLine is one player's counting stats for a week. Zero values stand in
// for stats the provider omitted.
type StatLine struct {
	PassYds int `json:"passYds"`
	PassTD  int `json:"passTD"`
	PassInt int `json:"passInt"`
	RushYds int `json:"rushYds"`
	RushTD  int `json:"rushTD"`
	RecYds  int `json:"recYds"`
	RecTD   int `json:"recTD"`
	Rec     int `json:"rec"`
	Fumbles int `json:"fumbles"`
}

// Empty reports whether the line carries no stats at all. Stat providers
// use it to drop records whose fields failed to parse; downstream scoring
// treats every line they do emit as a real result.
func (s StatLine) Empty() bool {
	return s == StatLine{}
}

// Points maps a stat line to fantasy points under the PPR table, rounded to
// one decimal place.
func Points(s StatLine) float64 {
	total := float64(s.PassYds)*pointsPerPassYd +
		float64(s.PassTD)*pointsPerPassTD +
		float64(s.PassInt)*pointsPerInt +
		float64(s.RushYds)*pointsPerRushYd +
		float64(s.RushTD)*pointsPerRushTD +
		float64(s.RecYds)*pointsPerRecYd +
		float64(s.RecTD)*pointsPerRecTD +
		float64(s.Rec)*pointsPerRec +
		float64(s.Fumbles)*pointsPerFumble

	return math.Round(total*10) / 10
}
