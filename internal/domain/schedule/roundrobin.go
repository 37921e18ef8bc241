package schedule

// maxSeasonWeeks caps generated schedules regardless of the requested count.
const maxSeasonWeeks = 18

// byeMarker is the synthetic opponent padded in when membership is odd.
// Matchups involving it are dropped before a week is emitted.
const byeMarker = "__bye__"

// Generate produces a round-robin season via the circle method: split the
// (padded) list into two halves, pair position-wise, then rotate everything
// but the first entry each week. Deterministic for a given ordered member
// list and week count.
func Generate(leagueID string, members []string, weeks int) []Week {
	if len(members) < 2 || weeks <= 0 {
		return nil
	}
	if weeks > maxSeasonWeeks {
		weeks = maxSeasonWeeks
	}

	ring := append([]string(nil), members...)
	if len(ring)%2 == 1 {
		ring = append(ring, byeMarker)
	}
	n := len(ring)
	half := n / 2

	out := make([]Week, 0, weeks)
	for week := 1; week <= weeks; week++ {
		matchups := make([]Matchup, 0, half)
		for i := 0; i < half; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == byeMarker || away == byeMarker {
				continue
			}
			matchups = append(matchups, Matchup{Home: home, Away: away})
		}
		out = append(out, Week{LeagueID: leagueID, Week: week, Matchups: matchups})

		// Rotate all but the fixed first entry.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	return out
}
