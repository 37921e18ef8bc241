package espn

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gridironpi/gridiron/internal/domain/scoring"
)

// WeekStats fetches the weekly stat feed and maps counting stats onto
// canonical player ids (espn-<id>). Players absent from the feed simply have
// no actuals; scoring falls back to projections for them.
func (c *Client) WeekStats(ctx context.Context, week, season int) (map[string]scoring.StatLine, error) {
	query := map[string]string{
		"week":       strconv.Itoa(week),
		"season":     strconv.Itoa(season),
		"seasontype": strconv.Itoa(defaultSeasonType),
	}

	var payload map[string]any
	if err := c.doJSON(ctx, "/statistics", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn week stats week=%d: %w", week, err)
	}

	lines := make(map[string]scoring.StatLine, 256)
	for _, item := range getSlice(payload, "athletes") {
		athlete := getMap(item, "athlete")
		espnID := getString(athlete, "id")
		if espnID == "" {
			espnID = getString(item, "id")
		}
		if espnID == "" {
			continue
		}

		// An all-zero parse is indistinguishable from field names this probe
		// missed, so it is dropped here rather than reported as a real 0.0.
		line := statLineFromRecord(item)
		if line.Empty() {
			continue
		}
		lines["espn-"+espnID] = line
	}

	return lines, nil
}

func statLineFromRecord(record any) scoring.StatLine {
	stats := getMap(record, "statistics")
	if stats == nil {
		stats, _ = record.(map[string]any)
	}

	return scoring.StatLine{
		PassYds: getInt(stats, "passingYards"),
		PassTD:  getInt(stats, "passingTouchdowns"),
		PassInt: getInt(stats, "interceptions"),
		RushYds: getInt(stats, "rushingYards"),
		RushTD:  getInt(stats, "rushingTouchdowns"),
		RecYds:  getInt(stats, "receivingYards"),
		RecTD:   getInt(stats, "receivingTouchdowns"),
		Rec:     getInt(stats, "receptions"),
		Fumbles: getInt(stats, "fumblesLost"),
	}
}
