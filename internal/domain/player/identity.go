package player

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Raw player records arrive from several providers with unstable field names.
// The alias lists below are probed in order; the first non-empty value wins.
var (
	nameAliases     = []string{"name", "fullName", "full_name", "displayName", "display_name", "playerName", "player_name"}
	teamAliases     = []string{"team", "teamAbbrev", "team_abbr", "proTeam", "pro_team", "nflTeam", "editorial_team_abbr"}
	positionAliases = []string{"position", "pos", "fantasyPosition", "fantasy_positions", "defaultPosition", "default_position"}
	espnIDAliases   = []string{"espnId", "espn_id", "espnID", "athleteId", "athlete_id"}
	sleeperAliases  = []string{"sleeperId", "sleeper_id", "player_id"}
	photoAliases    = []string{"photoUrl", "photo_url", "photo", "headshot", "headshotUrl", "headshot_url", "image", "imageUrl"}
)

// ExtractString probes a raw record for the first non-empty alias value.
func ExtractString(rec map[string]any, aliases []string) string {
	for _, key := range aliases {
		value, ok := rec[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case []any:
			// Some catalogs carry positions as a list; the first entry is primary.
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		case int:
			if v != 0 {
				return strconv.Itoa(v)
			}
		case int64:
			if v != 0 {
				return strconv.FormatInt(v, 10)
			}
		}
	}

	return ""
}

// ExtractESPNID returns the ESPN numeric id as a decimal string, or "".
func ExtractESPNID(rec map[string]any) string {
	raw := ExtractString(rec, espnIDAliases)
	if raw == "" {
		return ""
	}
	// Guard against non-numeric garbage leaking in from loosely typed feeds.
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return ""
	}

	return raw
}

func NormalizeName(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func NormalizeTeam(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NormalizePosition maps provider position spellings onto the canonical set.
func NormalizePosition(v string) Position {
	up := strings.ToUpper(strings.TrimSpace(v))
	switch up {
	case "PK":
		return PositionK
	case "DST", "D/ST", "D-ST", "DEF":
		return PositionDEF
	default:
		return Position(up)
	}
}

// IdentityKey computes the canonical identity of a raw record: the ESPN id
// when one is present, otherwise normalized name|team|position. Malformed
// records degrade to a weak "ntp:||" bucket instead of failing.
func IdentityKey(espnID, name, team string, pos Position) string {
	if espnID != "" {
		return "espn:" + espnID
	}

	return fmt.Sprintf("ntp:%s|%s|%s", NormalizeName(name), NormalizeTeam(team), pos)
}

// DocID is the storage document id for an identity. ESPN-backed identities
// always live under espn-<id> so later de-duplication converges on one doc.
func DocID(espnID, name, team string, pos Position) string {
	if espnID != "" {
		return "espn-" + espnID
	}

	slug := strings.NewReplacer(" ", "-", "|", "-", "/", "-", ".", "").Replace(
		fmt.Sprintf("%s-%s-%s", NormalizeName(name), strings.ToLower(NormalizeTeam(team)), strings.ToLower(string(pos))),
	)

	return "ntp-" + slug
}

// FromRaw converts one provider record into a canonical Player. It never
// fails: missing fields produce a weak identity rather than an error.
func FromRaw(rec map[string]any, now time.Time) Player {
	espnID := ExtractESPNID(rec)
	name := ExtractString(rec, nameAliases)
	team := NormalizeTeam(ExtractString(rec, teamAliases))
	pos := NormalizePosition(ExtractString(rec, positionAliases))

	p := Player{
		ID:        DocID(espnID, name, team, pos),
		Name:      strings.TrimSpace(name),
		Position:  pos,
		Team:      team,
		ESPNID:    espnID,
		SleeperID: ExtractString(rec, sleeperAliases),
		PhotoURL:  ExtractString(rec, photoAliases),
		UpdatedAt: now,
	}

	if week, value, ok := extractWeekProjection(rec); ok {
		p.Projections = map[string]float64{week: value}
	}
	if week, opp, ok := extractWeekMatchup(rec); ok {
		p.Matchups = map[string]Matchup{week: {Opp: opp}}
	}

	return p
}

// Key returns the identity key of an already canonical player.
func (p Player) Key() string {
	return IdentityKey(p.ESPNID, p.Name, p.Team, p.Position)
}

// Better reports whether a should survive over b when both map to the same
// identity. Tie-break order: newer UpdatedAt, then ESPN id presence, then
// photo presence. A full tie keeps b, so the first-seen record is the
// stable fallback for callers that fold left to right.
func Better(a, b Player) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if (a.ESPNID != "") != (b.ESPNID != "") {
		return a.ESPNID != ""
	}
	if (a.PhotoURL != "") != (b.PhotoURL != "") {
		return a.PhotoURL != ""
	}

	return false
}

// Merge folds src into dst for two records of the same identity. Merging is
// idempotent: merging a record into itself changes nothing.
func Merge(dst, src Player) Player {
	out := dst
	out.Projections = MergeProjections(dst.Projections, src.Projections)
	out.Matchups = MergeMatchups(dst.Matchups, src.Matchups)

	preferSrc := Better(src, dst)
	out.Name = mergeScalar(dst.Name, src.Name, preferSrc)
	out.Team = mergeScalar(dst.Team, src.Team, preferSrc)
	out.ESPNID = mergeScalar(dst.ESPNID, src.ESPNID, preferSrc)
	out.SleeperID = mergeScalar(dst.SleeperID, src.SleeperID, preferSrc)
	out.PhotoURL = mergeScalar(dst.PhotoURL, src.PhotoURL, preferSrc)
	if out.Position == "" || (preferSrc && src.Position != "") {
		out.Position = src.Position
	}
	if src.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = src.UpdatedAt
	}
	if out.ESPNID != "" {
		out.ID = "espn-" + out.ESPNID
	}

	return out
}

// MergeProjections merges per-week projections key by key: a positive
// incoming value overwrites, otherwise the existing value is kept, and a
// week present on either side always ends up with at least a zero.
func MergeProjections(existing, incoming map[string]float64) map[string]float64 {
	if len(existing) == 0 && len(incoming) == 0 {
		return existing
	}

	out := make(map[string]float64, len(existing)+len(incoming))
	for week, value := range existing {
		if value > 0 {
			out[week] = value
		} else {
			out[week] = 0
		}
	}
	for week, value := range incoming {
		if value > 0 {
			out[week] = value
			continue
		}
		if _, ok := out[week]; !ok {
			out[week] = 0
		}
	}

	return out
}

// MergeMatchups merges per-week matchups: incoming wins only when it carries
// a non-empty opponent.
func MergeMatchups(existing, incoming map[string]Matchup) map[string]Matchup {
	if len(existing) == 0 && len(incoming) == 0 {
		return existing
	}

	out := make(map[string]Matchup, len(existing)+len(incoming))
	for week, m := range existing {
		out[week] = m
	}
	for week, m := range incoming {
		if strings.TrimSpace(m.Opp) != "" {
			out[week] = m
			continue
		}
		if _, ok := out[week]; !ok {
			out[week] = m
		}
	}

	return out
}

func mergeScalar(dst, src string, preferSrc bool) string {
	if preferSrc && src != "" {
		return src
	}
	if dst != "" {
		return dst
	}

	return src
}

func extractWeekProjection(rec map[string]any) (string, float64, bool) {
	week := ExtractString(rec, []string{"week", "scoringPeriodId", "scoring_period"})
	if week == "" {
		return "", 0, false
	}
	raw, ok := rec["projection"]
	if !ok {
		raw, ok = rec["projectedPoints"]
	}
	if !ok {
		return "", 0, false
	}
	value, ok := toFloat(raw)
	if !ok {
		return "", 0, false
	}

	return week, value, true
}

func extractWeekMatchup(rec map[string]any) (string, string, bool) {
	week := ExtractString(rec, []string{"week", "scoringPeriodId", "scoring_period"})
	if week == "" {
		return "", "", false
	}
	opp := ExtractString(rec, []string{"opp", "opponent", "opponentAbbrev"})
	if opp == "" {
		return "", "", false
	}

	return week, NormalizeTeam(opp), true
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
