package player

import (
	"testing"
	"time"
)

func TestIdentityKey(t *testing.T) {
	if got := IdentityKey("3139477", "Patrick Mahomes", "KC", PositionQB); got != "espn:3139477" {
		t.Fatalf("espn identity = %q", got)
	}
	if got := IdentityKey("", "Patrick Mahomes", "kc", PositionQB); got != "ntp:patrick mahomes|KC|QB" {
		t.Fatalf("ntp identity = %q", got)
	}
	// Records with the same name in different casings collapse together.
	a := IdentityKey("", "JUSTIN Jefferson", " min ", PositionWR)
	b := IdentityKey("", "justin jefferson", "MIN", PositionWR)
	if a != b {
		t.Fatalf("case-insensitive identities differ: %q vs %q", a, b)
	}
}

func TestDocID(t *testing.T) {
	if got := DocID("3139477", "Patrick Mahomes", "KC", PositionQB); got != "espn-3139477" {
		t.Fatalf("espn doc id = %q", got)
	}
	if got := DocID("", "A.J. Brown", "PHI", PositionWR); got != "ntp-aj-brown-phi-wr" {
		t.Fatalf("ntp doc id = %q", got)
	}
}

func TestExtractESPNID(t *testing.T) {
	cases := []struct {
		name string
		rec  map[string]any
		want string
	}{
		{"camel key", map[string]any{"espnId": "4046"}, "4046"},
		{"snake key", map[string]any{"espn_id": "4046"}, "4046"},
		{"numeric value", map[string]any{"espnId": float64(4046)}, "4046"},
		{"non-numeric rejected", map[string]any{"espnId": "abc"}, ""},
		{"missing", map[string]any{"name": "x"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractESPNID(tc.rec); got != tc.want {
				t.Fatalf("ExtractESPNID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizePosition(t *testing.T) {
	cases := map[string]Position{
		"QB":   PositionQB,
		"rb":   PositionRB,
		"PK":   PositionK,
		"DST":  PositionDEF,
		"D/ST": PositionDEF,
		"DEF":  PositionDEF,
	}

	for in, want := range cases {
		if got := NormalizePosition(in); got != want {
			t.Fatalf("NormalizePosition(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromRaw(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	rec := map[string]any{
		"full_name":  "Josh Allen",
		"team":       "buf",
		"position":   "QB",
		"espn_id":    "3918298",
		"player_id":  "4984",
		"headshot":   "https://img.example/ja.png",
		"week":       float64(5),
		"projection": 24.7,
		"opponent":   "mia",
	}

	p := FromRaw(rec, now)
	if p.ID != "espn-3918298" {
		t.Fatalf("id = %q", p.ID)
	}
	if p.Name != "Josh Allen" || p.Team != "BUF" || p.Position != PositionQB {
		t.Fatalf("identity fields = %q %q %q", p.Name, p.Team, p.Position)
	}
	if p.SleeperID != "4984" || p.PhotoURL == "" {
		t.Fatalf("provider fields = %q %q", p.SleeperID, p.PhotoURL)
	}
	if p.Projections["5"] != 24.7 {
		t.Fatalf("projections = %v", p.Projections)
	}
	if p.Matchups["5"].Opp != "MIA" {
		t.Fatalf("matchups = %v", p.Matchups)
	}

	// A list-valued position takes the first entry.
	p = FromRaw(map[string]any{
		"display_name":      "Travis Kelce",
		"fantasy_positions": []any{"TE", "WR"},
		"team":              "KC",
	}, now)
	if p.Position != PositionTE {
		t.Fatalf("list position = %q", p.Position)
	}
	if p.ID != "ntp-travis-kelce-kc-te" {
		t.Fatalf("ntp id = %q", p.ID)
	}
}

func TestMergeScalars(t *testing.T) {
	older := time.Unix(1_700_000_000, 0)
	newer := older.Add(time.Hour)

	dst := Player{
		ID:        "ntp-josh-allen-buf-qb",
		Name:      "Josh Allen",
		Position:  PositionQB,
		Team:      "BUF",
		SleeperID: "4984",
		UpdatedAt: older,
	}
	src := Player{
		ID:        "espn-3918298",
		Name:      "Josh Allen",
		Position:  PositionQB,
		Team:      "BUF",
		ESPNID:    "3918298",
		PhotoURL:  "https://img.example/ja.png",
		UpdatedAt: newer,
	}

	out := Merge(dst, src)
	if out.ID != "espn-3918298" {
		t.Fatalf("merged id = %q, want espn doc id", out.ID)
	}
	if out.SleeperID != "4984" {
		t.Fatal("merge dropped the sleeper id")
	}
	if out.ESPNID != "3918298" || out.PhotoURL == "" {
		t.Fatal("merge dropped incoming fields")
	}
	if !out.UpdatedAt.Equal(newer) {
		t.Fatal("merge should keep the newest timestamp")
	}
}

func TestMergeIdempotent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	p := Player{
		ID:          "espn-1",
		Name:        "Some Player",
		Position:    PositionRB,
		Team:        "DAL",
		ESPNID:      "1",
		Projections: map[string]float64{"3": 12.5},
		Matchups:    map[string]Matchup{"3": {Opp: "NYG"}},
		UpdatedAt:   now,
	}

	out := Merge(p, p)
	if out.ID != p.ID || out.Name != p.Name || out.Team != p.Team {
		t.Fatalf("self-merge changed identity: %+v", out)
	}
	if out.Projections["3"] != 12.5 || out.Matchups["3"].Opp != "NYG" {
		t.Fatalf("self-merge changed week data: %+v", out)
	}
}

func TestMergeProjections(t *testing.T) {
	existing := map[string]float64{"1": 10.5, "2": 0}
	incoming := map[string]float64{"1": 0, "2": 8.2, "3": 0}

	out := MergeProjections(existing, incoming)

	// Zero never clobbers a positive value.
	if out["1"] != 10.5 {
		t.Fatalf("week 1 = %v, want 10.5", out["1"])
	}
	// Positive incoming always wins.
	if out["2"] != 8.2 {
		t.Fatalf("week 2 = %v, want 8.2", out["2"])
	}
	// A week seen only as zero still materializes.
	if v, ok := out["3"]; !ok || v != 0 {
		t.Fatalf("week 3 = %v (present %v), want 0", v, ok)
	}

	if out := MergeProjections(nil, nil); out != nil {
		t.Fatalf("nil merge = %v, want nil", out)
	}
}

func TestMergeMatchups(t *testing.T) {
	existing := map[string]Matchup{"1": {Opp: "KC"}, "2": {}}
	incoming := map[string]Matchup{"1": {}, "2": {Opp: "LV"}, "3": {}}

	out := MergeMatchups(existing, incoming)
	if out["1"].Opp != "KC" {
		t.Fatalf("week 1 = %q, empty opponent should not clobber", out["1"].Opp)
	}
	if out["2"].Opp != "LV" {
		t.Fatalf("week 2 = %q, want LV", out["2"].Opp)
	}
	if _, ok := out["3"]; !ok {
		t.Fatal("week 3 should materialize even without an opponent")
	}
}

func TestBetter(t *testing.T) {
	older := time.Unix(1_700_000_000, 0)
	newer := older.Add(time.Hour)

	if !Better(Player{UpdatedAt: newer}, Player{UpdatedAt: older}) {
		t.Fatal("newer record should win")
	}
	if !Better(Player{UpdatedAt: older, ESPNID: "1"}, Player{UpdatedAt: older}) {
		t.Fatal("espn-backed record should win a timestamp tie")
	}
	if !Better(Player{UpdatedAt: older, PhotoURL: "x"}, Player{UpdatedAt: older}) {
		t.Fatal("photo-bearing record should win the next tie")
	}
	if Better(Player{UpdatedAt: older}, Player{UpdatedAt: older}) {
		t.Fatal("full tie should keep the first-seen record")
	}
}

func TestMergeKeepsFirstSeenOnFullTie(t *testing.T) {
	seen := time.Unix(1_700_000_000, 0)
	first := Player{ID: "ntp-a", Name: "Amon-Ra St. Brown", Team: "DET", Position: PositionWR, UpdatedAt: seen}
	later := Player{ID: "ntp-b", Name: "A. St. Brown", Team: "DET", Position: PositionWR, UpdatedAt: seen}

	out := Merge(first, later)
	if out.Name != first.Name {
		t.Fatalf("name = %q, a full tie must not let the incoming record win", out.Name)
	}
	if out.ID != first.ID {
		t.Fatalf("id = %q, want %q", out.ID, first.ID)
	}
}
