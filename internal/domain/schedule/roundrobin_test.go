package schedule

import (
	"fmt"
	"reflect"
	"testing"
)

func TestGenerateEveryPairMeetsOnce(t *testing.T) {
	members := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	weeks := Generate("lg-1", members, len(members)-1)

	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}

	seen := make(map[string]int)
	for _, week := range weeks {
		if len(week.Matchups) != 3 {
			t.Fatalf("week %d: expected 3 matchups, got %d", week.Week, len(week.Matchups))
		}
		playing := make(map[string]bool)
		for _, m := range week.Matchups {
			if playing[m.Home] || playing[m.Away] {
				t.Fatalf("week %d: member scheduled twice", week.Week)
			}
			playing[m.Home], playing[m.Away] = true, true
			seen[pairKey(m.Home, m.Away)]++
		}
	}

	if len(seen) != 15 {
		t.Fatalf("expected 15 distinct pairings, got %d", len(seen))
	}
	for pair, count := range seen {
		if count != 1 {
			t.Fatalf("pair %s met %d times, want 1", pair, count)
		}
	}
}

func TestGenerateOddMembershipByes(t *testing.T) {
	members := []string{"alice", "bob", "carol"}
	weeks := Generate("lg-1", members, 3)

	for _, week := range weeks {
		if len(week.Matchups) != 1 {
			t.Fatalf("week %d: expected 1 matchup with odd membership, got %d", week.Week, len(week.Matchups))
		}
		for _, m := range week.Matchups {
			if m.Home == byeMarker || m.Away == byeMarker {
				t.Fatalf("week %d: bye marker leaked into matchup", week.Week)
			}
		}
	}

	// Every member sits out exactly once over a full cycle.
	played := make(map[string]int)
	for _, week := range weeks {
		for _, m := range week.Matchups {
			played[m.Home]++
			played[m.Away]++
		}
	}
	for _, member := range members {
		if played[member] != 2 {
			t.Fatalf("%s played %d weeks, want 2", member, played[member])
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	members := []string{"alice", "bob", "carol", "dave"}

	first := Generate("lg-1", members, 14)
	second := Generate("lg-1", members, 14)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs should produce the same schedule")
	}
}

func TestGenerateBounds(t *testing.T) {
	if got := Generate("lg-1", []string{"alice"}, 5); got != nil {
		t.Fatalf("single member should produce no schedule, got %d weeks", len(got))
	}
	if got := Generate("lg-1", []string{"alice", "bob"}, 0); got != nil {
		t.Fatal("zero weeks should produce no schedule")
	}
	if got := Generate("lg-1", []string{"alice", "bob"}, 40); len(got) != maxSeasonWeeks {
		t.Fatalf("week count should cap at %d, got %d", maxSeasonWeeks, len(got))
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}

	return fmt.Sprintf("%s|%s", a, b)
}
