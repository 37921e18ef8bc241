package team

import (
	"time"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

// Slot is one fixed starting-roster position.
type Slot string

const (
	SlotQB   Slot = "QB"
	SlotRB1  Slot = "RB1"
	SlotRB2  Slot = "RB2"
	SlotWR1  Slot = "WR1"
	SlotWR2  Slot = "WR2"
	SlotTE   Slot = "TE"
	SlotFLEX Slot = "FLEX"
	SlotK    Slot = "K"
	SlotDEF  Slot = "DEF"
)

// RosterSlots returns the fixed slot set in lineup order.
func RosterSlots() []Slot {
	return []Slot{SlotQB, SlotRB1, SlotRB2, SlotWR1, SlotWR2, SlotTE, SlotFLEX, SlotK, SlotDEF}
}

var slotPositions = map[Slot][]player.Position{
	SlotQB:   {player.PositionQB},
	SlotRB1:  {player.PositionRB},
	SlotRB2:  {player.PositionRB},
	SlotWR1:  {player.PositionWR},
	SlotWR2:  {player.PositionWR},
	SlotTE:   {player.PositionTE},
	SlotFLEX: {player.PositionRB, player.PositionWR, player.PositionTE},
	SlotK:    {player.PositionK},
	SlotDEF:  {player.PositionDEF},
}

// AllowedInSlot reports whether a position may start in a slot.
func AllowedInSlot(slot Slot, pos player.Position) bool {
	for _, allowed := range slotPositions[slot] {
		if allowed == pos {
			return true
		}
	}

	return false
}

// Team is one user's roster within a league. Roster maps slots to player
// ids; open slots are absent from the map.
type Team struct {
	LeagueID  string          `json:"leagueId"`
	Owner     string          `json:"owner"`
	Roster    map[Slot]string `json:"roster"`
	Bench     []string        `json:"bench,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func New(leagueID, owner string) Team {
	return Team{
		LeagueID: leagueID,
		Owner:    owner,
		Roster:   make(map[Slot]string),
	}
}

// OpenSlotFor finds the first open slot a position may occupy, checking
// dedicated slots in lineup order and FLEX last. ok=false means bench.
func (t Team) OpenSlotFor(pos player.Position) (Slot, bool) {
	for _, slot := range RosterSlots() {
		if slot == SlotFLEX {
			continue
		}
		if AllowedInSlot(slot, pos) && t.Roster[slot] == "" {
			return slot, true
		}
	}
	if AllowedInSlot(SlotFLEX, pos) && t.Roster[SlotFLEX] == "" {
		return SlotFLEX, true
	}

	return "", false
}

// Assign places a player into an explicit slot, or auto-assigns when slot is
// empty: first open legal slot, then FLEX, then bench.
func (t *Team) Assign(playerID string, pos player.Position, slot Slot) (Slot, error) {
	if t.Roster == nil {
		t.Roster = make(map[Slot]string)
	}

	if slot != "" {
		if !AllowedInSlot(slot, pos) {
			return "", playerSlotError(slot, pos)
		}
		if t.Roster[slot] == "" {
			t.Roster[slot] = playerID
			return slot, nil
		}
		// Explicit slot occupied: fall through to auto placement.
	}

	if open, ok := t.OpenSlotFor(pos); ok {
		t.Roster[open] = playerID
		return open, nil
	}
	t.Bench = append(t.Bench, playerID)

	return "", nil
}

// HasPlayer reports whether a player id is on the roster or bench.
func (t Team) HasPlayer(playerID string) bool {
	for _, id := range t.Roster {
		if id == playerID {
			return true
		}
	}
	for _, id := range t.Bench {
		if id == playerID {
			return true
		}
	}

	return false
}

// Remove drops a player id from wherever it sits.
func (t *Team) Remove(playerID string) bool {
	for slot, id := range t.Roster {
		if id == playerID {
			delete(t.Roster, slot)
			return true
		}
	}
	for i, id := range t.Bench {
		if id == playerID {
			t.Bench = append(t.Bench[:i], t.Bench[i+1:]...)
			return true
		}
	}

	return false
}

// Starters returns slot->playerID for occupied slots only.
func (t Team) Starters() map[Slot]string {
	out := make(map[Slot]string, len(t.Roster))
	for slot, id := range t.Roster {
		if id != "" {
			out[slot] = id
		}
	}

	return out
}
