package league

import (
	"errors"
	"fmt"
	"time"
)

type DraftStatus string

const (
	DraftScheduled DraftStatus = "scheduled"
	DraftLive      DraftStatus = "live"
	DraftDone      DraftStatus = "done"
)

var (
	ErrDraftNotLive       = errors.New("draft is not live")
	ErrDraftDone          = errors.New("draft is already done")
	ErrNotYourTurn        = errors.New("not your turn to pick")
	ErrPlayerAlreadyOwned = errors.New("player is already owned")
	ErrDraftOrderInvalid  = errors.New("draft order must list each member exactly once")
)

// DraftState is the snake-draft state embedded in a league. Pointer indexes
// Order; odd rounds walk the order forward, even rounds walk it in reverse.
type DraftState struct {
	Status      DraftStatus `json:"status"`
	Order       []string    `json:"order"`
	Pointer     int         `json:"pointer"`
	Direction   int         `json:"direction"`
	Round       int         `json:"round"`
	PicksTaken  int         `json:"picksTaken"`
	RoundsTotal int         `json:"roundsTotal"`
	ClockMs     int64       `json:"clockMs"`
	Deadline    *int64      `json:"deadline,omitempty"`
	ScheduledAt *int64      `json:"scheduledAt,omitempty"`
}

// NewDraftState is the pre-configuration placeholder created with a league.
func NewDraftState(rules Rules) DraftState {
	return DraftState{
		Status:      DraftScheduled,
		Direction:   1,
		Round:       1,
		RoundsTotal: rules.RoundsTotal(),
		ClockMs:     rules.PickClockMs,
	}
}

// Configure resets the draft to round one with the given pick order.
func (d *DraftState) Configure(order []string, rules Rules) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: order is empty", ErrDraftOrderInvalid)
	}
	seen := make(map[string]struct{}, len(order))
	for _, username := range order {
		if username == "" {
			return fmt.Errorf("%w: empty username", ErrDraftOrderInvalid)
		}
		if _, dup := seen[username]; dup {
			return fmt.Errorf("%w: duplicate username %s", ErrDraftOrderInvalid, username)
		}
		seen[username] = struct{}{}
	}

	d.Status = DraftScheduled
	d.Order = append([]string(nil), order...)
	d.Pointer = 0
	d.Direction = 1
	d.Round = 1
	d.PicksTaken = 0
	d.RoundsTotal = rules.RoundsTotal()
	d.ClockMs = rules.PickClockMs
	d.Deadline = nil

	return nil
}

// Start moves a scheduled draft live and arms the pick clock.
func (d *DraftState) Start(now time.Time) error {
	switch d.Status {
	case DraftDone:
		return ErrDraftDone
	case DraftLive:
		return nil
	}
	if len(d.Order) == 0 {
		return fmt.Errorf("%w: order not configured", ErrDraftOrderInvalid)
	}

	d.Status = DraftLive
	d.armClock(now)

	return nil
}

// End forces the draft terminal regardless of picks taken.
func (d *DraftState) End() {
	d.Status = DraftDone
	d.Deadline = nil
}

// OnClock returns the username whose turn it is.
func (d DraftState) OnClock() (string, bool) {
	if d.Status != DraftLive || d.Pointer < 0 || d.Pointer >= len(d.Order) {
		return "", false
	}

	return d.Order[d.Pointer], true
}

// Complete reports whether every roster and bench spot has been filled.
func (d DraftState) Complete() bool {
	teams := len(d.Order)

	return teams > 0 && d.PicksTaken >= d.RoundsTotal*teams
}

// Expired reports whether the pick clock has run out.
func (d DraftState) Expired(now time.Time) bool {
	return d.Status == DraftLive && d.Deadline != nil && now.UnixMilli() >= *d.Deadline
}

// Advance records one successful pick and recomputes the snake position:
// round = picksTaken/teams + 1; odd rounds walk 0..N-1, even rounds N-1..0.
// The final pick flips the draft to done and clears the clock.
func (d *DraftState) Advance(now time.Time) {
	d.PicksTaken++

	teams := len(d.Order)
	if d.Complete() {
		d.Status = DraftDone
		d.Deadline = nil
		return
	}

	d.Round = d.PicksTaken/teams + 1
	offset := d.PicksTaken % teams
	if d.Round%2 == 1 {
		d.Direction = 1
		d.Pointer = offset
	} else {
		d.Direction = -1
		d.Pointer = teams - 1 - offset
	}
	d.armClock(now)
}

func (d *DraftState) armClock(now time.Time) {
	deadline := now.UnixMilli() + d.ClockMs
	d.Deadline = &deadline
}
