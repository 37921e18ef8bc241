package league

// Rules stores the fixed per-league constants that used to be scattered as
// globals: rake, bench size, pick clock and payout policy. They are set once
// at league creation and travel with the aggregate.
type Rules struct {
	RakeBps       int   `json:"rakeBps"`
	BenchSize     int   `json:"benchSize"`
	PickClockMs   int64 `json:"pickClockMs"`
	SeasonWeeks   int   `json:"seasonWeeks"`
	WinnersCount  int   `json:"winnersCount"`
	StartingSlots int   `json:"startingSlots"`
}

func DefaultRules() Rules {
	return Rules{
		RakeBps:       200,
		BenchSize:     3,
		PickClockMs:   60_000,
		SeasonWeeks:   18,
		WinnersCount:  1,
		StartingSlots: 9,
	}
}

// RoundsTotal is always derived from the slot count plus bench size; there is
// deliberately no separate total-rounds constant to drift out of sync.
func (r Rules) RoundsTotal() int {
	return r.StartingSlots + r.BenchSize
}
