package league

import (
	"fmt"
	"time"
)

// Standing is one member's win/loss record within a league.
type Standing struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

// Settings holds per-league toggles mutated during the season.
type Settings struct {
	CurrentWeek        int  `json:"currentWeek"`
	LockAddDuringDraft bool `json:"lockAddDuringDraft"`
	SeasonEnded        bool `json:"seasonEnded"`
}

// EntryReceipt records one member's completed entry-fee payment.
type EntryReceipt struct {
	PaidAt time.Time `json:"paidAt"`
	TxID   string    `json:"txId"`
}

// Entry is the entry-fee configuration and collection state.
type Entry struct {
	Enabled  bool                    `json:"enabled"`
	AmountPi float64                 `json:"amountPi"`
	RakeBps  int                     `json:"rakeBps"`
	Paid     map[string]EntryReceipt `json:"paid,omitempty"`
}

// League is one fantasy competition instance.
type League struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Owner     string              `json:"owner"`
	Members   []string            `json:"members"`
	Standings map[string]Standing `json:"standings"`
	Settings  Settings            `json:"settings"`
	Entry     Entry               `json:"entry"`
	Treasury  Treasury            `json:"treasury"`
	Draft     DraftState          `json:"draft"`
	Rules     Rules               `json:"rules"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func (l League) ValidateBasic() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Owner == "" {
		return fmt.Errorf("league owner is required")
	}
	if !l.IsMember(l.Owner) {
		return fmt.Errorf("league owner must be a member")
	}

	return nil
}

func (l League) IsMember(username string) bool {
	for _, member := range l.Members {
		if member == username {
			return true
		}
	}

	return false
}

// AddMember joins a user, seeding an empty standing. Joining twice is a no-op.
func (l *League) AddMember(username string) bool {
	if l.IsMember(username) {
		return false
	}

	l.Members = append(l.Members, username)
	if l.Standings == nil {
		l.Standings = make(map[string]Standing)
	}
	if _, ok := l.Standings[username]; !ok {
		l.Standings[username] = Standing{}
	}

	return true
}
