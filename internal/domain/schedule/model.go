package schedule

import "context"

// Matchup pairs two league members for one week.
type Matchup struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Week is one week's matchup list for a league.
type Week struct {
	LeagueID string    `json:"leagueId"`
	Week     int       `json:"week"`
	Matchups []Matchup `json:"matchups"`
}

// Repository describes schedule persistence needs from use cases.
type Repository interface {
	SaveAll(ctx context.Context, weeks []Week) error
	GetWeek(ctx context.Context, leagueID string, week int) (Week, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Week, error)
	DeleteByLeague(ctx context.Context, leagueID string) error
}
