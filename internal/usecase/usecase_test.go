package usecase_test

import (
	"log/slog"

	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/infrastructure/repository/memory"
	"github.com/gridironpi/gridiron/internal/platform/id"
	"github.com/gridironpi/gridiron/internal/usecase"
)

// fixture wires every service against the in-memory repositories so tests
// exercise the same transaction boundaries production does.
type fixture struct {
	leagues   *memory.LeagueRepository
	teams     *memory.TeamRepository
	claims    *memory.ClaimRepository
	players   *memory.PlayerRepository
	schedules *memory.ScheduleRepository

	leagueSvc   *usecase.LeagueService
	draftSvc    *usecase.DraftService
	rosterSvc   *usecase.RosterService
	scheduleSvc *usecase.ScheduleService
	scoringSvc  *usecase.ScoringService
	treasurySvc *usecase.TreasuryService
}

func newFixture(players []player.Player, sender usecase.PayoutSender, stats usecase.StatProvider) *fixture {
	logger := slog.New(slog.DiscardHandler)

	leagues := memory.NewLeagueRepository(nil)
	teams := memory.NewTeamRepository()
	claims := memory.NewClaimRepository()
	playerRepo := memory.NewPlayerRepository(players)
	schedules := memory.NewScheduleRepository()
	tx := memory.NewTxRunner(leagues, teams, claims)
	idGen := id.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(leagues, teams, playerRepo, stats, 2025, logger)

	return &fixture{
		leagues:     leagues,
		teams:       teams,
		claims:      claims,
		players:     playerRepo,
		schedules:   schedules,
		leagueSvc:   usecase.NewLeagueService(leagues, teams, schedules, scoringSvc, idGen, logger),
		draftSvc:    usecase.NewDraftService(tx, playerRepo, logger),
		rosterSvc:   usecase.NewRosterService(tx, playerRepo, teams, claims, logger),
		scheduleSvc: usecase.NewScheduleService(leagues, schedules, logger),
		scoringSvc:  scoringSvc,
		treasurySvc: usecase.NewTreasuryService(tx, leagues, sender, idGen, logger),
	}
}

func testPlayers() []player.Player {
	return []player.Player{
		{ID: "espn-1", Name: "Josh Allen", Position: player.PositionQB, Team: "BUF", ESPNID: "1", Projections: map[string]float64{"1": 24.0}},
		{ID: "espn-2", Name: "Bijan Robinson", Position: player.PositionRB, Team: "ATL", ESPNID: "2", Projections: map[string]float64{"1": 18.5}},
		{ID: "espn-3", Name: "CeeDee Lamb", Position: player.PositionWR, Team: "DAL", ESPNID: "3", Projections: map[string]float64{"1": 17.2}},
		{ID: "espn-4", Name: "Sam LaPorta", Position: player.PositionTE, Team: "DET", ESPNID: "4", Projections: map[string]float64{"1": 11.0}},
		{ID: "espn-5", Name: "Jahmyr Gibbs", Position: player.PositionRB, Team: "DET", ESPNID: "5", Projections: map[string]float64{"1": 16.0}},
	}
}
