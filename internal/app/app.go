package app

import (
	"net/http"
	"time"

	"github.com/gridironpi/gridiron/external/espn"
	"github.com/gridironpi/gridiron/external/jobqueue"
	"github.com/gridironpi/gridiron/external/pinetwork"
	"github.com/gridironpi/gridiron/external/sleeper"
	"github.com/gridironpi/gridiron/internal/config"
	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/domain/schedule"
	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/infrastructure/repository/memory"
	"github.com/gridironpi/gridiron/internal/infrastructure/repository/postgres"
	"github.com/gridironpi/gridiron/internal/interfaces/httpapi"
	"github.com/gridironpi/gridiron/internal/platform/cache"
	"github.com/gridironpi/gridiron/internal/platform/id"
	"github.com/gridironpi/gridiron/internal/platform/logging"
	"github.com/gridironpi/gridiron/internal/platform/resilience"
	"github.com/gridironpi/gridiron/internal/usecase"
)

// App holds the wired HTTP server and the resources it owns.
type App struct {
	Server *http.Server

	cleanups []func() error
}

type storage struct {
	leagueRepo   league.Repository
	playerRepo   player.Repository
	teamRepo     team.Repository
	claimRepo    claim.Repository
	scheduleRepo schedule.Repository
	txRunner     usecase.TxRunner
	close        func() error
}

// New wires repositories, providers and services into a ready HTTP server.
func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	slogger := logger.Slog()

	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	breakerCfg := resilience.CircuitBreakerConfig{
		Enabled:          cfg.ProviderCircuitEnabled,
		FailureThreshold: cfg.ProviderCircuitFailureCount,
		OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
	}

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:        cfg.SleeperBaseURL,
		Timeout:        cfg.SleeperTimeout,
		MaxRetries:     cfg.SleeperMaxRetries,
		Logger:         logger.With("component", "sleeper"),
		CircuitBreaker: breakerCfg,
	})
	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL:        cfg.ESPNBaseURL,
		Timeout:        cfg.ESPNTimeout,
		MaxRetries:     cfg.ESPNMaxRetries,
		Logger:         logger.With("component", "espn"),
		CircuitBreaker: breakerCfg,
	})
	piClient := pinetwork.NewClient(pinetwork.ClientConfig{
		BaseURL:    cfg.PiBaseURL,
		APIKey:     cfg.PiAPIKey,
		Timeout:    cfg.PiTimeout,
		MaxRetries: cfg.PiMaxRetries,
		Logger:     logger.With("component", "pinetwork"),
	})

	idGen := id.NewRandomGenerator()

	scoringService := usecase.NewScoringService(
		store.leagueRepo, store.teamRepo, store.playerRepo, espnClient, cfg.Season, slogger,
	)
	leagueService := usecase.NewLeagueService(
		store.leagueRepo, store.teamRepo, store.scheduleRepo, scoringService, idGen, slogger,
	)
	draftService := usecase.NewDraftService(store.txRunner, store.playerRepo, slogger)
	rosterService := usecase.NewRosterService(
		store.txRunner, store.playerRepo, store.teamRepo, store.claimRepo, slogger,
	)
	scheduleService := usecase.NewScheduleService(store.leagueRepo, store.scheduleRepo, slogger)
	treasuryService := usecase.NewTreasuryService(
		store.txRunner, store.leagueRepo, piClient, idGen, slogger,
	)
	playerService := usecase.NewPlayerService(store.playerRepo)
	newsService := usecase.NewNewsService(espnClient, cache.NewStore(cfg.NewsCacheTTL), slogger)
	ingestionService := usecase.NewIngestionService(
		store.playerRepo, sleeperClient, espnClient, treasuryService,
		cfg.Season, cfg.IngestionWorkers, logger.With("component", "ingestion"),
	)

	var jobPublisher httpapi.JobPublisher
	if cfg.QStashEnabled {
		jobPublisher = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
		}, logger.With("component", "qstash"))
	}

	handler := httpapi.NewHandler(
		leagueService,
		draftService,
		rosterService,
		scheduleService,
		scoringService,
		treasuryService,
		playerService,
		newsService,
		ingestionService,
		jobPublisher,
		slogger,
	)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app := &App{
		Server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	if store.close != nil {
		app.cleanups = append(app.cleanups, store.close)
	}

	return app, nil
}

// Close releases resources owned by the app, most recently acquired first.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func newStorage(cfg config.Config, logger *logging.Logger) (storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return storage{}, err
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "database", dbNameFromURL(cfg.DBURL))

		return storage{
			leagueRepo:   postgres.NewLeagueRepository(db),
			playerRepo:   postgres.NewPlayerRepository(db),
			teamRepo:     postgres.NewTeamRepository(db),
			claimRepo:    postgres.NewClaimRepository(db),
			scheduleRepo: postgres.NewScheduleRepository(db),
			txRunner:     postgres.NewTxRunner(db),
			close:        db.Close,
		}, nil
	default:
		leagues := memory.NewLeagueRepository(nil)
		teams := memory.NewTeamRepository()
		claims := memory.NewClaimRepository()
		logger.Info("storage ready", "driver", config.StorageMemory)

		return storage{
			leagueRepo:   leagues,
			playerRepo:   memory.NewPlayerRepository(memory.SeedPlayers()),
			teamRepo:     teams,
			claimRepo:    claims,
			scheduleRepo: memory.NewScheduleRepository(),
			txRunner:     memory.NewTxRunner(leagues, teams, claims),
			close:        nil,
		}, nil
	}
}
