package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/platform/logging"
)

// Task is the ingestion task selector accepted by the internal dispatch
// endpoint.
type Task string

const (
	TaskRefresh     Task = "refresh"
	TaskProjections Task = "projections"
	TaskMatchups    Task = "matchups"
	TaskHeadshots   Task = "headshots"
	TaskDedupe      Task = "dedupe"
	TaskSettle      Task = "settle"
	TaskFullRefresh Task = "full-refresh"
)

// ParseTask validates a task selector coming off the wire.
func ParseTask(raw string) (Task, error) {
	task := Task(strings.ToLower(strings.TrimSpace(raw)))
	switch task {
	case TaskRefresh, TaskProjections, TaskMatchups, TaskHeadshots, TaskDedupe, TaskSettle, TaskFullRefresh:
		return task, nil
	default:
		return "", fmt.Errorf("%w: unknown task %q", ErrInvalidInput, raw)
	}
}

// TaskInput is one ingestion dispatch request.
type TaskInput struct {
	Task   Task
	Week   int
	Season int
}

// TaskSummary is the JSON result of one ingestion run.
type TaskSummary struct {
	OK         bool     `json:"ok"`
	Task       Task     `json:"task"`
	Week       int      `json:"week,omitempty"`
	Season     int      `json:"season,omitempty"`
	Fetched    int      `json:"fetched,omitempty"`
	Upserted   int      `json:"upserted,omitempty"`
	Merged     int      `json:"merged,omitempty"`
	Deleted    int      `json:"deleted,omitempty"`
	Settled    int      `json:"settled,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMs int64    `json:"durationMs"`
}

// CatalogProvider serves the bulk player catalog (name/team/position keyed by
// provider id). Record shapes are unstable and probed by the identity
// resolver.
type CatalogProvider interface {
	PlayerCatalog(ctx context.Context) ([]map[string]any, error)
}

// ProGame is one scheduled pro matchup from a scoreboard feed.
type ProGame struct {
	Home string
	Away string
}

// ProDataProvider serves per-team rosters, weekly projections and scoreboard
// pairings.
type ProDataProvider interface {
	TeamIDs(ctx context.Context) ([]string, error)
	TeamRoster(ctx context.Context, teamID string) ([]map[string]any, error)
	WeekProjections(ctx context.Context, week, season int) ([]map[string]any, error)
	Scoreboard(ctx context.Context, week, season int) ([]ProGame, error)
}

// IngestionService runs the scheduled data-refresh tasks: it pulls provider
// feeds, resolves identities and bulk-writes the canonical directory.
type IngestionService struct {
	playerRepo player.Repository
	catalog    CatalogProvider
	pro        ProDataProvider
	treasury   *TreasuryService
	season     int
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewIngestionService(
	playerRepo player.Repository,
	catalog CatalogProvider,
	pro ProDataProvider,
	treasury *TreasuryService,
	season int,
	workers int,
	logger *logging.Logger,
) *IngestionService {
	if workers <= 0 {
		workers = 8
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		playerRepo: playerRepo,
		catalog:    catalog,
		pro:        pro,
		treasury:   treasury,
		season:     season,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// RunTask dispatches one ingestion task and returns its summary. Upstream
// failures degrade to partial results with warnings; they never wipe data
// already stored.
func (s *IngestionService) RunTask(ctx context.Context, input TaskInput) (TaskSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.RunTask")
	defer span.End()

	start := s.now()
	if input.Season <= 0 {
		input.Season = s.season
	}
	if input.Week <= 0 {
		input.Week = 1
	}

	summary := TaskSummary{Task: input.Task, Week: input.Week, Season: input.Season}
	var err error
	switch input.Task {
	case TaskRefresh:
		err = s.runRefresh(ctx, &summary)
	case TaskProjections:
		err = s.runProjections(ctx, &summary, input.Week, input.Season)
	case TaskMatchups:
		err = s.runMatchups(ctx, &summary, input.Week, input.Season)
	case TaskHeadshots:
		err = s.runHeadshots(ctx, &summary)
	case TaskDedupe:
		err = s.runDedupe(ctx, &summary)
	case TaskSettle:
		err = s.runSettle(ctx, &summary)
	case TaskFullRefresh:
		err = s.runFullRefresh(ctx, &summary, input.Week, input.Season)
	default:
		return TaskSummary{}, fmt.Errorf("%w: unknown task %q", ErrInvalidInput, input.Task)
	}

	summary.DurationMs = time.Since(start).Milliseconds()
	summary.OK = err == nil
	if err != nil {
		return summary, err
	}

	s.logger.InfoContext(ctx, "ingestion task finished",
		"task", string(input.Task),
		"fetched", summary.Fetched,
		"upserted", summary.Upserted,
		"deleted", summary.Deleted,
		"warnings", len(summary.Warnings),
		"duration_ms", summary.DurationMs,
	)

	return summary, nil
}

// runRefresh pulls the bulk catalog plus every pro-team roster and upserts
// the merged canonical records.
func (s *IngestionService) runRefresh(ctx context.Context, summary *TaskSummary) error {
	now := s.now().UTC()
	incoming := make(map[string]player.Player)

	records, err := s.catalog.PlayerCatalog(ctx)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("player catalog: %v", err))
		s.logger.WarnContext(ctx, "player catalog fetch failed", "error", err)
	}
	summary.Fetched += len(records)
	s.foldRaw(incoming, records, now)

	rosters, warnings := s.fetchRosters(ctx)
	summary.Warnings = append(summary.Warnings, warnings...)
	for _, roster := range rosters {
		summary.Fetched += len(roster)
		s.foldRaw(incoming, roster, now)
	}

	if len(incoming) == 0 {
		// Nothing usable upstream; keep existing data untouched.
		return nil
	}

	merged, err := s.mergeIntoDirectory(ctx, incoming)
	if err != nil {
		return err
	}

	upserted, err := s.playerRepo.UpsertMany(ctx, merged)
	if err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	summary.Upserted = upserted

	return nil
}

// runProjections folds the week's projection feed into stored players.
func (s *IngestionService) runProjections(ctx context.Context, summary *TaskSummary, week, season int) error {
	records, err := s.pro.WeekProjections(ctx, week, season)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("week projections: %v", err))
		s.logger.WarnContext(ctx, "projection fetch failed", "week", week, "error", err)
		return nil
	}
	summary.Fetched = len(records)
	if len(records) == 0 {
		return nil
	}

	now := s.now().UTC()
	incoming := make(map[string]player.Player, len(records))
	s.foldRaw(incoming, records, now)

	merged, err := s.mergeIntoDirectory(ctx, incoming)
	if err != nil {
		return err
	}

	upserted, err := s.playerRepo.UpsertMany(ctx, merged)
	if err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	summary.Upserted = upserted

	return nil
}

// runMatchups maps the week's scoreboard onto every stored player's matchup
// map by pro team.
func (s *IngestionService) runMatchups(ctx context.Context, summary *TaskSummary, week, season int) error {
	games, err := s.pro.Scoreboard(ctx, week, season)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("scoreboard: %v", err))
		s.logger.WarnContext(ctx, "scoreboard fetch failed", "week", week, "error", err)
		return nil
	}
	summary.Fetched = len(games)
	if len(games) == 0 {
		return nil
	}

	opponents := make(map[string]string, len(games)*2)
	for _, game := range games {
		home := player.NormalizeTeam(game.Home)
		away := player.NormalizeTeam(game.Away)
		if home == "" || away == "" {
			continue
		}
		opponents[home] = away
		opponents[away] = home
	}

	stored, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}

	weekKey := player.WeekKey(week)
	now := s.now().UTC()
	changed := make([]player.Player, 0, len(stored))
	for _, p := range stored {
		opp, ok := opponents[p.Team]
		if !ok || p.Matchups[weekKey].Opp == opp {
			continue
		}
		p.Matchups = player.MergeMatchups(p.Matchups, map[string]player.Matchup{weekKey: {Opp: opp}})
		p.UpdatedAt = now
		changed = append(changed, p)
	}

	upserted, err := s.playerRepo.UpsertMany(ctx, changed)
	if err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	summary.Upserted = upserted

	return nil
}

// runHeadshots backfills photo URLs for players missing one, using the roster
// feeds.
func (s *IngestionService) runHeadshots(ctx context.Context, summary *TaskSummary) error {
	rosters, warnings := s.fetchRosters(ctx)
	summary.Warnings = append(summary.Warnings, warnings...)

	now := s.now().UTC()
	photos := make(map[string]string)
	for _, roster := range rosters {
		summary.Fetched += len(roster)
		for _, rec := range roster {
			p := player.FromRaw(rec, now)
			if p.PhotoURL != "" {
				photos[p.Key()] = p.PhotoURL
			}
		}
	}
	if len(photos) == 0 {
		return nil
	}

	stored, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}

	changed := make([]player.Player, 0)
	for _, p := range stored {
		if p.PhotoURL != "" {
			continue
		}
		photo, ok := photos[p.Key()]
		if !ok {
			continue
		}
		p.PhotoURL = photo
		p.UpdatedAt = now
		changed = append(changed, p)
	}

	upserted, err := s.playerRepo.UpsertMany(ctx, changed)
	if err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	summary.Upserted = upserted

	return nil
}

// runDedupe groups the directory by identity key, merges duplicate groups
// into the best survivor and deletes the losers. Re-running is a no-op.
func (s *IngestionService) runDedupe(ctx context.Context, summary *TaskSummary) error {
	stored, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	summary.Fetched = len(stored)

	groups := make(map[string][]player.Player)
	for _, p := range stored {
		key := p.Key()
		groups[key] = append(groups[key], p)
	}

	survivors := make([]player.Player, 0)
	losers := make([]string, 0)
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		best := group[0]
		for _, p := range group[1:] {
			if player.Better(p, best) {
				best = p
			}
		}
		merged := best
		for _, p := range group {
			if p.ID == best.ID {
				continue
			}
			merged = player.Merge(merged, p)
		}
		// The canonical doc id may differ from the survivor's current one
		// when an espn id is known; every other doc in the group is a loser.
		for _, p := range group {
			if p.ID != merged.ID {
				losers = append(losers, p.ID)
			}
		}
		survivors = append(survivors, merged)
		summary.Merged += len(group) - 1
	}

	if len(survivors) == 0 {
		return nil
	}

	upserted, err := s.playerRepo.UpsertMany(ctx, survivors)
	if err != nil {
		return fmt.Errorf("upsert merged players: %w", err)
	}
	summary.Upserted = upserted

	deleted, err := s.playerRepo.DeleteMany(ctx, losers)
	if err != nil {
		return fmt.Errorf("delete duplicate players: %w", err)
	}
	summary.Deleted = deleted

	return nil
}

func (s *IngestionService) runSettle(ctx context.Context, summary *TaskSummary) error {
	if s.treasury == nil {
		return fmt.Errorf("%w: treasury service is not configured", ErrDependencyUnavailable)
	}

	settled, err := s.treasury.SettleReadyLeagues(ctx)
	if err != nil {
		return err
	}
	summary.Settled = settled

	return nil
}

// runFullRefresh chains every data task; partial upstream failures roll up
// into the combined warnings list.
func (s *IngestionService) runFullRefresh(ctx context.Context, summary *TaskSummary, week, season int) error {
	steps := []func() error{
		func() error { return s.runRefresh(ctx, summary) },
		func() error { return s.runProjections(ctx, summary, week, season) },
		func() error { return s.runMatchups(ctx, summary, week, season) },
		func() error { return s.runHeadshots(ctx, summary) },
		func() error { return s.runDedupe(ctx, summary) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

// fetchRosters fans out one fetch per pro team on a bounded worker pool.
// Individual team failures become warnings, not errors.
func (s *IngestionService) fetchRosters(ctx context.Context) ([][]map[string]any, []string) {
	teamIDs, err := s.pro.TeamIDs(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "team list fetch failed", "error", err)
		return nil, []string{fmt.Sprintf("team list: %v", err)}
	}
	if len(teamIDs) == 0 {
		return nil, nil
	}

	workerCount := s.workers
	if workerCount > len(teamIDs) {
		workerCount = len(teamIDs)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, []string{fmt.Sprintf("create worker pool: %v", err)}
	}
	defer workerPool.Release()

	type rosterResult struct {
		teamID string
		roster []map[string]any
		err    error
	}

	results := make(chan rosterResult, len(teamIDs))
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, teamID := range teamIDs {
		teamID := teamID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			roster, err := s.pro.TeamRoster(ctx, teamID)
			if err != nil {
				failedCount.Add(1)
			}
			results <- rosterResult{teamID: teamID, roster: roster, err: err}
		}); err != nil {
			workers.Done()
			results <- rosterResult{teamID: teamID, err: err}
		}
	}

	workers.Wait()
	close(results)

	rosters := make([][]map[string]any, 0, len(teamIDs))
	warnings := make([]string, 0)
	for result := range results {
		if result.err != nil {
			warnings = append(warnings, fmt.Sprintf("roster %s: %v", result.teamID, result.err))
			continue
		}
		rosters = append(rosters, result.roster)
	}
	sort.Strings(warnings)

	if failed := failedCount.Load(); failed > 0 {
		s.logger.WarnContext(ctx, "partial roster fetch",
			"teams", len(teamIDs),
			"failed", int(failed),
		)
	}

	return rosters, warnings
}

// foldRaw resolves raw records to canonical players and merges same-identity
// records arriving in one batch. Non-fantasy positions are pruned here.
func (s *IngestionService) foldRaw(acc map[string]player.Player, records []map[string]any, now time.Time) {
	for _, rec := range records {
		p := player.FromRaw(rec, now)
		if p.Name == "" {
			continue
		}
		if _, ok := player.AllPositions[p.Position]; !ok {
			continue
		}

		key := p.Key()
		if existing, ok := acc[key]; ok {
			acc[key] = player.Merge(existing, p)
		} else {
			acc[key] = p
		}
	}
}

// mergeIntoDirectory folds a batch of incoming canonical players into the
// stored directory, concurrently resolving each against its stored
// counterpart.
func (s *IngestionService) mergeIntoDirectory(ctx context.Context, incoming map[string]player.Player) ([]player.Player, error) {
	stored, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	byKey := make(map[string]player.Player, len(stored))
	for _, p := range stored {
		byKey[p.Key()] = p
	}

	keys := make([]string, 0, len(incoming))
	for key := range incoming {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mergePool := pool.NewWithResults[player.Player]().WithMaxGoroutines(s.workers)
	for _, key := range keys {
		key := key
		mergePool.Go(func() player.Player {
			p := incoming[key]
			if existing, ok := byKey[key]; ok {
				return player.Merge(existing, p)
			}
			return p
		})
	}

	return mergePool.Wait(), nil
}
