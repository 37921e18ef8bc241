package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpi/gridiron/internal/domain/schedule"
)

type scheduleKey struct {
	leagueID string
	week     int
}

type ScheduleRepository struct {
	mu    sync.RWMutex
	items map[scheduleKey]schedule.Week
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{items: make(map[scheduleKey]schedule.Week)}
}

func (r *ScheduleRepository) SaveAll(_ context.Context, weeks []schedule.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range weeks {
		r.items[scheduleKey{leagueID: w.LeagueID, week: w.Week}] = w
	}

	return nil
}

func (r *ScheduleRepository) GetWeek(_ context.Context, leagueID string, week int) (schedule.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.items[scheduleKey{leagueID: leagueID, week: week}]
	if !ok {
		return schedule.Week{}, false, nil
	}

	return w, true, nil
}

func (r *ScheduleRepository) ListByLeague(_ context.Context, leagueID string) ([]schedule.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Week, 0)
	for key, w := range r.items {
		if key.leagueID == leagueID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })

	return out, nil
}

func (r *ScheduleRepository) DeleteByLeague(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if key.leagueID == leagueID {
			delete(r.items, key)
		}
	}

	return nil
}
