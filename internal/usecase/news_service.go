package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/platform/cache"
)

const maxNewsItems = 10

// NewsItem is one headline about a player.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// NewsProvider fetches a public headline feed for a player name.
type NewsProvider interface {
	PlayerNews(ctx context.Context, playerName string) ([]NewsItem, error)
}

type NewsService struct {
	provider NewsProvider
	store    *cache.Store
	logger   *slog.Logger
}

func NewNewsService(provider NewsProvider, store *cache.Store, logger *slog.Logger) *NewsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &NewsService{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// PlayerNews returns the top headlines for a player, cached for a short
// period. Provider failures degrade to an empty list.
func (s *NewsService) PlayerNews(ctx context.Context, playerName string) ([]NewsItem, error) {
	ctx, span := startUsecaseSpan(ctx, "NewsService.PlayerNews")
	defer span.End()

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return []NewsItem{}, nil
	}

	cacheKey := "news:" + strings.ToLower(playerName)
	value, err := s.store.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		items, err := s.provider.PlayerNews(ctx, playerName)
		if err != nil {
			s.logger.WarnContext(ctx, "news fetch failed", "player", playerName, "error", err)
			return []NewsItem{}, nil
		}
		if len(items) > maxNewsItems {
			items = items[:maxNewsItems]
		}
		return items, nil
	})
	if err != nil {
		return []NewsItem{}, nil
	}

	items, ok := value.([]NewsItem)
	if !ok {
		return []NewsItem{}, nil
	}

	return items, nil
}
