package espn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/usecase"
)

const newsFetchLimit = 50

// PlayerNews filters the league-wide headline feed down to items mentioning
// the player by name. The feed is public and unauthenticated.
func (c *Client) PlayerNews(ctx context.Context, playerName string) ([]usecase.NewsItem, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, fmt.Errorf("player name is required")
	}

	query := map[string]string{"limit": fmt.Sprintf("%d", newsFetchLimit)}
	var payload map[string]any
	if err := c.doJSON(ctx, "/news", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn news: %w", err)
	}

	needle := strings.ToLower(name)
	items := make([]usecase.NewsItem, 0, 10)
	for _, article := range getSlice(payload, "articles") {
		headline := getString(article, "headline")
		description := getString(article, "description")
		if !strings.Contains(strings.ToLower(headline), needle) &&
			!strings.Contains(strings.ToLower(description), needle) {
			continue
		}

		link := getString(getMap(getMap(article, "links"), "web"), "href")
		publishedAt, _ := time.Parse(time.RFC3339, getString(article, "published"))
		items = append(items, usecase.NewsItem{
			Title:       headline,
			URL:         link,
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}
