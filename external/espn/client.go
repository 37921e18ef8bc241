package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironpi/gridiron/internal/platform/logging"
	"github.com/gridironpi/gridiron/internal/platform/resilience"
	"github.com/gridironpi/gridiron/internal/usecase"
)

const (
	defaultBaseURL    = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	maxResponseBytes  = 8 << 20
	defaultSeasonType = 2
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client wraps the public ESPN site feeds. Responses are schemaless and
// probed defensively; missing fields degrade to empty values rather than
// errors.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// TeamIDs lists the pro team ids from the teams feed.
func (c *Client) TeamIDs(ctx context.Context) ([]string, error) {
	var payload map[string]any
	if err := c.doJSON(ctx, "/teams", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn teams: %w", err)
	}

	ids := make([]string, 0, 32)
	for _, sport := range getSlice(payload, "sports") {
		for _, leagueItem := range getSlice(sport, "leagues") {
			for _, teamItem := range getSlice(leagueItem, "teams") {
				teamObj := getMap(teamItem, "team")
				if id := getString(teamObj, "id"); id != "" {
					ids = append(ids, id)
				}
			}
		}
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("espn teams feed returned no team ids")
	}

	return ids, nil
}

// TeamRoster flattens one team's grouped roster feed into loose player
// records, stamping each with the team abbreviation.
func (c *Client) TeamRoster(ctx context.Context, teamID string) ([]map[string]any, error) {
	var payload map[string]any
	if err := c.doJSON(ctx, "/teams/"+url.PathEscape(teamID)+"/roster", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn roster team_id=%s: %w", teamID, err)
	}

	teamAbbrev := getString(getMap(payload, "team"), "abbreviation")
	records := make([]map[string]any, 0, 64)
	for _, group := range getSlice(payload, "athletes") {
		for _, item := range getSlice(group, "items") {
			record, ok := item.(map[string]any)
			if !ok || record == nil {
				continue
			}
			if teamAbbrev != "" {
				if _, exists := record["team"]; !exists {
					record["team"] = teamAbbrev
				}
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// WeekProjections fetches the weekly projection feed as loose records for
// the identity resolver.
func (c *Client) WeekProjections(ctx context.Context, week, season int) ([]map[string]any, error) {
	query := map[string]string{
		"week":       strconv.Itoa(week),
		"season":     strconv.Itoa(season),
		"seasontype": strconv.Itoa(defaultSeasonType),
	}

	var payload map[string]any
	if err := c.doJSON(ctx, "/projections", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn projections week=%d: %w", week, err)
	}

	records := make([]map[string]any, 0, 256)
	for _, item := range getSlice(payload, "athletes") {
		record, ok := item.(map[string]any)
		if !ok || record == nil {
			continue
		}
		if _, exists := record["week"]; !exists {
			record["week"] = week
		}
		records = append(records, record)
	}

	return records, nil
}

// Scoreboard lists the week's pro matchups as home/away abbreviation pairs.
func (c *Client) Scoreboard(ctx context.Context, week, season int) ([]usecase.ProGame, error) {
	query := map[string]string{
		"week":       strconv.Itoa(week),
		"seasontype": strconv.Itoa(defaultSeasonType),
	}
	if season > 0 {
		query["dates"] = strconv.Itoa(season)
	}

	var payload map[string]any
	if err := c.doJSON(ctx, "/scoreboard", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch espn scoreboard week=%d: %w", week, err)
	}

	games := make([]usecase.ProGame, 0, 16)
	for _, event := range getSlice(payload, "events") {
		competitions := getSlice(event, "competitions")
		if len(competitions) == 0 {
			continue
		}

		var home, away string
		for _, competitor := range getSlice(competitions[0], "competitors") {
			abbrev := getString(getMap(competitor, "team"), "abbreviation")
			if abbrev == "" {
				continue
			}
			switch getString(competitor, "homeAway") {
			case "home":
				home = abbrev
			case "away":
				away = abbrev
			}
		}
		if home != "" && away != "" {
			games = append(games, usecase.ProGame{Home: home, Away: away})
		}
	}

	return games, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: pro data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode espn payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d", errESPNTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
