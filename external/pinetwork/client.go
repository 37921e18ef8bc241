package pinetwork

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironpi/gridiron/internal/platform/logging"
	"github.com/gridironpi/gridiron/internal/usecase"
)

const defaultBaseURL = "https://api.minepi.com/v2"

var errPiTransient = crerr.New("pi network transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client disburses app-to-user Pi payments. Payout idempotency is enforced
// upstream by the treasury queue, so a duplicate call here is harmless but
// never expected.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	logger     *logging.Logger
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

type createPaymentRequest struct {
	Payment paymentBody `json:"payment"`
}

type paymentBody struct {
	Amount float64 `json:"amount"`
	Memo   string  `json:"memo"`
	UID    string  `json:"uid"`
}

type createPaymentResponse struct {
	Identifier  string `json:"identifier"`
	Transaction struct {
		TxID string `json:"txid"`
	} `json:"transaction"`
}

// SendPayment creates an app-to-user payment and returns the chain
// transaction id (or the payment identifier while the tx is still pending).
func (c *Client) SendPayment(ctx context.Context, username string, amountPi float64, memo string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: pi network api key is not configured", usecase.ErrDependencyUnavailable)
	}
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("payout username is required")
	}
	if amountPi <= 0 {
		return "", fmt.Errorf("payout amount must be greater than zero")
	}

	body, err := sonic.Marshal(createPaymentRequest{
		Payment: paymentBody{
			Amount: amountPi,
			Memo:   memo,
			UID:    strings.TrimSpace(username),
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payment request: %w", err)
	}

	raw, err := c.executeRequest(ctx, "/payments", body)
	if err != nil {
		return "", err
	}

	var resp createPaymentResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode payment response: %w", err)
	}

	txID := strings.TrimSpace(resp.Transaction.TxID)
	if txID == "" {
		txID = strings.TrimSpace(resp.Identifier)
	}
	if txID == "" {
		return "", fmt.Errorf("payment response carries no transaction id")
	}

	c.logger.InfoContext(ctx, "pi payment created", "username", username, "amount_pi", amountPi, "tx_id", txID)
	return txID, nil
}

func (c *Client) executeRequest(ctx context.Context, path string, body []byte) ([]byte, error) {
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Key "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPiTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errPiTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				lastErr = fmt.Errorf("%w: pi api status=%d", errPiTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("pi api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
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
		lastErr = fmt.Errorf("pi api request failed")
	}
	c.logger.WarnContext(ctx, "pi payment request failed", "error", lastErr)
	return nil, lastErr
}
