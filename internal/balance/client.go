package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"staffbot/core/logger"
)

// HistoryEntry is one balance movement.
type HistoryEntry struct {
	IsReplenishment bool        `json:"isReplenishment"`
	Value           json.Number `json:"value"`
	Date            string      `json:"date"`
	ParkObjectName  string      `json:"parkObjectName"`
}

// Result is the balance API response for a card.
type Result struct {
	Balance json.Number    `json:"Balance"`
	History []HistoryEntry `json:"BalanceHistory"`
}

// Client calls the card balance API. Every request is bounded by the
// configured timeout; expiry counts as a lookup failure.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

// NewClient builds a balance client. A nil httpClient falls back to a
// default client; a non-positive timeout defaults to ten seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		http:    httpClient,
	}
}

// Lookup fetches balance and history for a card number.
func (c *Client) Lookup(ctx context.Context, cardNumber string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("cardNumber", cardNumber)
	q.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "/Api/Card/GetBalanceAndHistory?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.SVCBalance.Error("balance lookup failed",
			slog.String("event", "lookup"),
			slog.String("card", cardNumber),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("balance lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.SVCBalance.Error("balance lookup rejected",
			slog.String("event", "lookup"),
			slog.String("card", cardNumber),
			slog.String("status", resp.Status),
		)
		return nil, fmt.Errorf("balance lookup: status %s", resp.Status)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("balance lookup: decode: %w", err)
	}

	logger.SVCBalance.Debug("balance lookup ok",
		slog.String("event", "lookup"),
		slog.String("card", cardNumber),
		slog.Int("history", len(result.History)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return &result, nil
}

// Format renders the lookup result as the Markdown text shown to staff.
func Format(cardNumber string, res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Номер карты**: `%s`\n", cardNumber)

	balance := "неизвестно"
	if res.Balance != "" {
		balance = res.Balance.String()
	}
	fmt.Fprintf(&b, "**Баланс**: `%s`\n\n", balance)

	if len(res.History) > 0 {
		b.WriteString("**История операций**:\n")
		for _, h := range res.History {
			sign := "-"
			if h.IsReplenishment {
				sign = "+"
			}
			value := "?"
			if h.Value != "" {
				value = h.Value.String()
			}
			date := h.Date
			if date == "" {
				date = "?"
			}
			fmt.Fprintf(&b, "%s %s%s %s\n", date, sign, value, h.ParkObjectName)
		}
	}
	return b.String()
}
