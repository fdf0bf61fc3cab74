package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client fetches rates from a remote rate service that answers
// GET {baseURL}/{CODE} with {"currency": "USD", "rate": "17.25", "date": "2025-06-14"}.
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewClient creates a Client. The token, when set, is sent as "Authorization: Token <token>".
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type rateResponse struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Date     string          `json:"date,omitempty"`
}

func (c *Client) Fetch(ctx context.Context, currency string) (*Rate, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(strings.ToUpper(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Token "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrRateNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, endpoint)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding rate: %w", err)
	}

	observed := time.Now().UTC().Truncate(24 * time.Hour)

	if body.Date != "" {
		if t, err := time.Parse(time.DateOnly, body.Date); err == nil {
			observed = t
		}
	}

	code := strings.ToUpper(body.Currency)
	if code == "" {
		code = strings.ToUpper(currency)
	}

	return &Rate{Currency: code, Value: body.Rate, ObservedOn: observed}, nil
}
