package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Client requests test XRP from a network faucet.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a faucet client for the given endpoint.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type fundRequest struct {
	Destination string `json:"destination"`
}

type fundResponse struct {
	Amount json.Number `json:"amount"`
}

// Fund asks the faucet to send test XRP to the destination address and
// returns the granted amount in XRP.
func (c *Client) Fund(ctx context.Context, destination string) (decimal.Decimal, error) {
	body, err := json.Marshal(fundRequest{Destination: destination})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to encode faucet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build faucet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("faucet request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read faucet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("faucet returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var fr fundResponse
	if err := json.Unmarshal(respBody, &fr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode faucet response: %w", err)
	}
	if fr.Amount == "" {
		return decimal.Zero, fmt.Errorf("faucet response has no amount field: %s", string(respBody))
	}

	amount, err := decimal.NewFromString(fr.Amount.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid faucet amount %q: %w", fr.Amount, err)
	}
	return amount, nil
}
