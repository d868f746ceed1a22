package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ErrNoTransfers is returned when the explorer has no token transfers
// recorded for an address yet (HTTP 404). Callers polling for arrival treat
// it as "nothing found this tick", not as a failure.
var ErrNoTransfers = errors.New("no token transfers recorded for address")

// Client queries a Blockscout v2 instance for incoming bridged-token
// transfers. Transfers are filtered to mints (sender = zero address) of the
// configured token contract.
type Client struct {
	baseURL      string
	tokenAddress string
	httpClient   *http.Client
}

// NewClient creates an explorer client. baseURL is the API root, e.g.
// "https://explorer.testnet.xrplevm.org/api/v2".
func NewClient(baseURL, tokenAddress string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenAddress: tokenAddress,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TokenTransfer is one ERC-20 transfer record as reported by Blockscout.
type TokenTransfer struct {
	To struct {
		Hash string `json:"hash"`
	} `json:"to"`
	Total struct {
		Value    string      `json:"value"`
		Decimals json.Number `json:"decimals"`
	} `json:"total"`
	Timestamp       time.Time `json:"timestamp"`
	TransactionHash string    `json:"transaction_hash"`
}

// Amount decodes the transfer value into token units (raw value / 10^decimals).
func (t *TokenTransfer) Amount() (decimal.Decimal, error) {
	raw, err := decimal.NewFromString(t.Total.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid transfer value %q: %w", t.Total.Value, err)
	}
	decimals := int64(18)
	if t.Total.Decimals != "" {
		decimals, err = t.Total.Decimals.Int64()
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid transfer decimals %q: %w", t.Total.Decimals, err)
		}
	}
	return raw.Shift(int32(-decimals)), nil
}

type transfersResponse struct {
	Items []TokenTransfer `json:"items"`
}

// IncomingTransfers lists bridged-token mints to the given address, newest
// first (explorer ordering is preserved).
func (c *Client) IncomingTransfers(ctx context.Context, address string) ([]TokenTransfer, error) {
	query := url.Values{}
	query.Set("type", "ERC-20")
	query.Set("filter", fmt.Sprintf("%s | %s", address, common.Address{}.Hex()))
	query.Set("token", c.tokenAddress)

	endpoint := fmt.Sprintf("%s/addresses/%s/token-transfers?%s", c.baseURL, address, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build explorer request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoTransfers
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("explorer returned status %d: %s", resp.StatusCode, string(body))
	}

	var tr transfersResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode explorer response: %w", err)
	}
	return tr.Items, nil
}
