package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"xrpl-evm-faucet/config"
	"xrpl-evm-faucet/pkg/explorer"
	"xrpl-evm-faucet/pkg/types"
)

// ArrivalQuery identifies one bridge transfer to watch for on the
// destination chain. SourceTxHash is carried for log correlation only; the
// explorer exposes no linkage between source and destination transactions.
type ArrivalQuery struct {
	Destination     string
	SourceTxHash    string
	SourceCloseTime time.Time
}

// Poller watches the destination explorer for the bridged funds.
//
// Correlation is heuristic: recipient address, amount within tolerance of
// the expected dispensed amount, and a timestamp after the source close
// time. Concurrent funding requests to the same destination address are not
// distinguishable under this scheme and must be serialized by the caller.
//
// Ticks run strictly sequentially: a tick completes (or is cancelled) before
// the next one is taken from the ticker, so a slow explorer response can
// never cause overlapping queries.
type Poller struct {
	explorer    *explorer.Client
	interval    time.Duration
	maxAttempts int
	expected    decimal.Decimal
	tolerance   decimal.Decimal
	log         *zap.Logger
}

// NewPoller wires a Poller for the selected network.
func NewPoller(cfg *config.Config, network types.Network) (*Poller, error) {
	profile, err := cfg.Profile(network)
	if err != nil {
		return nil, err
	}
	return &Poller{
		explorer:    explorer.NewClient(profile.ExplorerBase, profile.TokenAddress),
		interval:    cfg.PollInterval,
		maxAttempts: cfg.MaxPollAttempts,
		expected:    cfg.ExpectedAmount,
		tolerance:   cfg.AmountTolerance,
		log:         zap.L(),
	}, nil
}

// Await polls until the transfer arrives, an unrecoverable explorer error
// occurs, or the attempt budget runs out. An explorer 404 means no transfers
// are indexed yet and keeps the session Pending; any other failure is
// terminal. Cancelling the context aborts the in-flight request and returns
// the context error.
func (p *Poller) Await(ctx context.Context, q ArrivalQuery) (*types.ArrivalResult, error) {
	log := p.log.With(
		zap.String("destination", q.Destination),
		zap.String("source_tx_hash", q.SourceTxHash))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		items, err := p.explorer.IncomingTransfers(ctx, q.Destination)
		if err != nil {
			if errors.Is(err, explorer.ErrNoTransfers) {
				continue
			}
			log.Warn("Explorer query failed", zap.Int("attempt", attempt), zap.Error(err))
			return &types.ArrivalResult{Status: types.StatusFailed, Attempts: attempt}, err
		}

		if match := p.matchTransfer(items, q); match != nil {
			bridgingTime := match.Timestamp.Sub(q.SourceCloseTime)
			log.Info("Bridged funds arrived",
				zap.String("destination_tx_hash", match.TransactionHash),
				zap.Duration("bridging_time", bridgingTime),
				zap.Int("attempt", attempt))
			return &types.ArrivalResult{
				Status:            types.StatusArrived,
				DestinationTxHash: match.TransactionHash,
				BridgingTime:      bridgingTime,
				Attempts:          attempt,
			}, nil
		}
	}

	log.Warn("No matching transfer within attempt budget", zap.Int("attempts", p.maxAttempts))
	return &types.ArrivalResult{Status: types.StatusTimeout, Attempts: p.maxAttempts}, nil
}

// matchTransfer returns the first record that passes all three filters, in
// explorer order. Records with undecodable amounts are skipped, matching how
// unrelated token transfers to the same address are treated.
func (p *Poller) matchTransfer(items []explorer.TokenTransfer, q ArrivalQuery) *explorer.TokenTransfer {
	for idx := range items {
		item := &items[idx]
		if !strings.EqualFold(item.To.Hash, q.Destination) {
			continue
		}
		amount, err := item.Amount()
		if err != nil {
			p.log.Debug("Skipping transfer with undecodable amount",
				zap.String("tx_hash", item.TransactionHash), zap.Error(err))
			continue
		}
		if amount.Sub(p.expected).Abs().Cmp(p.tolerance) > 0 {
			continue
		}
		// Only transfers after the source close time count; anything earlier
		// is a stale or unrelated transfer to the same address.
		if !item.Timestamp.After(q.SourceCloseTime) {
			continue
		}
		return item
	}
	return nil
}
