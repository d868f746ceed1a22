package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Network selects one of the XRPL environments the bridge operates on.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
)

// ParseNetwork normalizes a user-supplied network name.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case NetworkDevnet:
		return NetworkDevnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("unknown network %q (expected %q or %q)", s, NetworkDevnet, NetworkTestnet)
	}
}

// TxStatus tracks a bridge transfer on the destination chain. Pending is the
// only non-terminal state.
type TxStatus string

const (
	StatusPending TxStatus = "Pending"
	StatusArrived TxStatus = "Arrived"
	StatusTimeout TxStatus = "Timeout"
	StatusFailed  TxStatus = "Failed"
)

// Terminal reports whether a poll session can make further progress.
func (s TxStatus) Terminal() bool {
	return s != StatusPending
}

// BridgeReceipt is the Issuer's output: everything the caller (and the arrival
// poller) needs about a submitted source-chain bridge transaction.
type BridgeReceipt struct {
	RequestID        string
	Network          Network
	EphemeralAddress string
	Destination      string
	GrantedAmount    decimal.Decimal
	ForwardedAmount  decimal.Decimal
	SourceTxHash     string
	SourceCloseTime  time.Time
}

// ArrivalResult is the Poller's terminal report for one session.
type ArrivalResult struct {
	Status            TxStatus
	DestinationTxHash string
	BridgingTime      time.Duration
	Attempts          int
}
