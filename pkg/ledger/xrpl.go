package ledger

import (
	"fmt"
	"time"

	"github.com/Peersyst/xrpl-go/pkg/crypto"
	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	"github.com/Peersyst/xrpl-go/xrpl/wallet"
	"github.com/Peersyst/xrpl-go/xrpl/websocket"
)

// rippleEpoch is the XRPL epoch (2000-01-01T00:00:00Z) as a Unix timestamp.
// Validated transactions report their ledger close time in seconds since it.
const rippleEpoch = 946684800

// NewEphemeralWallet generates a single-use ed25519 keypair. The key never
// leaves the process and is dropped once the funding request completes.
func NewEphemeralWallet() (Wallet, error) {
	w, err := wallet.New(crypto.ED25519())
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet: %w", err)
	}
	return &xrplWallet{w: &w}, nil
}

type xrplWallet struct {
	w *wallet.Wallet
}

func (x *xrplWallet) Address() string {
	return string(x.w.GetAddress())
}

func (x *xrplWallet) Sign(tx transaction.FlatTransaction) (string, string, error) {
	return x.w.Sign(tx)
}

// Dial creates a websocket Client for an XRPL node endpoint.
func Dial(websocketURL string) Client {
	return &websocketClient{
		c: websocket.NewClient(websocket.NewClientConfig().WithHost(websocketURL)),
	}
}

type websocketClient struct {
	c *websocket.Client
}

func (w *websocketClient) Connect() error {
	return w.c.Connect()
}

func (w *websocketClient) Disconnect() error {
	return w.c.Disconnect()
}

func (w *websocketClient) Autofill(tx *transaction.FlatTransaction) error {
	return w.c.Autofill(tx)
}

func (w *websocketClient) SubmitAndWait(blob string) (string, time.Time, error) {
	res, err := w.c.SubmitTxBlobAndWait(blob, false)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("submit failed: %w", err)
	}
	return string(res.Hash), closeTimeFromRippleSeconds(int64(res.Date)), nil
}

// closeTimeFromRippleSeconds converts a ledger close time in seconds since
// the XRPL epoch to wall-clock time.
func closeTimeFromRippleSeconds(secs int64) time.Time {
	return time.Unix(rippleEpoch+secs, 0).UTC()
}
