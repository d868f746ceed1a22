package ledger

import (
	"time"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"
)

// Client is the narrow slice of an XRPL node connection the bridge needs:
// connect, fill in sequence/fee/last-ledger, submit, wait for validation.
type Client interface {
	Connect() error
	Disconnect() error
	Autofill(tx *transaction.FlatTransaction) error
	// SubmitAndWait submits a signed blob and blocks until the transaction
	// is validated, returning its hash and ledger close time.
	SubmitAndWait(blob string) (hash string, closeTime time.Time, err error)
}

// Wallet signs transactions for a single XRPL account. Implementations hold
// key material; the bridge only ever uses freshly generated throwaway keys.
type Wallet interface {
	Address() string
	Sign(tx transaction.FlatTransaction) (blob string, hash string, err error)
}

// Dialer opens a Client for a websocket endpoint. It exists so the issuer
// can be exercised in tests without a live node.
type Dialer func(websocketURL string) Client
