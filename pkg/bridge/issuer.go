package bridge

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	txtypes "github.com/Peersyst/xrpl-go/xrpl/transaction/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"xrpl-evm-faucet/config"
	"xrpl-evm-faucet/pkg/faucet"
	"xrpl-evm-faucet/pkg/ledger"
	"xrpl-evm-faucet/pkg/types"
)

// ErrInsufficientGrant is returned when the faucet grant does not cover the
// account reserve plus the bridging fee. Forwarding anyway would submit a
// non-positive payment the ledger rejects.
var ErrInsufficientGrant = errors.New("faucet grant does not cover reserve and transfer fee")

// xrpPrecision is the XRP minimum-unit granularity: 1 drop = 1e-6 XRP.
const xrpPrecision = 6

// Issuer obtains test XRP from a faucet into a throwaway wallet and forwards
// it to the bridge gateway as a memo-tagged interchain transfer.
//
// Each Issue call is an independent, strictly sequential flow with its own
// ephemeral wallet. There is no retry and no idempotency: re-invoking always
// means a fresh wallet and a fresh faucet request.
type Issuer struct {
	network     types.Network
	profile     config.NetworkProfile
	faucet      *faucet.Client
	newWallet   func() (ledger.Wallet, error)
	dial        ledger.Dialer
	reserve     decimal.Decimal
	transferFee decimal.Decimal
	settleDelay time.Duration
	gasFeeDrops string
	log         *zap.Logger
}

// NewIssuer wires an Issuer for the selected network.
func NewIssuer(cfg *config.Config, network types.Network) (*Issuer, error) {
	profile, err := cfg.Profile(network)
	if err != nil {
		return nil, err
	}
	return &Issuer{
		network:     network,
		profile:     profile,
		faucet:      faucet.NewClient(profile.FaucetURL),
		newWallet:   ledger.NewEphemeralWallet,
		dial:        ledger.Dial,
		reserve:     cfg.Reserve,
		transferFee: cfg.TransferFee,
		settleDelay: cfg.SettleDelay,
		gasFeeDrops: cfg.GasFeeDrops,
		log:         zap.L(),
	}, nil
}

// Issue runs one funding request end to end and returns the receipt the
// arrival poller consumes. Errors from any step propagate unwrapped of any
// retry logic; the caller decides whether to re-trigger.
func (i *Issuer) Issue(ctx context.Context, destination string) (*types.BridgeReceipt, error) {
	if !strings.HasPrefix(destination, "0x") || !common.IsHexAddress(destination) {
		return nil, fmt.Errorf("invalid destination address %q", destination)
	}

	requestID := uuid.New().String()
	log := i.log.With(zap.String("request_id", requestID), zap.String("network", string(i.network)))

	wallet, err := i.newWallet()
	if err != nil {
		return nil, err
	}
	log.Info("Generated ephemeral wallet", zap.String("address", wallet.Address()))

	granted, err := i.faucet.Fund(ctx, wallet.Address())
	if err != nil {
		return nil, err
	}
	log.Info("Faucet granted funds", zap.String("amount", granted.String()))

	forwardable, err := i.forwardableAmount(granted)
	if err != nil {
		return nil, err
	}

	// The faucet's own funding transaction needs a moment to settle before
	// the granted balance is spendable.
	select {
	case <-time.After(i.settleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	payment := buildBridgePayment(wallet.Address(), i.profile, destination, forwardable, i.gasFeeDrops)

	client := i.dial(i.profile.WebsocketURL)
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to ledger: %w", err)
	}
	defer client.Disconnect()

	flat := payment.Flatten()
	if err := client.Autofill(&flat); err != nil {
		return nil, fmt.Errorf("failed to autofill transaction: %w", err)
	}

	blob, _, err := wallet.Sign(flat)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	hash, closeTime, err := client.SubmitAndWait(blob)
	if err != nil {
		return nil, err
	}
	log.Info("Bridge transfer submitted",
		zap.String("source_tx_hash", hash),
		zap.String("forwarded", forwardable.String()),
		zap.Time("close_time", closeTime))

	return &types.BridgeReceipt{
		RequestID:        requestID,
		Network:          i.network,
		EphemeralAddress: wallet.Address(),
		Destination:      destination,
		GrantedAmount:    granted,
		ForwardedAmount:  forwardable,
		SourceTxHash:     hash,
		SourceCloseTime:  closeTime,
	}, nil
}

// forwardableAmount computes granted − reserve − transferFee rounded to drop
// precision, failing fast when the grant cannot cover the deductions.
func (i *Issuer) forwardableAmount(granted decimal.Decimal) (decimal.Decimal, error) {
	required := i.reserve.Add(i.transferFee)
	if granted.Cmp(required) <= 0 {
		return decimal.Zero, fmt.Errorf("%w: granted %s, need more than %s",
			ErrInsufficientGrant, granted.String(), required.String())
	}
	return granted.Sub(required).Round(xrpPrecision), nil
}

// buildBridgePayment assembles the memo-tagged payment the bridge relayer
// recognizes as an interchain transfer. Memo order and uppercase hex
// encoding are part of the relayer's schema and must not change.
func buildBridgePayment(origin string, profile config.NetworkProfile, destination string, amount decimal.Decimal, gasFeeDrops string) *transaction.Payment {
	return &transaction.Payment{
		BaseTx: transaction.BaseTx{
			Account: txtypes.Address(origin),
			Memos: []txtypes.MemoWrapper{
				memoEntry("type", "interchain_transfer"),
				memoEntry("destination_address", strings.TrimPrefix(destination, "0x")),
				memoEntry("destination_chain", profile.BridgeNetwork),
				memoEntry("gas_fee_amount", gasFeeDrops),
			},
		},
		Destination: txtypes.Address(profile.BridgeGateway),
		Amount:      txtypes.XRPCurrencyAmount(xrpToDrops(amount)),
	}
}

func memoEntry(memoType, memoData string) txtypes.MemoWrapper {
	return txtypes.MemoWrapper{
		Memo: txtypes.Memo{
			MemoType: memoHex(memoType),
			MemoData: memoHex(memoData),
		},
	}
}

func memoHex(s string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(s)))
}

func xrpToDrops(amount decimal.Decimal) uint64 {
	return uint64(amount.Shift(xrpPrecision).IntPart())
}
