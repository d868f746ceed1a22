package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"xrpl-evm-faucet/pkg/types"
)

// Full testnet scenario: the faucet grants 100 XRP, the issuer forwards
// 90.00589, and the explorer later reports a mint within tolerance of the
// expected dispensed amount, timestamped after the source close time.
func TestFundAndAwaitArrival(t *testing.T) {
	destination := "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01"
	closeTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	faucetSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount": 100}`))
	}))
	defer faucetSrv.Close()

	client := &mockLedgerClient{hash: "SOURCETXHASH", closeTime: closeTime}
	issuer, _ := newTestIssuer(t, faucetSrv.URL, client)

	receipt, err := issuer.Issue(context.Background(), destination)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if want := decimal.RequireFromString("90.00589"); !receipt.ForwardedAmount.Equal(want) {
		t.Fatalf("ForwardedAmount = %s, want %s", receipt.ForwardedAmount, want)
	}

	explorerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, itemsResponse(
			transferJSON(destination, "88305890000000000000", closeTime.Add(42*time.Second), "0xdesthash"),
		))
	}))
	defer explorerSrv.Close()

	poller := newTestPoller(explorerSrv.URL, 10)
	result, err := poller.Await(context.Background(), ArrivalQuery{
		Destination:     receipt.Destination,
		SourceTxHash:    receipt.SourceTxHash,
		SourceCloseTime: receipt.SourceCloseTime,
	})
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}

	if result.Status != types.StatusArrived {
		t.Fatalf("Status = %s, want Arrived", result.Status)
	}
	if result.DestinationTxHash == "" {
		t.Error("DestinationTxHash is empty")
	}
	if result.BridgingTime != 42*time.Second {
		t.Errorf("BridgingTime = %v, want 42s", result.BridgingTime)
	}
}
