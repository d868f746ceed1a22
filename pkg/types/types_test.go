package types

import "testing"

func TestParseNetwork(t *testing.T) {
	for input, want := range map[string]Network{
		"devnet":  NetworkDevnet,
		"testnet": NetworkTestnet,
		"Testnet": NetworkTestnet,
		" DEVNET": NetworkDevnet,
	} {
		got, err := ParseNetwork(input)
		if err != nil {
			t.Errorf("ParseNetwork(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseNetwork(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseNetwork("mainnet"); err == nil {
		t.Error("Expected error for unsupported network")
	}
}

func TestTxStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("Pending must be the sole non-terminal status")
	}
	for _, s := range []TxStatus{StatusArrived, StatusTimeout, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}
