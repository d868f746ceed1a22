package config

import (
	"testing"

	"xrpl-evm-faucet/pkg/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Reserve.IsZero() || cfg.TransferFee.IsZero() {
		t.Error("Reserve and transfer fee must have non-zero defaults")
	}
	if cfg.MaxPollAttempts <= 0 {
		t.Errorf("MaxPollAttempts = %d, want > 0", cfg.MaxPollAttempts)
	}
	if cfg.PollInterval <= 0 {
		t.Errorf("PollInterval = %v, want > 0", cfg.PollInterval)
	}
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, err := Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != cfg {
		t.Error("Get must return the already-loaded configuration")
	}
}

func TestProfileCompleteness(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, network := range []types.Network{types.NetworkDevnet, types.NetworkTestnet} {
		p, err := cfg.Profile(network)
		if err != nil {
			t.Fatalf("Profile(%s) failed: %v", network, err)
		}
		if p.FaucetURL == "" || p.BridgeGateway == "" || p.BridgeNetwork == "" ||
			p.WebsocketURL == "" || p.ExplorerBase == "" || p.TokenAddress == "" {
			t.Errorf("Profile(%s) has empty fields: %+v", network, p)
		}
	}
}

func TestProfileUnknownNetwork(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := cfg.Profile(types.Network("mainnet")); err == nil {
		t.Fatal("Expected error for an unconfigured network")
	}
}

func TestProfileRejectsIncomplete(t *testing.T) {
	cfg := &Config{
		Networks: map[types.Network]NetworkProfile{
			types.NetworkDevnet: {
				FaucetURL:     "https://faucet.example",
				BridgeGateway: "rGateway",
				// bridge_network missing
				WebsocketURL: "wss://node.example",
				ExplorerBase: "https://explorer.example/api/v2",
				TokenAddress: "0xToken",
			},
		},
	}

	if _, err := cfg.Profile(types.NetworkDevnet); err == nil {
		t.Fatal("Expected error for a profile with a missing field")
	}
}
