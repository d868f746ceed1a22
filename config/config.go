package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"xrpl-evm-faucet/pkg/types"
)

// NetworkProfile is the immutable per-environment wiring: where to ask for
// funds, where to forward them, and where to watch for their arrival.
type NetworkProfile struct {
	FaucetURL     string
	BridgeGateway string
	BridgeNetwork string
	WebsocketURL  string
	ExplorerBase  string
	TokenAddress  string
}

// Config holds the application configuration. The bridging economics
// (reserve, fee, expected dispensed amount) have been retuned repeatedly, so
// they are configuration, not code.
type Config struct {
	Reserve         decimal.Decimal
	TransferFee     decimal.Decimal
	ExpectedAmount  decimal.Decimal
	AmountTolerance decimal.Decimal
	GasFeeDrops     string

	SettleDelay     time.Duration
	PollInterval    time.Duration
	MaxPollAttempts int

	ListenAddr      string
	RecaptchaSecret string

	Networks map[types.Network]NetworkProfile
}

var globalConfig *Config

// Load reads configuration from environment variables and an optional
// .xrpl-evm-faucet.yaml file, falling back to the bundled network defaults.
func Load() (*Config, error) {
	viper.SetConfigName(".xrpl-evm-faucet")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("reserve", "10")
	viper.SetDefault("transfer_fee", "0.2")
	viper.SetDefault("expected_amount", "89.50589")
	viper.SetDefault("amount_tolerance", "3")
	viper.SetDefault("gas_fee_drops", "1700000")
	viper.SetDefault("settle_delay", "5s")
	viper.SetDefault("poll_interval", "5s")
	viper.SetDefault("max_poll_attempts", 300)
	viper.SetDefault("listen_addr", ":8080")

	viper.SetDefault("networks.devnet.faucet_url", "https://faucet.devnet.rippletest.net/accounts")
	viper.SetDefault("networks.devnet.bridge_gateway", "rGAbJZEzU6WaYv5y1LfyN7LBBcQJ3TxsKC")
	viper.SetDefault("networks.devnet.bridge_network", "xrpl-evm-devnet")
	viper.SetDefault("networks.devnet.websocket_url", "wss://s.devnet.rippletest.net:51233/")
	viper.SetDefault("networks.devnet.explorer_base", "https://explorer.xrplevm.org/api/v2")
	viper.SetDefault("networks.devnet.token_address", "0xD4949664cD82660AaE99bEdc034a0deA8A0bd517")

	viper.SetDefault("networks.testnet.faucet_url", "https://faucet.altnet.rippletest.net/accounts")
	viper.SetDefault("networks.testnet.bridge_gateway", "rNrjh1KGZk2jBR3wPfAQnoidtFFYQKbQn2")
	viper.SetDefault("networks.testnet.bridge_network", "xrpl-evm")
	viper.SetDefault("networks.testnet.websocket_url", "wss://s.altnet.rippletest.net:51233/")
	viper.SetDefault("networks.testnet.explorer_base", "https://explorer.testnet.xrplevm.org/api/v2")
	viper.SetDefault("networks.testnet.token_address", "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

	viper.SetEnvPrefix("XRPL_FAUCET")
	viper.AutomaticEnv()

	// Config file is optional.
	_ = viper.ReadInConfig()

	cfg := &Config{
		GasFeeDrops:     viper.GetString("gas_fee_drops"),
		SettleDelay:     viper.GetDuration("settle_delay"),
		PollInterval:    viper.GetDuration("poll_interval"),
		MaxPollAttempts: viper.GetInt("max_poll_attempts"),
		ListenAddr:      viper.GetString("listen_addr"),
		RecaptchaSecret: viper.GetString("recaptcha_secret_key"),
		Networks:        make(map[types.Network]NetworkProfile),
	}

	var err error
	if cfg.Reserve, err = decimal.NewFromString(viper.GetString("reserve")); err != nil {
		return nil, fmt.Errorf("invalid reserve: %w", err)
	}
	if cfg.TransferFee, err = decimal.NewFromString(viper.GetString("transfer_fee")); err != nil {
		return nil, fmt.Errorf("invalid transfer_fee: %w", err)
	}
	if cfg.ExpectedAmount, err = decimal.NewFromString(viper.GetString("expected_amount")); err != nil {
		return nil, fmt.Errorf("invalid expected_amount: %w", err)
	}
	if cfg.AmountTolerance, err = decimal.NewFromString(viper.GetString("amount_tolerance")); err != nil {
		return nil, fmt.Errorf("invalid amount_tolerance: %w", err)
	}

	for _, network := range []types.Network{types.NetworkDevnet, types.NetworkTestnet} {
		prefix := fmt.Sprintf("networks.%s.", network)
		cfg.Networks[network] = NetworkProfile{
			FaucetURL:     viper.GetString(prefix + "faucet_url"),
			BridgeGateway: viper.GetString(prefix + "bridge_gateway"),
			BridgeNetwork: viper.GetString(prefix + "bridge_network"),
			WebsocketURL:  viper.GetString(prefix + "websocket_url"),
			ExplorerBase:  viper.GetString(prefix + "explorer_base"),
			TokenAddress:  viper.GetString(prefix + "token_address"),
		}
	}

	globalConfig = cfg
	return cfg, nil
}

// Profile returns the profile for a network, enforcing that every field of
// the selected environment is populated.
func (c *Config) Profile(network types.Network) (NetworkProfile, error) {
	p, ok := c.Networks[network]
	if !ok {
		return NetworkProfile{}, fmt.Errorf("no profile configured for network %q", network)
	}
	missing := ""
	switch {
	case p.FaucetURL == "":
		missing = "faucet_url"
	case p.BridgeGateway == "":
		missing = "bridge_gateway"
	case p.BridgeNetwork == "":
		missing = "bridge_network"
	case p.WebsocketURL == "":
		missing = "websocket_url"
	case p.ExplorerBase == "":
		missing = "explorer_base"
	case p.TokenAddress == "":
		missing = "token_address"
	}
	if missing != "" {
		return NetworkProfile{}, fmt.Errorf("network %q profile is missing %s", network, missing)
	}
	return p, nil
}

// Get returns the global configuration, loading it on first use.
func Get() (*Config, error) {
	if globalConfig == nil {
		return Load()
	}
	return globalConfig, nil
}
