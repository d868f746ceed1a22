package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"xrpl-evm-faucet/pkg/bridge"
)

var (
	closeTimeFlag string
	sourceTxFlag  string
)

var statusCmd = &cobra.Command{
	Use:   "status <0x-address>",
	Short: "Watch the destination chain for an already-submitted bridge transfer",
	Long: `Poll the destination explorer for the bridged funds of a transfer that was
already submitted on the XRPL side, e.g. after running fund --no-wait or
after a timeout.

--close-time must be the close time of the source transaction; transfers at
or before it are ignored so stale transfers to the same address never match.

Examples:
  xrpl-evm-faucet status 0x1234...abcd --close-time 2026-01-02T15:04:05Z
  xrpl-evm-faucet status 0x1234...abcd --close-time 2026-01-02T15:04:05Z --source-tx ABCD1234...`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&closeTimeFlag, "close-time", "", "Source transaction close time (RFC 3339, required)")
	statusCmd.Flags().StringVar(&sourceTxFlag, "source-tx", "", "Source transaction hash (for log correlation)")
	_ = statusCmd.MarkFlagRequired("close-time")
}

func runStatus(cmd *cobra.Command, args []string) {
	destination := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	closeTime, err := time.Parse(time.RFC3339, closeTimeFlag)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	network, cfg := loadNetworkConfig(cmd)

	poller, err := bridge.NewPoller(cfg, network)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awaitArrival(ctx, poller, bridge.ArrivalQuery{
		Destination:     destination,
		SourceTxHash:    sourceTxFlag,
		SourceCloseTime: closeTime,
	}, jsonOutput)
}
