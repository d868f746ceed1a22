package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xrpl-evm-faucet/config"
	"xrpl-evm-faucet/pkg/bridge"
	"xrpl-evm-faucet/pkg/types"
)

var noWait bool

var fundCmd = &cobra.Command{
	Use:   "fund <0x-address>",
	Short: "Request test XRP and bridge it to an EVM sidechain address",
	Long: `Request test XRP from the selected network's faucet into a freshly
generated single-use XRPL wallet, forward it to the bridge gateway as an
interchain transfer, and wait for the bridged tokens to arrive at the
destination address.

The wait can take several minutes; pass --no-wait to stop after the source
transaction is validated and check later with the status command.

Examples:
  xrpl-evm-faucet fund 0x1234...abcd
  xrpl-evm-faucet fund 0x1234...abcd --network devnet
  xrpl-evm-faucet fund 0x1234...abcd --no-wait`,
	Args: cobra.ExactArgs(1),
	Run:  runFund,
}

func init() {
	rootCmd.AddCommand(fundCmd)

	fundCmd.Flags().BoolVar(&noWait, "no-wait", false, "Skip waiting for arrival on the destination chain")
}

func runFund(cmd *cobra.Command, args []string) {
	destination := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	network, cfg := loadNetworkConfig(cmd)

	issuer, err := bridge.NewIssuer(cfg, network)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Ctrl+C cancels the in-flight request cleanly instead of leaving a
	// dangling poll session.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Requesting faucet funds and submitting bridge transfer..."
		s.Start()
	}

	receipt, err := issuer.Issue(ctx, destination)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"request_id":        receipt.RequestID,
			"network":           receipt.Network,
			"ephemeral_address": receipt.EphemeralAddress,
			"granted_amount":    receipt.GrantedAmount.String(),
			"forwarded_amount":  receipt.ForwardedAmount.String(),
			"source_tx_hash":    receipt.SourceTxHash,
			"source_close_time": receipt.SourceCloseTime.Format(time.RFC3339),
		})
	} else {
		displayReceipt(receipt)
	}

	if noWait {
		if !jsonOutput {
			fmt.Println("You can check arrival later using:")
			color.Cyan("  xrpl-evm-faucet status %s --close-time %s --source-tx %s\n",
				destination, receipt.SourceCloseTime.Format(time.RFC3339), receipt.SourceTxHash)
		}
		return
	}

	poller, err := bridge.NewPoller(cfg, network)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	awaitArrival(ctx, poller, bridge.ArrivalQuery{
		Destination:     destination,
		SourceTxHash:    receipt.SourceTxHash,
		SourceCloseTime: receipt.SourceCloseTime,
	}, jsonOutput)
}

// loadNetworkConfig resolves the --network flag and loads configuration,
// exiting on user error the way every command here does.
func loadNetworkConfig(cmd *cobra.Command) (types.Network, *config.Config) {
	networkName, _ := cmd.Flags().GetString("network")
	network, err := types.ParseNetwork(networkName)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, err := config.Get()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return network, cfg
}

// awaitArrival runs a poll session and renders its terminal state. Shared by
// the fund and status commands.
func awaitArrival(ctx context.Context, poller *bridge.Poller, query bridge.ArrivalQuery, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Waiting for bridged funds on the destination chain..."
		s.Start()
	}

	result, err := poller.Await(ctx, query)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil && result == nil {
		// Cancelled before any terminal state was reached.
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		out := map[string]interface{}{
			"status":   result.Status,
			"terminal": result.Status.Terminal(),
			"attempts": result.Attempts,
		}
		if result.Status == types.StatusArrived {
			out["destination_tx_hash"] = result.DestinationTxHash
			out["bridging_time_ms"] = result.BridgingTime.Milliseconds()
		}
		if err != nil {
			out["error"] = err.Error()
		}
		printJSON(out)
		if result.Status != types.StatusArrived {
			os.Exit(1)
		}
		return
	}

	switch result.Status {
	case types.StatusArrived:
		displayArrival(result)
	case types.StatusTimeout:
		printWarning("No matching transfer appeared within the attempt budget.\n" +
			"The outcome is unknown: the funds may still arrive. Re-run the status command to keep watching.")
		os.Exit(1)
	case types.StatusFailed:
		if errors.Is(err, context.Canceled) {
			printWarning("Polling cancelled.")
		} else {
			printError(err)
		}
		os.Exit(1)
	}
}

func displayReceipt(receipt *types.BridgeReceipt) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     BRIDGE TRANSFER SUBMITTED")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Network:           %s\n", receipt.Network)
	fmt.Printf("  Ephemeral Wallet:  %s\n", color.HiBlackString(receipt.EphemeralAddress))
	fmt.Printf("  Faucet Granted:    %s XRP\n", receipt.GrantedAmount.String())
	fmt.Printf("  Forwarded:         %s XRP\n", color.YellowString(receipt.ForwardedAmount.String()))
	fmt.Printf("  Destination:       %s\n", color.CyanString(receipt.Destination))
	fmt.Printf("  Source Tx:         %s\n", color.CyanString(receipt.SourceTxHash))
	fmt.Printf("  Close Time:        %s\n", receipt.SourceCloseTime.Format("2006-01-02 15:04:05 MST"))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func displayArrival(result *types.ArrivalResult) {
	printSuccess("Bridged funds arrived!")
	fmt.Printf("  Destination Tx:  %s\n", color.CyanString(result.DestinationTxHash))
	fmt.Printf("  Bridging Time:   %s\n", result.BridgingTime.Round(time.Second))
	fmt.Printf("  Poll Attempts:   %d\n\n", result.Attempts)
}

func printJSON(v interface{}) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}
