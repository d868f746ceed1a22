package cmd

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "xrpl-evm-faucet",
	Short: "A CLI for funding XRPL EVM sidechain addresses from the XRPL test faucets",
	Long: `xrpl-evm-faucet requests test XRP from an XRPL faucet and bridges it to an
EVM-compatible address on the XRPL EVM sidechain via the Axelar interchain
transfer gateway, then watches the destination explorer until the funds land.

Examples:
  xrpl-evm-faucet fund 0x1234...abcd
  xrpl-evm-faucet fund 0x1234...abcd --network devnet --no-wait
  xrpl-evm-faucet status 0x1234...abcd --close-time 2026-01-02T15:04:05Z
  xrpl-evm-faucet serve`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(cmd)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringP("network", "n", "testnet", "XRPL network (devnet or testnet)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func initLogger(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printWarning(message string) {
	color.Yellow("\n%s\n\n", message)
}

func printSuccess(message string) {
	color.Green("\n%s\n\n", message)
}
