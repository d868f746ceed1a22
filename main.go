package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"xrpl-evm-faucet/cmd"
)

func main() {
	// .env is optional; secrets (e.g. the reCAPTCHA key for `serve`) can come
	// from the environment directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
