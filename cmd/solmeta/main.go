// Command solmeta prints explorer metadata for Solana tokens, with the DNS
// records of any website the token advertises.
//
// Usage examples:
//
//	solmeta -t So11111111111111111111111111111111111111112
//	solmeta -f tokens.txt -p http://127.0.0.1:8080 -o report.json
//	API_URL=http://localhost:8899 solmeta <token> <token>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
