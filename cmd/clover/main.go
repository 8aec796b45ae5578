// Command clover resolves duplicate client records from spreadsheet exports
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:          "clover",
	Short:        "Client record deduplication and consolidation",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before the environment")

	rootCmd.AddCommand(newResolveCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
