// cmd/insights-server/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intent-insights/internal/common/config"
)

var (
	version    = "0.1.0"
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "insights-server",
		Short:        "Purchase-intent insights from a product and category",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (defaults to configs/config.yaml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, workersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
