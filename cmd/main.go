package main

import (
	"fmt"
	"os"

	"smart-reminder/pkg/config"
	"smart-reminder/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const serviceName = "smart-reminder"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Smart Reminder marketing backend",
	Long: `Smart Reminder serves the merchant marketing API and the founder dashboard.

Available subcommands:
  serve  - Start the HTTP API
  seed   - Store the default event catalogue when none exists
  export - Write the admin CSV reports to a file`,
	SilenceUsage: true,
}

func init() {
	// Prices are served as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger shared by every subcommand
func bootstrap() (*config.Config, error) {
	conf, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	return conf, nil
}
