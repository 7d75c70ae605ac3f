// cmd/server/main.go
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/logger"
)

var (
	customLog = logger.NewLogger()

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:           "domain-ledger",
		Short:         "Domain inventory service",
		Long:          `Stores users and a domain inventory in SQLite and imports domains from Excel workbooks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCommand(), migrateCommand(), importCommand())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		customLog.Errorf("domain-ledger: %v", err)
		os.Exit(1)
	}
}
