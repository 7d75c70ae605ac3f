package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the user and domain tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateSchema(cfg)
		},
	}
}

// migrateSchema applies the schema; ConnectDB does that on every open.
func migrateSchema(cfg *config.Config) error {
	db, err := storage.ConnectDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	defer db.Close()

	customLog.Printf("Schema is up to date in %s", cfg.DatabaseDir)
	return nil
}
