package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/importer"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

// importSummary counts the outcome of one workbook import.
type importSummary struct {
	Stored  int
	Failed  int
	Skipped int
}

func importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import domains from a workbook without going through the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := importWorkbook(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			customLog.Printf("Imported %s: %d stored, %d failed, %d skipped", args[0], summary.Stored, summary.Failed, summary.Skipped)
			return nil
		},
	}
}

// importWorkbook parses path and stores its rows. Rows that fail to store make the
// whole import return an error after every row has been attempted.
func importWorkbook(ctx context.Context, cfg *config.Config, path string) (importSummary, error) {
	var summary importSummary

	rows, skipped, err := importer.ParseFile(path)
	if err != nil {
		return summary, err
	}
	summary.Skipped = len(skipped)
	for _, s := range skipped {
		customLog.Warnf("Row %d skipped: %s", s.Row, s.Error)
	}

	db, err := storage.ConnectDB(cfg)
	if err != nil {
		return summary, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	err = importer.Store(ctx, db, rows, func(rowErr error) {
		if rowErr != nil {
			summary.Failed++
			customLog.Warnf("%v", rowErr)
			return
		}
		summary.Stored++
	})
	if err != nil {
		return summary, err
	}

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d rows failed", summary.Failed, len(rows))
	}
	return summary, nil
}
