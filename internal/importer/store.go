package importer

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/internal/metrics"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

// Store upserts rows in order and calls report once per row with the row's outcome
// (nil on success). It stops early only when ctx is cancelled.
func Store(ctx context.Context, db *sqlx.DB, rows []DomainRow, report func(error)) error {
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		d := rows[i].Domain
		err := storage.UpsertDomain(ctx, db, &d)
		if err != nil {
			metrics.ImportRows.WithLabelValues("failed").Inc()
			err = fmt.Errorf("row %d (%s): %w", rows[i].Row, d.DomainName, err)
		} else {
			metrics.ImportRows.WithLabelValues("stored").Inc()
		}

		if report != nil {
			report(err)
		}
	}
	return nil
}
