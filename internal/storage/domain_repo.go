// internal/storage/domain_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/internal/domain"
)

// domainColumns lists the domain table columns in declaration order.
// The first two are the identity columns and are never overwritten by an upsert.
var domainColumns = []string{
	"id", "domain_name", "domain_status", "domain_age", "order_no", "language", "title",
	"score", "dns", "registrar_name", "registrar_address", "registrar_by", "registrar_at",
	"expire_at", "email", "record_name", "record_no", "record_status", "record_at",
	"record_main_body", "record_type",
}

var (
	selectDomainSQL = "SELECT " + strings.Join(domainColumns, ", ") + " FROM domain"
	insertDomainSQL = fmt.Sprintf("INSERT INTO domain (%s) VALUES (:%s)",
		strings.Join(domainColumns, ", "), strings.Join(domainColumns, ", :"))
	upsertDomainSQL = insertDomainSQL + " ON CONFLICT(domain_name) DO UPDATE SET " +
		enrichClauses(domainColumns[2:]) + " RETURNING id"
)

// enrichClauses keeps the stored value whenever the incoming one is NULL.
func enrichClauses(cols []string) string {
	clauses := make([]string, len(cols))
	for i, col := range cols {
		clauses[i] = fmt.Sprintf("%s = COALESCE(excluded.%s, domain.%s)", col, col, col)
	}
	return strings.Join(clauses, ", ")
}

// CreateDomain inserts a new domain row. An empty ID is replaced with a fresh UUID.
func CreateDomain(ctx context.Context, db *sqlx.DB, d *domain.Domain) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	if _, err := db.NamedExecContext(ctx, insertDomainSQL, d); err != nil {
		if mapped := translateConstraint(err); mapped != nil {
			return mapped
		}
		customLog.Warnf("Storage: Failed to insert domain %s: %v", d.DomainName, err)
		return fmt.Errorf("database error during domain creation: %w", err)
	}
	return nil
}

// UpsertDomain inserts d, or enriches the existing row with the same domain_name.
// Non-NULL fields of d overwrite stored values; NULL fields leave them untouched.
// On return d.ID holds the id of the stored row.
func UpsertDomain(ctx context.Context, db *sqlx.DB, d *domain.Domain) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	query, args, err := sqlx.Named(upsertDomainSQL, d)
	if err != nil {
		return fmt.Errorf("failed to bind domain upsert: %w", err)
	}

	var id string
	if err := db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if mapped := translateConstraint(err); mapped != nil {
			return mapped
		}
		customLog.Warnf("Storage: Failed to upsert domain %s: %v", d.DomainName, err)
		return fmt.Errorf("database error during domain upsert: %w", err)
	}
	d.ID = id
	return nil
}

// FindDomainByName retrieves a domain by its unique name.
func FindDomainByName(ctx context.Context, db *sqlx.DB, name string) (*domain.Domain, error) {
	var d domain.Domain
	err := db.GetContext(ctx, &d, selectDomainSQL+` WHERE domain_name = ? LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDomainNotFound
		}
		customLog.Warnf("Storage: Failed to find domain %s: %v", name, err)
		return nil, fmt.Errorf("database error finding domain: %w", err)
	}
	return &d, nil
}
