// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/internal/domain"
)

const selectUserSQL = `SELECT id, username, password, role_id FROM user`

// CreateUser inserts a new user. An empty ID is replaced with a fresh UUID.
func CreateUser(ctx context.Context, db *sqlx.DB, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	sqlStatement := `INSERT INTO user (id, username, password, role_id) VALUES (:id, :username, :password, :role_id)`
	if _, err := db.NamedExecContext(ctx, sqlStatement, user); err != nil {
		if mapped := translateConstraint(err); mapped != nil {
			return mapped
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", user.Username, err)
		return fmt.Errorf("database error during user creation: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username.
func FindUserByUsername(ctx context.Context, db *sqlx.DB, username string) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, selectUserSQL+` WHERE username = ? LIMIT 1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by username %s: %v", username, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}

// FindUserByID retrieves a user by id.
func FindUserByID(ctx context.Context, db *sqlx.DB, id string) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, selectUserSQL+` WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by id %s: %v", id, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}
