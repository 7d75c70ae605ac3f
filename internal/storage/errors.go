package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Specific errors for storage operations
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrDomainNotFound      = errors.New("domain not found")
	ErrDomainExists        = errors.New("domain name already exists")
	ErrDuplicateID         = errors.New("record id already exists")
	ErrRequiredField       = errors.New("required field is missing")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// translateConstraint maps a SQLite constraint failure onto the storage errors above.
// It returns nil when err is not a constraint failure.
func translateConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return nil
	}

	msg := sqliteErr.Error()
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey:
		return ErrDuplicateID
	case sqlite3.ErrConstraintNotNull:
		// "NOT NULL constraint failed: user.username"
		return fmt.Errorf("%w: %s", ErrRequiredField, strings.TrimPrefix(msg, "NOT NULL constraint failed: "))
	case sqlite3.ErrConstraintUnique:
		switch {
		case strings.Contains(msg, "user.username"):
			return ErrUsernameExists
		case strings.Contains(msg, "domain.domain_name"):
			return ErrDomainExists
		case strings.HasSuffix(msg, ".id"):
			return ErrDuplicateID
		}
	}
	return fmt.Errorf("%w: %s", ErrConstraintViolation, msg)
}
