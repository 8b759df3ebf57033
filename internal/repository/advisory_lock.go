package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"payment-settlement/pkg/logger"
)

// AdvisoryLocker serializes reconciliation runs per account across processes using
// postgres session-level advisory locks. The lock lives on a dedicated connection
// that is returned to the pool on release, or discarded when the unlock fails so a
// session still holding the lock is never reused.
type AdvisoryLocker struct {
	db *sql.DB
}

func NewAdvisoryLocker(db *sql.DB) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

// Lock blocks until the account lock is held or ctx is done.
func (l *AdvisoryLocker) Lock(ctx context.Context, accountID string) (func(), error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, accountID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	release := func() {
		releaseAdvisoryConn(conn, unlock(conn, accountID), accountID)
	}
	return release, nil
}

func unlock(conn *sql.Conn, accountID string) error {
	var released bool
	err := conn.QueryRowContext(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, accountID).Scan(&released)
	if err != nil {
		return err
	}
	if !released {
		return fmt.Errorf("advisory lock for account %s was not held", accountID)
	}
	return nil
}

// releaseAdvisoryConn hands conn back to the pool, or closes the underlying session
// when unlockErr is set.
func releaseAdvisoryConn(conn *sql.Conn, unlockErr error, accountID string) {
	if unlockErr != nil {
		logger.GetLogger().WithError(unlockErr).WithField("account_id", accountID).Error("Failed to release advisory lock, discarding connection")
		_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	}
	conn.Close()
}
