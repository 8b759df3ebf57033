package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockConn is a driver connection that answers the two advisory lock statements.
type lockConn struct {
	mu         sync.Mutex
	closed     bool
	unlockFail error
}

func (c *lockConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *lockConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *lockConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *lockConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *lockConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if !strings.Contains(query, "pg_advisory_lock") {
		return nil, errors.New("unexpected exec")
	}
	return driver.RowsAffected(0), nil
}

func (c *lockConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(query, "pg_advisory_unlock") {
		return nil, errors.New("unexpected query")
	}
	if c.unlockFail != nil {
		return nil, c.unlockFail
	}
	return &boolRows{value: true}, nil
}

type boolRows struct {
	value bool
	done  bool
}

func (r *boolRows) Columns() []string { return []string{"pg_advisory_unlock"} }
func (r *boolRows) Close() error      { return nil }

func (r *boolRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = r.value
	return nil
}

type lockConnector struct {
	conn *lockConn
}

func (c *lockConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *lockConnector) Driver() driver.Driver                        { return nil }

func newLockDB(t *testing.T, conn *lockConn) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&lockConnector{conn: conn})
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAdvisoryLocker_ReleaseReturnsConnectionToPool(t *testing.T) {
	conn := &lockConn{}
	locker := NewAdvisoryLocker(newLockDB(t, conn))

	release, err := locker.Lock(context.Background(), "acc-1")
	require.NoError(t, err)
	release()

	assert.False(t, conn.isClosed())
}

func TestAdvisoryLocker_FailedUnlockDiscardsConnection(t *testing.T) {
	conn := &lockConn{unlockFail: errors.New("server closed the connection unexpectedly")}
	locker := NewAdvisoryLocker(newLockDB(t, conn))

	release, err := locker.Lock(context.Background(), "acc-1")
	require.NoError(t, err)
	release()

	assert.True(t, conn.isClosed())
}
