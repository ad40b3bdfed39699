package sqlitedb_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx"
	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestConn(t *testing.T) dbx.Conn {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sqlitedb.Driver{}.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close(context.Background())
	})

	return conn
}

func TestDriverRegistersSqliteScheme(t *testing.T) {
	driver, err := dbx.ResolveDriver(dbx.SchemeSqlite)
	require.NoError(t, err)
	assert.Equal(t, dbx.SchemeSqlite, driver.Scheme())
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	conn := openTestConn(t)
	assert.NotEmpty(t, conn.ID())
}

func TestOpenFailsOnUnreachablePath(t *testing.T) {
	_, err := sqlitedb.Driver{}.Open(context.Background(), "/no/such/directory/test.db")
	require.Error(t, err)
}

func TestExecuteReportsRowsAffectedAndLastInsertId(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	_, err := conn.Execute(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)", nil)
	require.NoError(t, err)

	result, err := conn.Execute(ctx, "INSERT INTO items (name) VALUES (?)", []any{"first"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.RowsAffected)
	assert.Equal(t, uint64(1), result.LastInsertId)

	result, err = conn.Execute(ctx, "INSERT INTO items (name) VALUES (?)", []any{"second"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.LastInsertId)

	result, err = conn.Execute(ctx, "UPDATE items SET name = ?", []any{"renamed"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.RowsAffected)
}

func TestSelectConvertsStorageClasses(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	_, err := conn.Execute(ctx, "CREATE TABLE mixed (i INTEGER, f REAL, s TEXT, b BLOB, n TEXT)", nil)
	require.NoError(t, err)

	_, err = conn.Execute(ctx,
		"INSERT INTO mixed (i, f, s, b, n) VALUES (?, ?, ?, ?, NULL)",
		[]any{int64(7), 2.5, "hello", []byte{0x01, 0x02}},
	)
	require.NoError(t, err)

	rows, err := conn.Select(ctx, "SELECT i, f, s, b, n FROM mixed", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(7), rows[0]["i"])
	assert.Equal(t, 2.5, rows[0]["f"])
	assert.Equal(t, "hello", rows[0]["s"])
	assert.Equal(t, []byte{0x01, 0x02}, rows[0]["b"])
	assert.Nil(t, rows[0]["n"])
}

func TestSelectEmptyResultIsNotAnError(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	_, err := conn.Execute(ctx, "CREATE TABLE empty (id INTEGER)", nil)
	require.NoError(t, err)

	rows, err := conn.Select(ctx, "SELECT id FROM empty", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExecuteSyntaxErrorSurfaces(t *testing.T) {
	conn := openTestConn(t)

	_, err := conn.Execute(context.Background(), "NOT A STATEMENT", nil)
	require.Error(t, err)
}

func TestTimeParamStoredAsText(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	_, err := conn.Execute(ctx, "CREATE TABLE stamps (at TEXT)", nil)
	require.NoError(t, err)

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	_, err = conn.Execute(ctx, "INSERT INTO stamps (at) VALUES (?)", []any{at})
	require.NoError(t, err)

	rows, err := conn.Select(ctx, "SELECT at FROM stamps", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, at.Format(time.RFC3339Nano), rows[0]["at"])
}

// Exercises the full path through the gateway: pooled connections against a
// real database file shared across the pool.
func TestGatewayEndToEnd(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "e2e.db")

	gateway, err := dbx.NewGateway(dbx.PoolConfig{MaxSize: 3, MinIdle: 1})
	require.NoError(t, err)

	handle, err := gateway.Load(ctx, "sqlite:"+path)
	require.NoError(t, err)
	defer gateway.CloseAll(ctx)

	_, err = handle.Execute(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)")
	require.NoError(t, err)

	result, err := handle.Execute(ctx, "INSERT INTO users (name, age) VALUES (?, ?)", "ada", 36)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.RowsAffected)
	assert.Equal(t, uint64(1), result.LastInsertId)

	rows, err := handle.Select(ctx, "SELECT name, age FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ada", rows[0]["name"])
	assert.Equal(t, int64(36), rows[0]["age"])
}
