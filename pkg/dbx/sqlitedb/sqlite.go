package sqlitedb

import (
	"context"
	"time"

	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

//nolint:gochecknoinits
func init() {
	dbx.RegisterDriver(Driver{})
}

// Driver - SQLite backend over zombiezen's per-connection API.
// The descriptor address is a filesystem path; the file is created if it does
// not exist. ":memory:" databases work but are independent per connection, so
// they only make sense with a pool of size 1.
type Driver struct{}

// Scheme - implements dbx.Driver.
func (Driver) Scheme() dbx.Scheme {
	return dbx.SchemeSqlite
}

// Open - open one connection and apply the standard pragmas: WAL for
// concurrent readers with a single writer, NORMAL synchronous, and a busy
// timeout so write contention waits instead of failing with SQLITE_BUSY.
func (Driver) Open(ctx context.Context, address string) (dbx.Conn, error) {
	conn, err := sqlite.OpenConn(address)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening sqlite database %q", address)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "error applying %s on %q", pragma, address)
		}
	}

	return &sqliteConn{id: uuid.NewString(), conn: conn}, nil
}

type sqliteConn struct {
	id   string
	conn *sqlite.Conn
}

func (c *sqliteConn) ID() string {
	return c.id
}

// Execute - run a command statement with '?' positional placeholders.
func (c *sqliteConn) Execute(ctx context.Context, statement string, params []any) (dbx.QueryResult, error) {
	restore := c.interrupt(ctx)
	defer restore()

	err := sqlitex.ExecuteTransient(c.conn, statement, &sqlitex.ExecOptions{Args: bindParams(params)})
	if err != nil {
		return dbx.QueryResult{}, err
	}

	return dbx.QueryResult{
		RowsAffected: uint64(c.conn.Changes()),
		LastInsertId: uint64(c.conn.LastInsertRowID()),
	}, nil
}

// Select - run a read statement and buffer the whole result set, converting
// each column by its declared storage class.
func (c *sqliteConn) Select(ctx context.Context, statement string, params []any) (dbx.RowSet, error) {
	restore := c.interrupt(ctx)
	defer restore()

	var result dbx.RowSet
	err := sqlitex.ExecuteTransient(c.conn, statement, &sqlitex.ExecOptions{
		Args: bindParams(params),
		ResultFunc: func(stmt *sqlite.Stmt) error {
			row := make(dbx.Row, stmt.ColumnCount())
			for i := 0; i < stmt.ColumnCount(); i++ {
				name := stmt.ColumnName(i)
				switch stmt.ColumnType(i) {
				case sqlite.TypeInteger:
					row[name] = stmt.ColumnInt64(i)
				case sqlite.TypeFloat:
					row[name] = stmt.ColumnFloat(i)
				case sqlite.TypeText:
					row[name] = stmt.ColumnText(i)
				case sqlite.TypeBlob:
					buf := make([]byte, stmt.ColumnLen(i))
					stmt.ColumnBytes(i, buf)
					row[name] = buf
				default:
					row[name] = nil
				}
			}
			result = append(result, row)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *sqliteConn) Close(ctx context.Context) error {
	return c.conn.Close()
}

// interrupt ties statement execution to ctx cancellation for the duration of
// one call.
func (c *sqliteConn) interrupt(ctx context.Context) func() {
	previous := c.conn.SetInterrupt(ctx.Done())
	return func() {
		c.conn.SetInterrupt(previous)
	}
}

// bindParams maps vetted scalars to types zombiezen can bind. time.Time has
// no native binding and becomes RFC 3339 text.
func bindParams(params []any) []any {
	bound := make([]any, len(params))
	for i, param := range params {
		switch v := param.(type) {
		case time.Time:
			bound[i] = v.Format(time.RFC3339Nano)
		case uint64:
			bound[i] = int64(v)
		default:
			bound[i] = param
		}
	}

	return bound
}
