package postgresdb

import (
	"context"
	"strings"

	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

//nolint:gochecknoinits
func init() {
	dbx.RegisterDriver(Driver{})
}

// Driver - PostgreSQL backend over pgx.
// The descriptor address is a pgx connection string: either a keyword/value
// DSN ("host=... user=... dbname=...") or a URL tail ("//user:pass@host/db",
// the remainder of a postgres:// URL after descriptor parsing).
type Driver struct{}

// Scheme - implements dbx.Driver.
func (Driver) Scheme() dbx.Scheme {
	return dbx.SchemePostgres
}

// Open - dial one connection. pgx validates the address here; the descriptor
// parser never looked at it.
func (Driver) Open(ctx context.Context, address string) (dbx.Conn, error) {
	conn, err := pgx.Connect(ctx, connString(address))
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to postgres")
	}

	return &pgConn{id: uuid.NewString(), conn: conn}, nil
}

// connString rebuilds the full URL form when the address is the tail of a
// postgres:// URL.
func connString(address string) string {
	if strings.HasPrefix(address, "//") {
		return "postgres:" + address
	}

	return address
}

type pgConn struct {
	id   string
	conn *pgx.Conn
}

func (c *pgConn) ID() string {
	return c.id
}

// Execute - run a command statement. Postgres has no backend-level
// last-insert-id, so LastInsertId is always 0; callers use a RETURNING clause
// through Select instead.
func (c *pgConn) Execute(ctx context.Context, statement string, params []any) (dbx.QueryResult, error) {
	tag, err := c.conn.Exec(ctx, statement, params...)
	if err != nil {
		return dbx.QueryResult{}, err
	}

	return dbx.QueryResult{RowsAffected: uint64(tag.RowsAffected())}, nil
}

// Select - run a read statement and buffer the whole result set.
func (c *pgConn) Select(ctx context.Context, statement string, params []any) (dbx.RowSet, error) {
	rows, err := c.conn.Query(ctx, statement, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = string(field.Name)
	}

	var result dbx.RowSet
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result = append(result, dbx.NormalizeRowValues(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *pgConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
