package mysqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	// database/sql driver registration.
	_ "github.com/go-sql-driver/mysql"
)

//nolint:gochecknoinits
func init() {
	dbx.RegisterDriver(Driver{})
}

// Driver - MySQL backend over go-sql-driver through database/sql.
// The descriptor address is a go-sql-driver DSN, e.g.
// "user:pass@tcp(host:3306)/dbname".
//
// database/sql is itself a pool, which would fight the gateway's own
// acquire/release bookkeeping; each dbx.Conn therefore wraps a
// single-connection handle with one pinned *sql.Conn, so the gateway pool
// stays the only pool.
type Driver struct{}

// Scheme - implements dbx.Driver.
func (Driver) Scheme() dbx.Scheme {
	return dbx.SchemeMysql
}

// Open - dial and pin one connection. sql.Open alone does not touch the
// network; the Conn call is what establishes and therefore what fails on bad
// credentials or an unreachable host.
func (Driver) Open(ctx context.Context, address string) (dbx.Conn, error) {
	db, err := sql.Open("mysql", address)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing mysql address")
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "error connecting to mysql")
	}

	return &mysqlConn{id: uuid.NewString(), db: db, conn: conn}, nil
}

type mysqlConn struct {
	id   string
	db   *sql.DB
	conn *sql.Conn
}

func (c *mysqlConn) ID() string {
	return c.id
}

// Execute - run a command statement with '?' positional placeholders.
func (c *mysqlConn) Execute(ctx context.Context, statement string, params []any) (dbx.QueryResult, error) {
	result, err := c.conn.ExecContext(ctx, statement, params...)
	if err != nil {
		return dbx.QueryResult{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dbx.QueryResult{}, err
	}

	// LastInsertId is driver-reported; statements without an AUTO_INCREMENT
	// insert report 0.
	lastId, err := result.LastInsertId()
	if err != nil {
		lastId = 0
	}

	return dbx.QueryResult{RowsAffected: uint64(affected), LastInsertId: uint64(lastId)}, nil
}

// Select - run a read statement and buffer the whole result set.
func (c *mysqlConn) Select(ctx context.Context, statement string, params []any) (dbx.RowSet, error) {
	rows, err := c.conn.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return materializeRows(rows)
}

func (c *mysqlConn) Close(ctx context.Context) error {
	err := c.conn.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}

	return err
}

// materializeRows scans every row into the normalized shape. go-sql-driver
// returns []byte for most textual columns; the column's database type decides
// whether bytes stay binary or become text.
func materializeRows(rows *sql.Rows) (dbx.RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	binary := make([]bool, len(columnTypes))
	for i, columnType := range columnTypes {
		typeName := strings.ToUpper(columnType.DatabaseTypeName())
		binary[i] = strings.Contains(typeName, "BLOB") || strings.Contains(typeName, "BINARY")
	}

	var result dbx.RowSet
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		for i, value := range values {
			if data, ok := value.([]byte); ok && !binary[i] {
				values[i] = string(data)
			}
		}

		result = append(result, dbx.NormalizeRowValues(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
