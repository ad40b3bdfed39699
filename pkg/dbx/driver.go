package dbx

import (
	"context"
	"sync"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
)

// Driver opens connections for one backend scheme.
//
// A Driver is stateless beyond its registry association: it is resolved once
// per descriptor when the pool is created and shared by every pool of its
// scheme. Implementations live in the backend subpackages (sqlitedb,
// postgresdb, mysqldb) and register themselves at init time.
type Driver interface {
	// Scheme returns the descriptor scheme this driver serves.
	Scheme() Scheme

	// Open establishes a single live connection to the database at the given
	// driver-specific address. Address validation happens here, not in the
	// descriptor parser.
	Open(ctx context.Context, address string) (Conn, error)
}

// Conn is one live database connection. A Conn is exclusively owned by a
// single in-flight statement between acquire and release; it is never safe
// for concurrent use.
type Conn interface {
	// ID returns a stable identifier for log correlation.
	ID() string

	// Execute runs a statement that does not return rows and reports the
	// normalized affected-row count and last-inserted id (0 where the backend
	// has no such concept). Parameters are bound by ordinal position using the
	// backend's native placeholder markers.
	Execute(ctx context.Context, statement string, params []any) (QueryResult, error)

	// Select runs a read statement and returns the fully materialized result
	// set. No cursor semantics: the whole result is buffered before return.
	Select(ctx context.Context, statement string, params []any) (RowSet, error)

	// Close tears down the underlying connection.
	Close(ctx context.Context) error
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[Scheme]Driver)
)

// RegisterDriver makes a driver available under its scheme. Called from the
// backend packages' init functions; the registry is read-only afterwards.
func RegisterDriver(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[driver.Scheme()] = driver
}

// ResolveDriver returns the driver registered for the scheme. Fails with
// UnsupportedSchemeError for any scheme the parser could not have produced or
// whose backend package was not imported.
func ResolveDriver(scheme Scheme) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[scheme]
	if !ok {
		return nil, errorx.NewUnsupportedSchemeError("no driver registered for scheme %q", scheme)
	}

	return driver, nil
}
