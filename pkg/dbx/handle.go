package dbx

import (
	"context"
	"fmt"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
)

// Handle is the client-facing reference to one logical database. It carries
// no connection state of its own: whether the pool behind it is established
// depends on how the handle was obtained (Gateway.Load is eager, Gateway.Get
// is lazy).
type Handle struct {
	gateway    *Gateway
	descriptor Descriptor
}

// Descriptor returns the canonical descriptor this handle references.
func (h *Handle) Descriptor() Descriptor {
	return h.descriptor
}

// Execute runs a statement that does not return rows.
func (h *Handle) Execute(ctx context.Context, statement string, params ...any) (QueryResult, error) {
	return h.gateway.Execute(ctx, h.descriptor, statement, params...)
}

// Select runs a read statement and returns the materialized row set.
func (h *Handle) Select(ctx context.Context, statement string, params ...any) (RowSet, error) {
	return h.gateway.Select(ctx, h.descriptor, statement, params...)
}

// Close tears down the pool behind this handle. Reports false when there was
// nothing to close.
func (h *Handle) Close(ctx context.Context) bool {
	return h.gateway.Close(ctx, h.descriptor)
}

// Session pins one connection for a span of statements, the extension point
// for multi-statement transactions: issue BEGIN and COMMIT through
// Session.Execute like any other statement. The caller owns the
// acquire/release span and must call Close exactly once.
func (h *Handle) Session(ctx context.Context) (*Session, error) {
	pool, conn, err := h.gateway.acquire(ctx, h.descriptor)
	if err != nil {
		return nil, err
	}

	return &Session{pool: pool, conn: conn}, nil
}

// Session is a pinned connection spanning multiple statements. Not safe for
// concurrent use: the connection is exclusively owned by one caller between
// Session creation and Close.
type Session struct {
	pool   *Pool
	conn   Conn
	closed bool
}

// Execute runs a statement on the pinned connection.
func (s *Session) Execute(ctx context.Context, statement string, params ...any) (QueryResult, error) {
	if s.closed {
		return QueryResult{}, errorx.NewQueryExecutionError("session is closed")
	}

	if err := VetParams(params); err != nil {
		return QueryResult{}, err
	}

	result, err := s.conn.Execute(ctx, statement, params)
	if err != nil {
		return QueryResult{}, errorx.NewQueryExecutionErrorWrapper(err, "error executing statement '%s'", statement)
	}

	return result, nil
}

// Select runs a read statement on the pinned connection.
func (s *Session) Select(ctx context.Context, statement string, params ...any) (RowSet, error) {
	if s.closed {
		return nil, errorx.NewQueryExecutionError("session is closed")
	}

	if err := VetParams(params); err != nil {
		return nil, err
	}

	rows, err := s.conn.Select(ctx, statement, params)
	if err != nil {
		return nil, errorx.NewQueryExecutionErrorWrapper(err, "error executing select '%s'", statement)
	}

	return rows, nil
}

// Close releases the pinned connection back to the pool. Safe to call once;
// subsequent calls are no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}

	s.closed = true
	s.pool.Release(s.conn)
}

// String - descriptor plus connection id, for log correlation.
func (s *Session) String() string {
	return fmt.Sprintf("session %s on %q", s.conn.ID(), s.pool.Descriptor())
}
