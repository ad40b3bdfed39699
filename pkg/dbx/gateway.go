package dbx

import (
	"context"
	"fmt"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
	"github.com/dbgate-dev/go-dbgate-core/pkg/logx"
	"github.com/dbgate-dev/go-dbgate-core/pkg/validator"
)

// Gateway is the command dispatcher and lifecycle manager over a PoolTable.
//
// Every Execute/Select spans exactly one acquire-run-release on the
// descriptor's pool. The connection is released in all cases, success or
// failure; a failed statement never corrupts pool state. No statement is ever
// retried here: statements may be non-idempotent, so retry policy belongs to
// the caller.
type Gateway struct {
	table *PoolTable
}

// NewGateway - Gateway constructor. The pool configuration is validated before
// any pool is built from it.
func NewGateway(config PoolConfig) (*Gateway, error) {
	if valErrors := validator.NewValidator().ValidateStruct(config); len(valErrors) > 0 {
		return nil, validator.NewValidationError(valErrors)
	}

	return &Gateway{table: NewPoolTable(config)}, nil
}

// Load parses the descriptor and eagerly establishes its pool and first
// connection, failing fast when the initial connection cannot be opened. The
// pool survives a failed warm-up; a later Load or statement retries opening.
func (g *Gateway) Load(ctx context.Context, rawDescriptor string) (*Handle, error) {
	descriptor, err := ParseDescriptor(rawDescriptor)
	if err != nil {
		return nil, err
	}

	pool, err := g.table.GetOrCreate(descriptor)
	if err != nil {
		return nil, err
	}

	if err := pool.WarmUp(ctx); err != nil {
		return nil, err
	}

	return &Handle{gateway: g, descriptor: descriptor}, nil
}

// Get returns a handle referencing the descriptor without touching the
// database. The first statement through the handle triggers lazy pool
// creation and connection establishment.
func (g *Gateway) Get(rawDescriptor string) (*Handle, error) {
	descriptor, err := ParseDescriptor(rawDescriptor)
	if err != nil {
		return nil, err
	}

	return &Handle{gateway: g, descriptor: descriptor}, nil
}

// Execute runs a statement that does not return rows against the descriptor's
// pool and returns the normalized result. Backend rejections surface as
// QueryExecutionError with the driver-native message preserved.
func (g *Gateway) Execute(ctx context.Context, descriptor Descriptor, statement string, params ...any) (QueryResult, error) {
	pool, conn, err := g.acquire(ctx, descriptor)
	if err != nil {
		return QueryResult{}, err
	}

	if err := VetParams(params); err != nil {
		pool.Release(conn)
		return QueryResult{}, err
	}

	result, err := conn.Execute(ctx, statement, params)
	pool.Release(conn)
	if err != nil {
		logx.GetLogger().LogError(ctx, fmt.Sprintf("Error executing statement on %q", descriptor), err)
		return QueryResult{}, errorx.NewQueryExecutionErrorWrapper(err, "error executing statement '%s'", statement)
	}

	return result, nil
}

// Select runs a read statement and returns the materialized row set, with the
// same acquisition and release discipline as Execute.
func (g *Gateway) Select(ctx context.Context, descriptor Descriptor, statement string, params ...any) (RowSet, error) {
	pool, conn, err := g.acquire(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	if err := VetParams(params); err != nil {
		pool.Release(conn)
		return nil, err
	}

	rows, err := conn.Select(ctx, statement, params)
	pool.Release(conn)
	if err != nil {
		logx.GetLogger().LogError(ctx, fmt.Sprintf("Error executing select on %q", descriptor), err)
		return nil, errorx.NewQueryExecutionErrorWrapper(err, "error executing select '%s'", statement)
	}

	return rows, nil
}

// Close tears down the descriptor's pool. Idempotent: closing an unknown or
// already-closed descriptor succeeds and reports false, since nothing to
// close is not an error condition.
func (g *Gateway) Close(ctx context.Context, descriptor Descriptor) bool {
	pool := g.table.Remove(descriptor)
	if pool == nil {
		return false
	}

	pool.CloseAll(ctx)

	return true
}

// CloseAll tears down every pool in the table and reports whether any pool
// state changed.
func (g *Gateway) CloseAll(ctx context.Context) bool {
	drained := g.table.Drain()
	for _, pool := range drained {
		pool.CloseAll(ctx)
	}

	return len(drained) > 0
}

// PoolCount returns the number of live pools.
func (g *Gateway) PoolCount() int {
	return g.table.Len()
}

func (g *Gateway) acquire(ctx context.Context, descriptor Descriptor) (*Pool, Conn, error) {
	pool, err := g.table.GetOrCreate(descriptor)
	if err != nil {
		return nil, nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	return pool, conn, nil
}
