package dbx_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dbgate-dev/go-dbgate-core/pkg/dbx"
)

// fakeDriver is an instrumented in-memory driver used to assert the pool's
// bookkeeping invariants: open attempts, live connections, high-water mark,
// closes.
type fakeDriver struct {
	scheme    dbx.Scheme
	openDelay time.Duration

	mu           sync.Mutex
	openCalls    int
	failNextOpen bool
	live         int
	maxLive      int
	closed       int
	nextID       int

	execErr    error
	selectRows dbx.RowSet
	executed   []string
}

func newFakeDriver(scheme dbx.Scheme) *fakeDriver {
	return &fakeDriver{scheme: scheme}
}

func (d *fakeDriver) Scheme() dbx.Scheme {
	return d.scheme
}

func (d *fakeDriver) Open(ctx context.Context, address string) (dbx.Conn, error) {
	if d.openDelay > 0 {
		time.Sleep(d.openDelay)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.openCalls++
	if d.failNextOpen {
		d.failNextOpen = false
		return nil, errors.New("dial failed: host unreachable")
	}

	d.live++
	if d.live > d.maxLive {
		d.maxLive = d.live
	}
	d.nextID++

	return &fakeConn{driver: d, id: fmt.Sprintf("conn-%d", d.nextID)}, nil
}

func (d *fakeDriver) stats() (openCalls, live, maxLive, closed int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.openCalls, d.live, d.maxLive, d.closed
}

type fakeConn struct {
	driver *fakeDriver
	id     string
}

func (c *fakeConn) ID() string {
	return c.id
}

func (c *fakeConn) Execute(ctx context.Context, statement string, params []any) (dbx.QueryResult, error) {
	c.driver.mu.Lock()
	execErr := c.driver.execErr
	c.driver.executed = append(c.driver.executed, statement)
	c.driver.mu.Unlock()

	if execErr != nil {
		return dbx.QueryResult{}, execErr
	}

	return dbx.QueryResult{RowsAffected: 1, LastInsertId: 42}, nil
}

func (c *fakeConn) Select(ctx context.Context, statement string, params []any) (dbx.RowSet, error) {
	c.driver.mu.Lock()
	execErr := c.driver.execErr
	rows := c.driver.selectRows
	c.driver.executed = append(c.driver.executed, statement)
	c.driver.mu.Unlock()

	if execErr != nil {
		return nil, execErr
	}

	return rows, nil
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.driver.mu.Lock()
	defer c.driver.mu.Unlock()

	c.driver.live--
	c.driver.closed++

	return nil
}
