package dbx

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
	"github.com/dbgate-dev/go-dbgate-core/pkg/logx"
)

// Pool owns the bounded set of live connections for one descriptor.
//
// Connections are tagged idle or in-use; a connection is never held by two
// callers at once. Callers past capacity queue FIFO and are woken in arrival
// order as connections are released: no priority inversion, no connection
// theft. Each Pool guards its own bookkeeping independently, so statements
// against different descriptors never contend.
type Pool struct {
	descriptor Descriptor
	driver     Driver
	config     PoolConfig

	mu      sync.Mutex
	idle    []Conn
	waiters *list.List // FIFO queue of chan Conn
	numOpen int32
	closed  bool

	warmMu sync.Mutex
	warmed bool
}

// PoolStats is a point-in-time snapshot of a pool's bookkeeping.
type PoolStats struct {
	Open    int32
	Idle    int
	Waiting int
}

// NewPool constructs an empty pool for the descriptor. No connection is opened
// here; establishment is lazy (first Acquire) or eager via WarmUp.
func NewPool(descriptor Descriptor, driver Driver, config PoolConfig) *Pool {
	return &Pool{
		descriptor: descriptor,
		driver:     driver,
		config:     config,
		waiters:    list.New(),
	}
}

// Descriptor returns the descriptor this pool serves.
func (p *Pool) Descriptor() Descriptor {
	return p.descriptor
}

// Stats returns a snapshot of the pool's current state.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{Open: p.numOpen, Idle: len(p.idle), Waiting: p.waiters.Len()}
}

// Acquire returns an exclusively owned connection: an idle one if available,
// a freshly opened one while under capacity, otherwise it blocks FIFO until a
// release. Open failures surface as ConnectionEstablishError to this caller
// only; the freed slot is handed to the next waiter and later acquires retry
// opening independently.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	var timeout <-chan time.Time
	if p.config.AcquireTimeout > 0 {
		timer := time.NewTimer(p.config.AcquireTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		p.mu.Lock()

		if p.closed {
			p.mu.Unlock()
			return nil, errorx.NewConnectionEstablishError("pool for %q is closed", p.descriptor)
		}

		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()

			return conn, nil
		}

		if p.numOpen < p.config.MaxSize {
			p.numOpen++
			p.mu.Unlock()

			return p.open(ctx)
		}

		// Saturated: queue up and wait for a release.
		ready := make(chan Conn, 1)
		elem := p.waiters.PushBack(ready)
		p.mu.Unlock()

		select {
		case conn, ok := <-ready:
			if !ok {
				// Capacity freed without a connection (failed open or pool
				// close): re-evaluate.
				continue
			}

			return conn, nil
		case <-ctx.Done():
			p.abandonWaiter(elem, ready)
			return nil, errorx.NewPoolTimeoutErrorWrapper(ctx.Err(), "acquire on %q abandoned", p.descriptor)
		case <-timeout:
			p.abandonWaiter(elem, ready)
			return nil, errorx.NewPoolTimeoutError("acquire on %q timed out after %s", p.descriptor, p.config.AcquireTimeout)
		}
	}
}

// Release returns a connection to the pool: it is handed to the longest
// waiting acquirer if any, returned to idle otherwise, or closed outright when
// the pool has been shut down in the meantime. Must be called exactly once per
// successful Acquire, on success and failure paths alike.
func (p *Pool) Release(conn Conn) {
	if conn == nil {
		return
	}

	p.mu.Lock()

	if p.closed {
		p.numOpen--
		p.mu.Unlock()
		p.closeConn(context.Background(), conn)

		return
	}

	if p.wakeNextLocked(conn) {
		p.mu.Unlock()
		return
	}

	p.idle = append(p.idle, conn)
	p.mu.Unlock()
}

// WarmUp establishes the pool's minimum-idle target. Concurrent callers
// serialize on one establishment attempt: once a warm-up has succeeded, later
// calls are no-ops. A failed warm-up is reported to its caller and leaves the
// pool usable; the next WarmUp or Acquire retries independently.
func (p *Pool) WarmUp(ctx context.Context) error {
	p.warmMu.Lock()
	defer p.warmMu.Unlock()

	if p.warmed {
		return nil
	}

	target := p.config.MinIdle
	if target < 1 {
		target = 1
	}
	if target > p.config.MaxSize {
		target = p.config.MaxSize
	}

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return errorx.NewConnectionEstablishError("pool for %q is closed", p.descriptor)
		}
		if int32(len(p.idle)) >= target || p.numOpen >= target {
			p.mu.Unlock()
			break
		}
		p.numOpen++
		p.mu.Unlock()

		conn, err := p.open(ctx)
		if err != nil {
			return err
		}
		p.Release(conn)
	}

	p.warmed = true

	return nil
}

// CloseAll drains and closes every idle connection immediately. In-flight
// statements are not interrupted: their connections are closed as they are
// released. Blocked acquirers are woken and fail.
func (p *Pool) CloseAll(ctx context.Context) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return
	}

	p.closed = true
	drained := p.idle
	p.idle = nil
	p.numOpen -= int32(len(drained))

	for elem := p.waiters.Front(); elem != nil; elem = elem.Next() {
		close(elem.Value.(chan Conn))
	}
	p.waiters.Init()

	inFlight := p.numOpen
	p.mu.Unlock()

	for _, conn := range drained {
		p.closeConn(ctx, conn)
	}

	logx.GetLogger().LogInfo(ctx, fmt.Sprintf("Closed pool for %q (%d idle drained, %d still in flight)", p.descriptor, len(drained), inFlight))
}

// open dials a new connection. The caller has already reserved a capacity slot
// (numOpen incremented); on failure the slot is freed and the next waiter is
// woken so it can retry.
func (p *Pool) open(ctx context.Context) (Conn, error) {
	conn, err := p.driver.Open(ctx, p.descriptor.Address)
	if err != nil {
		p.mu.Lock()
		p.numOpen--
		if elem := p.waiters.Front(); elem != nil {
			p.waiters.Remove(elem)
			close(elem.Value.(chan Conn))
		}
		p.mu.Unlock()

		logx.GetLogger().LogError(ctx, fmt.Sprintf("Error opening connection for %q", p.descriptor), err)

		return nil, errorx.NewConnectionEstablishErrorWrapper(err, "error opening connection for %q", p.descriptor)
	}

	logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Opened connection %s for %q", conn.ID(), p.descriptor))

	return conn, nil
}

// wakeNextLocked hands the connection to the longest-waiting acquirer.
// Caller holds p.mu.
func (p *Pool) wakeNextLocked(conn Conn) bool {
	elem := p.waiters.Front()
	if elem == nil {
		return false
	}

	p.waiters.Remove(elem)
	elem.Value.(chan Conn) <- conn

	return true
}

// abandonWaiter removes a queue entry after a timeout or cancellation. A
// connection delivered concurrently with the abandonment is re-released so it
// is never dropped.
func (p *Pool) abandonWaiter(elem *list.Element, ready chan Conn) {
	p.mu.Lock()
	p.waiters.Remove(elem)
	p.mu.Unlock()

	select {
	case conn, ok := <-ready:
		if ok && conn != nil {
			p.Release(conn)
		}
	default:
	}
}

func (p *Pool) closeConn(ctx context.Context, conn Conn) {
	if err := conn.Close(ctx); err != nil {
		logx.GetLogger().LogError(ctx, fmt.Sprintf("Error closing connection %s for %q", conn.ID(), p.descriptor), err)
	}
}
