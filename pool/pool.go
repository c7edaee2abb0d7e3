package pool

import (
	"context"
	"time"

	commonspool "github.com/jolestar/go-commons-pool"
)

// Config configures the underlying object pool.
type Config struct {
	// Size is the maximum number of pooled connections (pool_size).
	Size int
	// IdleInterval is how often the pool proactively validates idle
	// connections via the factory's ValidateObject (RESET-as-ping).
	IdleInterval time.Duration
	// PingTimeout bounds each proactive validation ping.
	PingTimeout time.Duration
}

// DefaultConfig returns sensible defaults: pool_size left to the
// caller, idle_interval 1s, ping_timeout 5s.
func DefaultConfig(size int) Config {
	return Config{Size: size, IdleInterval: time.Second, PingTimeout: 5 * time.Second}
}

// Pool wraps a commonspool.ObjectPool of PoolableConn.
type Pool struct {
	inner *commonspool.ObjectPool
}

// New builds a Pool of connections produced by connect, validated by
// periodic RESET pings every cfg.IdleInterval.
func New(ctx context.Context, connect func(ctx context.Context) (PoolableConn, error), cfg Config) *Pool {
	factory := &Factory{Connect: connect, PingTimeout: cfg.PingTimeout}
	poolConfig := commonspool.NewDefaultPoolConfig()
	poolConfig.MaxTotal = cfg.Size
	poolConfig.TestOnBorrow = true
	poolConfig.TestWhileIdle = true
	poolConfig.TimeBetweenEvictionRuns = cfg.IdleInterval

	return &Pool{inner: commonspool.NewObjectPool(ctx, factory, poolConfig)}
}

// Borrow leases a connection from the pool, dialing a new one if none
// are idle and the pool has room.
func (p *Pool) Borrow(ctx context.Context) (PoolableConn, error) {
	obj, err := p.inner.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	return obj.(PoolableConn), nil
}

// Return checks a connection back in. A Defunct connection should be
// discarded via Invalidate instead.
func (p *Pool) Return(ctx context.Context, conn PoolableConn) error {
	return p.inner.ReturnObject(ctx, conn)
}

// Invalidate removes conn from the pool without returning it to service,
// for a connection discovered Defunct mid-lease.
func (p *Pool) Invalidate(ctx context.Context, conn PoolableConn) error {
	return p.inner.InvalidateObject(ctx, conn)
}

// Close drains and closes every pooled connection.
func (p *Pool) Close(ctx context.Context) {
	p.inner.Close(ctx)
}

// IdleCount returns the number of connections currently idle in the
// pool, for metrics.PoolIdle.
func (p *Pool) IdleCount() int {
	return p.inner.GetNumIdle()
}

// ActiveCount returns the number of connections currently leased out,
// for metrics.PoolSize.
func (p *Pool) ActiveCount() int {
	return p.inner.GetNumActive()
}
