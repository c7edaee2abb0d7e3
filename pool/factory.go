// Package pool adapts the driver's connection lifecycle (connect,
// handshake, auth, ping, goodbye) to go-commons-pool's
// PooledObjectFactory, so connection pooling itself is handled by a
// real, independently-tested library rather than a hand-rolled free
// list.
//
// Eviction and validation policy (idle-interval pinging, max-idle
// bounds) come from go-commons-pool itself rather than a bespoke free
// list.
package pool

import (
	"context"
	"time"

	commonspool "github.com/jolestar/go-commons-pool"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// PoolableConn is the lifecycle surface a pooled connection must
// expose. The concrete connection type lives in the root package; pool
// only depends on this interface to avoid an import cycle.
type PoolableConn interface {
	Ping(ctx context.Context, timeout time.Duration) error
	Goodbye(ctx context.Context) error
	Defunct() bool
}

// Factory adapts a connect function and a ping timeout to
// commonspool.PooledObjectFactory.
type Factory struct {
	Connect     func(ctx context.Context) (PoolableConn, error)
	PingTimeout time.Duration
}

var _ commonspool.PooledObjectFactory = (*Factory)(nil)

// MakeObject dials and handshakes a new connection via Connect.
func (f *Factory) MakeObject(ctx context.Context) (*commonspool.PooledObject, error) {
	conn, err := f.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return commonspool.NewPooledObject(conn), nil
}

// DestroyObject best-effort says GOODBYE and drops the connection.
func (f *Factory) DestroyObject(ctx context.Context, object *commonspool.PooledObject) error {
	conn, ok := object.Object.(PoolableConn)
	if !ok {
		return bolterrors.New(bolterrors.KindInvalidInput, "pooled object is not a PoolableConn: %T", object.Object)
	}
	return conn.Goodbye(ctx)
}

// ValidateObject pings the connection with PingTimeout. A Defunct
// connection (marked so by an async close/error notification while
// idle) is invalidated without attempting the RESET ping; otherwise a
// failed ping invalidates it.
func (f *Factory) ValidateObject(ctx context.Context, object *commonspool.PooledObject) bool {
	conn, ok := object.Object.(PoolableConn)
	if !ok {
		return false
	}
	if conn.Defunct() {
		return false
	}
	return conn.Ping(ctx, f.PingTimeout) == nil
}

// ActivateObject is a no-op: a leased connection's state is validated
// by the sandbox's post_checkout hook, not here.
func (f *Factory) ActivateObject(ctx context.Context, object *commonspool.PooledObject) error {
	return nil
}

// PassivateObject is a no-op: returning a connection to Ready on
// checkin is the sandbox's pre_checkin responsibility, since only it
// knows whether a transaction needs rolling back first.
func (f *Factory) PassivateObject(ctx context.Context, object *commonspool.PooledObject) error {
	return nil
}
