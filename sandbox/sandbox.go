// Package sandbox provides per-test connection isolation: each test
// checks out one connection, wraps it in a transaction on checkout, and
// rolls that transaction back on checkin, so tests never need teardown
// SQL and never see each other's writes.
//
// Built on tx.go's commit/rollback pairing and a pooled-connection
// lifecycle (acquire from a pool, use exclusively, return), composed
// into a begin-on-checkout / rollback-on-checkin wrapper. Ownership
// propagation ("allow") is carried on a context.Context value, the
// idiomatic Go analogue of an ambient per-task caller chain.
package sandbox

import (
	"context"
	"sync"
	"time"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// Mode selects how a Sandbox resolves "the connection for this call".
type Mode int

const (
	// Manual requires an explicit Acquire; calls made without an owner
	// in context fail.
	Manual Mode = iota
	// Auto checks out implicitly per call, giving no isolation.
	Auto
	// Shared routes every caller's requests to a single owner's
	// connection.
	Shared
)

// TxConn is the subset of connection behavior the sandbox drives
// directly: beginning and ending the wrapper transaction.
type TxConn interface {
	Begin(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Pool is the subset of pool.Pool the sandbox needs, parameterized so
// this package has no dependency on the concrete pool implementation.
type Pool interface {
	Borrow(ctx context.Context) (TxConn, error)
	Return(ctx context.Context, conn TxConn) error
	Invalidate(ctx context.Context, conn TxConn) error
}

type ownerKey struct{}

// Owner represents one acquired, transaction-wrapped lease.
type Owner struct {
	conn      TxConn
	sandbox   *Sandbox
	mu        sync.Mutex
	released  bool
}

// Context returns a context carrying this owner, for allow propagation
// into spawned goroutines: pass it down instead of the parent's.
func (o *Owner) Context(parent context.Context) context.Context {
	return context.WithValue(parent, ownerKey{}, o)
}

// Execute runs fn against the connection this owner checked out.
func (o *Owner) Execute(fn func(TxConn) error) error {
	return fn(o.conn)
}

// Sandbox wraps a connection pool with ownership-gated, transaction-
// scoped checkout/checkin.
type Sandbox struct {
	pool Pool
	mode Mode

	mu          sync.Mutex
	sharedOwner *Owner
}

// New creates a Sandbox over pool in the given mode.
func New(pool Pool, mode Mode) *Sandbox {
	return &Sandbox{pool: pool, mode: mode}
}

// SetMode changes the sandbox's mode.
func (s *Sandbox) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// AcquireOptions configures Acquire.
type AcquireOptions struct {
	// Shared, if true, auto-sets Shared mode and makes this the shared
	// owner for subsequent callers.
	Shared bool
	// OwnershipTimeout is not enforced: Acquire does not read it, and a
	// lease stays held until Release is called.
	OwnershipTimeout time.Duration
}

// Acquire borrows a connection, runs the post_checkout hook (BEGIN), and
// returns a new Owner. Acquire is synchronous: checkout and BEGIN both
// complete before it returns.
func (s *Sandbox) Acquire(ctx context.Context, opts AcquireOptions) (*Owner, error) {
	conn, err := s.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}

	if err := conn.Begin(ctx); err != nil {
		// post_checkout failure on a connection error: the connection is
		// unusable, signal the pool to replace it rather than returning
		// it to service.
		_ = s.pool.Invalidate(ctx, conn)
		return nil, bolterrors.WrapKind(bolterrors.KindConnection, err, "post_checkout BEGIN failed")
	}

	owner := &Owner{conn: conn, sandbox: s}

	s.mu.Lock()
	if opts.Shared {
		s.mode = Shared
		s.sharedOwner = owner
	}
	s.mu.Unlock()

	return owner, nil
}

// Release runs the pre_checkin hook (ROLLBACK) and returns the
// connection to the pool. Release is synchronous: ROLLBACK and checkin
// both complete before it returns. A ROLLBACK failure means the
// connection's integrity is uncertain, so it is invalidated instead of
// returned.
func (s *Sandbox) Release(ctx context.Context, owner *Owner) error {
	owner.mu.Lock()
	defer owner.mu.Unlock()
	if owner.released {
		return nil
	}
	owner.released = true

	s.mu.Lock()
	if s.sharedOwner == owner {
		s.sharedOwner = nil
	}
	s.mu.Unlock()

	if err := owner.conn.Rollback(ctx); err != nil {
		_ = s.pool.Invalidate(ctx, owner.conn)
		return bolterrors.WrapKind(bolterrors.KindConnection, err, "pre_checkin ROLLBACK failed")
	}
	return s.pool.Return(ctx, owner.conn)
}

// Resolve returns the connection a call made under ctx should use,
// per the sandbox's current mode, along with a release function the
// caller must invoke with the outcome of its work once done with the
// connection. The owner attached to ctx (if any) takes precedence in
// Manual and Auto; in Shared mode every caller resolves to the shared
// owner regardless of what's in ctx. In all three of those cases the
// connection's checkout/checkin is owned elsewhere (by Acquire/Release
// or the shared owner's lifecycle) and release is a no-op. Only in
// Auto mode with no owner in ctx does Resolve itself borrow a
// connection; release then returns it to the pool, or invalidates it
// if the caller's work failed - the implicit per-call checkout/checkin
// Auto promises, with no transaction wrapper and so no isolation.
func (s *Sandbox) Resolve(ctx context.Context) (TxConn, func(error) error, error) {
	s.mu.Lock()
	mode := s.mode
	shared := s.sharedOwner
	s.mu.Unlock()

	noop := func(error) error { return nil }

	if mode == Shared {
		if shared == nil {
			return nil, nil, bolterrors.New(bolterrors.KindInvalidInput, "sandbox is in shared mode but has no shared owner")
		}
		return shared.conn, noop, nil
	}

	if owner, ok := ctx.Value(ownerKey{}).(*Owner); ok {
		return owner.conn, noop, nil
	}

	if mode == Manual {
		return nil, nil, bolterrors.New(bolterrors.KindInvalidInput, "sandbox is in manual mode and this context has no owner; call Acquire and pass owner.Context")
	}

	// Auto mode with no owner in context: implicit per-call checkout,
	// no isolation. Callers that want isolation should use Manual.
	conn, err := s.pool.Borrow(ctx)
	if err != nil {
		return nil, nil, err
	}
	release := func(callErr error) error {
		if callErr != nil {
			return s.pool.Invalidate(ctx, conn)
		}
		return s.pool.Return(ctx, conn)
	}
	return conn, release, nil
}

// Execute resolves the connection for ctx per Resolve and runs fn
// against it, then releases it the same way Resolve's release function
// would: a no-op for an owned connection, or an implicit checkin for
// an Auto-mode per-call borrow.
func (s *Sandbox) Execute(ctx context.Context, fn func(TxConn) error) error {
	conn, release, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	err = fn(conn)
	if rerr := release(err); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// Allow grants child the right to route requests through owner's
// connection by returning a context.Context descended from ctx that
// resolves to owner. Pass the returned context into whatever starts
// the child's work.
func Allow(ctx context.Context, owner *Owner) context.Context {
	return owner.Context(ctx)
}
