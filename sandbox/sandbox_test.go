package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id         int
	begins     int
	rollbacks  int
	beginErr   error
	rollbackErr error
}

func (c *fakeConn) Begin(ctx context.Context) error    { c.begins++; return c.beginErr }
func (c *fakeConn) Rollback(ctx context.Context) error { c.rollbacks++; return c.rollbackErr }

type fakePool struct {
	conns      []*fakeConn
	next       int
	invalidated map[*fakeConn]bool
	returned    map[*fakeConn]bool
}

func newFakePool(n int) *fakePool {
	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = &fakeConn{id: i}
	}
	return &fakePool{conns: conns, invalidated: map[*fakeConn]bool{}, returned: map[*fakeConn]bool{}}
}

func (p *fakePool) Borrow(ctx context.Context) (TxConn, error) {
	c := p.conns[p.next%len(p.conns)]
	p.next++
	return c, nil
}

func (p *fakePool) Return(ctx context.Context, conn TxConn) error {
	p.returned[conn.(*fakeConn)] = true
	return nil
}

func (p *fakePool) Invalidate(ctx context.Context, conn TxConn) error {
	p.invalidated[conn.(*fakeConn)] = true
	return nil
}

func TestAcquireBeginsAndReleaseRollsBack(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)

	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, p.conns[0].begins)

	require.NoError(t, sb.Release(context.Background(), owner))
	assert.Equal(t, 1, p.conns[0].rollbacks)
	assert.True(t, p.returned[p.conns[0]])
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	require.NoError(t, sb.Release(context.Background(), owner))
	require.NoError(t, sb.Release(context.Background(), owner))
	assert.Equal(t, 1, p.conns[0].rollbacks)
}

func TestManualModeWithoutOwnerFails(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	_, _, err := sb.Resolve(context.Background())
	assert.Error(t, err)
}

func TestOwnerResolvesFromContext(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	ctx := owner.Context(context.Background())
	conn, release, err := sb.Resolve(ctx)
	require.NoError(t, err)
	assert.Same(t, p.conns[0], conn)
	assert.NoError(t, release(nil))
}

func TestAllowPropagatesOwnershipToChild(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	parentCtx := owner.Context(context.Background())
	childCtx := Allow(context.Background(), owner)

	parentConn, _, err := sb.Resolve(parentCtx)
	require.NoError(t, err)
	childConn, _, err := sb.Resolve(childCtx)
	require.NoError(t, err)
	assert.Same(t, parentConn, childConn)
}

func TestSharedModeRoutesEveryoneToSharedOwner(t *testing.T) {
	p := newFakePool(2)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{Shared: true})
	require.NoError(t, err)

	// A second, unrelated context still resolves to the shared owner.
	conn, release, err := sb.Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, owner.conn, conn)
	assert.NoError(t, release(nil))
}

func TestAutoModeWithNoOwnerBorrowsAndReturnsPerCall(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Auto)

	conn, release, err := sb.Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, p.conns[0], conn)
	assert.Equal(t, 0, p.conns[0].begins, "auto mode wraps no transaction")

	require.NoError(t, release(nil))
	assert.True(t, p.returned[p.conns[0]])
}

func TestAutoModeInvalidatesOnCallError(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Auto)

	boom := assertErr{}
	err := sb.Execute(context.Background(), func(conn TxConn) error {
		return boom
	})
	assert.Equal(t, boom, err)
	assert.True(t, p.invalidated[p.conns[0]])
	assert.False(t, p.returned[p.conns[0]])
}

func TestAutoModePrefersOwnerFromContext(t *testing.T) {
	p := newFakePool(2)
	sb := New(p, Auto)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	var used TxConn
	require.NoError(t, sb.Execute(owner.Context(context.Background()), func(conn TxConn) error {
		used = conn
		return nil
	}))
	assert.Same(t, owner.conn, used)
	assert.False(t, p.returned[p.conns[0]], "owned connections aren't returned by Execute")
}

func TestOwnerExecuteRunsAgainstCheckedOutConnection(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	var used TxConn
	require.NoError(t, owner.Execute(func(conn TxConn) error {
		used = conn
		return nil
	}))
	assert.Same(t, owner.conn, used)
}

func TestBeginFailureInvalidatesConnection(t *testing.T) {
	p := newFakePool(1)
	p.conns[0].beginErr = assertErr{}
	sb := New(p, Manual)

	_, err := sb.Acquire(context.Background(), AcquireOptions{})
	assert.Error(t, err)
	assert.True(t, p.invalidated[p.conns[0]])
}

func TestRollbackFailureInvalidatesConnection(t *testing.T) {
	p := newFakePool(1)
	sb := New(p, Manual)
	owner, err := sb.Acquire(context.Background(), AcquireOptions{})
	require.NoError(t, err)

	p.conns[0].rollbackErr = assertErr{}
	err = sb.Release(context.Background(), owner)
	assert.Error(t, err)
	assert.True(t, p.invalidated[p.conns[0]])
	assert.False(t, p.returned[p.conns[0]])
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
