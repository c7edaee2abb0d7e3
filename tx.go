package neobolt

import "context"

// Tx is the Neo-flavored transaction handle: Commit/Rollback without a
// context.Context argument, for callers that already hold one
// Connection exclusively and don't need cancellation.
//
// Commit/Rollback send COMMIT/ROLLBACK and consume the response,
// delegating to Connection's transaction-depth-aware Commit/Rollback
// rather than assuming a single nesting level.
type Tx struct {
	conn   *Connection
	closed bool
}

// NewTx wraps conn's already-open transaction (the caller must have
// called conn.Begin first) in a Tx handle.
func NewTx(conn *Connection) *Tx {
	return &Tx{conn: conn}
}

// Commit commits and closes the transaction.
func (t *Tx) Commit() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Commit(context.Background())
}

// Rollback rolls back and closes the transaction.
func (t *Tx) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Rollback(context.Background())
}
