package neobolt

import (
	"context"
	"database/sql/driver"
)

// sqlConn adapts Connection to database/sql/driver.Conn: one concrete
// connection type, two thin adapters selecting which parameter/result
// shape to expose.
type sqlConn struct {
	conn *Connection
}

func (c *sqlConn) Prepare(query string) (driver.Stmt, error) {
	return &sqlStmt{Stmt: NewStmt(c.conn, query)}, nil
}

func (c *sqlConn) Close() error {
	return c.conn.Goodbye(context.Background())
}

func (c *sqlConn) Begin() (driver.Tx, error) {
	if err := c.conn.Begin(context.Background()); err != nil {
		return nil, err
	}
	return &sqlTx{conn: c.conn}, nil
}

// Ping satisfies database/sql/driver.Pinger.
func (c *sqlConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx, c.conn.cfg.PingTimeout)
}

type sqlTx struct {
	conn *Connection
}

func (t *sqlTx) Commit() error   { return t.conn.Commit(context.Background()) }
func (t *sqlTx) Rollback() error { return t.conn.Rollback(context.Background()) }
