package neobolt

import (
	"database/sql/driver"

	bolterrors "github.com/corebolt/neobolt/errors"
	"github.com/corebolt/neobolt/message"
)

// Stmt is the Neo-flavored prepared statement: a Cypher string bound
// to one Connection, runnable repeatedly with different parameters.
//
// The inner type carries the Neo-flavored Exec/Query; a sql-flavored
// wrapper adapts driver.Value args to the named parameter map Cypher
// expects.
type Stmt struct {
	conn   *Connection
	query  string
	closed bool
}

// NewStmt prepares statement for repeated execution against conn.
func NewStmt(conn *Connection, query string) *Stmt {
	return &Stmt{conn: conn, query: query}
}

// Close marks the statement unusable. Closing twice is a no-op.
func (s *Stmt) Close() error {
	s.closed = true
	return nil
}

// NumInput reports the number of placeholder parameters. Cypher has no
// fixed positional arity (it names parameters), so this always returns
// -1, database/sql's "unknown, don't validate" sentinel.
func (s *Stmt) NumInput() int { return -1 }

// ExecNeo runs the statement with params, discarding any result rows,
// and returns a summary Result.
func (s *Stmt) ExecNeo(params map[string]interface{}) (Result, error) {
	if s.closed {
		return nil, bolterrors.New(bolterrors.KindInvalidInput, "statement already closed")
	}
	run, err := s.conn.Run(s.query, params, nil)
	if err != nil {
		return nil, err
	}
	summary, err := s.conn.DiscardAll(-1, run.QueryID)
	if err != nil {
		return nil, err
	}
	return newResult(summary), nil
}

// QueryNeo runs the statement with params and buffers the full result.
func (s *Stmt) QueryNeo(params map[string]interface{}) (Rows, error) {
	if s.closed {
		return nil, bolterrors.New(bolterrors.KindInvalidInput, "statement already closed")
	}
	run, err := s.conn.Run(s.query, params, nil)
	if err != nil {
		return nil, err
	}

	var records [][]interface{}
	summary, err := s.conn.PullEach(-1, run.QueryID, func(rec message.Record) error {
		records = append(records, rec.Values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newRows(run.Fields, records, summary), nil
}

// sqlStmt adapts Stmt to database/sql/driver.Stmt.
type sqlStmt struct {
	*Stmt
}

func (s *sqlStmt) Exec(args []driver.Value) (driver.Result, error) {
	params, err := driverArgsToMap(args)
	if err != nil {
		return nil, err
	}
	return s.Stmt.ExecNeo(params)
}

func (s *sqlStmt) Query(args []driver.Value) (driver.Rows, error) {
	params, err := driverArgsToMap(args)
	if err != nil {
		return nil, err
	}
	return s.Stmt.QueryNeo(params)
}
