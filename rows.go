package neobolt

import (
	"database/sql/driver"
	"io"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// Rows is the Neo-flavored result cursor: more useful than
// database/sql/driver.Rows because NextNeo returns values with their
// native Bolt type (graph.Node, graph.Relationship, graph.Path, ...)
// instead of forcing them through driver.Value.
//
// Avoids re-sending PULL_ALL per call (a second PULL_ALL on an
// exhausted stream is protocol-illegal on v4+) by eagerly buffering
// the full result when the statement runs, then serving Next/NextNeo
// from that buffer. Rows are NOT thread-safe.
type Rows interface {
	Columns() []string
	Close() error
	Next(dest []driver.Value) error
	NextNeo(dest []interface{}) (map[string]interface{}, error)
}

type neoRows struct {
	fields  []string
	records [][]interface{}
	summary map[string]interface{}
	pos     int
	closed  bool
}

func newRows(fields []string, records [][]interface{}, summary map[string]interface{}) *neoRows {
	return &neoRows{fields: fields, records: records, summary: summary}
}

// Columns returns the result's column names.
func (r *neoRows) Columns() []string { return r.fields }

// Close releases the cursor. Closing twice is a no-op.
func (r *neoRows) Close() error {
	r.closed = true
	return nil
}

// Next fills dest with the next row as database/sql/driver.Value,
// returning io.EOF once the result is exhausted.
func (r *neoRows) Next(dest []driver.Value) error {
	if r.closed {
		return bolterrors.New(bolterrors.KindInvalidInput, "rows are closed")
	}
	if r.pos >= len(r.records) {
		return io.EOF
	}
	row := r.records[r.pos]
	r.pos++
	for i, v := range row {
		dv, err := driver.DefaultParameterConverter.ConvertValue(v)
		if err != nil {
			// Bolt carries nodes/relationships/paths/maps that
			// database/sql/driver.Value cannot represent; surface the
			// raw value rather than failing the whole scan, matching how
			// the sql.driver surface is documented as "limited".
			dv = v
		}
		dest[i] = dv
	}
	return nil
}

// NextNeo fills dest with the next row's values in their native Bolt
// type, returning the terminal summary metadata and io.EOF once the
// result is exhausted.
func (r *neoRows) NextNeo(dest []interface{}) (map[string]interface{}, error) {
	if r.closed {
		return nil, bolterrors.New(bolterrors.KindInvalidInput, "rows are closed")
	}
	if r.pos >= len(r.records) {
		return r.summary, io.EOF
	}
	row := r.records[r.pos]
	r.pos++
	copy(dest, row)
	return nil, nil
}

// All drains every remaining row, for callers that want a slice
// rather than a Next loop.
func (r *neoRows) All() ([][]interface{}, map[string]interface{}) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, r.summary
}
