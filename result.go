package neobolt

// Result represents the outcome of a query that returns no rows: a
// thin Neo-flavored wrapper around the summary metadata a COMMIT or
// DISCARD response carries.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

type neoResult struct {
	metadata     map[string]interface{}
	rowsAffected int64
}

func newResult(metadata map[string]interface{}) neoResult {
	affected := int64(-1)
	if stats, ok := metadata["stats"].(map[string]interface{}); ok {
		affected = sumCounters(stats)
	}
	return neoResult{metadata: metadata, rowsAffected: affected}
}

func sumCounters(stats map[string]interface{}) int64 {
	var total int64
	for _, key := range []string{"nodes-created", "nodes-deleted", "relationships-created", "relationships-deleted", "properties-set", "labels-added", "labels-removed"} {
		if v, ok := stats[key].(int64); ok {
			total += v
		}
	}
	return total
}

// LastInsertId is not meaningful for a graph database; it always
// returns -1.
func (r neoResult) LastInsertId() (int64, error) { return -1, nil }

// RowsAffected returns the sum of the write statistics Neo4j reports
// in the query summary, or -1 if the server reported none.
func (r neoResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }
