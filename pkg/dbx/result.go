package dbx

// QueryResult - normalized outcome of a statement that does not return rows.
// LastInsertId is 0 by convention for backends lacking the concept (postgres);
// callers needing the id there must use a RETURNING select instead.
type QueryResult struct {
	RowsAffected uint64 `json:"rowsAffected"`
	LastInsertId uint64 `json:"lastInsertId"`
}

// Row maps column names to normalized scalar values: nil, int64, float64,
// string or []byte.
type Row map[string]any

// RowSet is the ordered, fully materialized result of a read statement. It is
// not cached beyond a single response.
type RowSet []Row
