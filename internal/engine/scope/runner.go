package scope

import (
	"context"
	"database/sql"
)

// Result carries one fetch: generic rows plus the exact pre-pagination count.
type Result struct {
	Rows       []map[string]interface{} `json:"rows"`
	TotalCount int                      `json:"total_count"`
}

type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// Run executes the query for the principal. Repeated runs without intervening
// mutations return identical rows and count. Errors are returned as-is; the
// caller decides how to surface them.
func (r *Runner) Run(ctx context.Context, p Principal, q *Query) (*Result, error) {
	selectSQL, selectArgs, countSQL, countArgs, err := q.Build(p)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{TotalCount: total, Rows: []map[string]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}

	return result, rows.Err()
}
