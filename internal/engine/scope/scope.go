package scope

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"clientflow/internal/platform/models"
)

// Principal identifies the caller for row-visibility narrowing.
type Principal struct {
	UserID string
	Role   models.Role
}

func (p Principal) isAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Ownership columns per table. Tables keyed by employee_id hold work records;
// tables keyed by user_id hold per-account data. Tables in neither list
// (clients, services, ...) are left unrestricted here and rely on route-level
// role gates instead.
var employeeScopedTables = map[string]bool{
	"weekly_reports":     true,
	"client_assignments": true,
	"tasks":              true,
	"time_entries":       true,
	"daily_task_logs":    true,
}

var userScopedTables = map[string]bool{
	"notifications":     true,
	"dashboard_widgets": true,
	"activity_logs":     true,
}

// tasks rows belong to the assignee, not the creator.
var ownershipColumnOverrides = map[string]string{
	"tasks": "assigned_to",
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Query describes one parameterized table fetch. Filters whose value is nil,
// an empty string, or the "_all"/"all" sentinel are skipped.
type Query struct {
	Table      string
	Columns    []string
	Filters    map[string]interface{}
	OrderBy    string
	Descending bool
	Limit      int
	Page       int
	PageSize   int
}

// OwnershipFilter returns the implicit equality column the query gains for
// the given principal, or "" when none applies.
func (q *Query) OwnershipFilter(p Principal) string {
	if p.isAdmin() {
		return ""
	}
	if employeeScopedTables[q.Table] {
		if col, ok := ownershipColumnOverrides[q.Table]; ok {
			return col
		}
		return "employee_id"
	}
	if userScopedTables[q.Table] {
		return "user_id"
	}
	return ""
}

func skipFilterValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == "" || s == "_all" || s == "all"
	}
	return false
}

// Build produces the row-select and exact-count statements for the query as
// issued by the given principal.
func (q *Query) Build(p Principal) (selectSQL string, selectArgs []interface{}, countSQL string, countArgs []interface{}, err error) {
	if !identPattern.MatchString(q.Table) {
		return "", nil, "", nil, fmt.Errorf("invalid table name %q", q.Table)
	}

	projection := "*"
	if len(q.Columns) > 0 {
		for _, col := range q.Columns {
			if !identPattern.MatchString(col) {
				return "", nil, "", nil, fmt.Errorf("invalid column name %q", col)
			}
		}
		projection = strings.Join(q.Columns, ", ")
	}

	var conds []string
	var args []interface{}

	if col := q.OwnershipFilter(p); col != "" {
		conds = append(conds, col+" = ?")
		args = append(args, p.UserID)
	}

	// Deterministic filter order keeps the emitted SQL stable across calls.
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := q.Filters[k]
		if skipFilterValue(v) {
			continue
		}
		if !identPattern.MatchString(k) {
			return "", nil, "", nil, fmt.Errorf("invalid filter column %q", k)
		}
		conds = append(conds, k+" = ?")
		args = append(args, v)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countSQL = "SELECT COUNT(*) FROM " + q.Table + where
	countArgs = args

	selectSQL = "SELECT " + projection + " FROM " + q.Table + where
	selectArgs = append([]interface{}{}, args...)

	if q.OrderBy != "" {
		if !identPattern.MatchString(q.OrderBy) {
			return "", nil, "", nil, fmt.Errorf("invalid order column %q", q.OrderBy)
		}
		selectSQL += " ORDER BY " + q.OrderBy
		if q.Descending {
			selectSQL += " DESC"
		}
	}

	switch {
	case q.Page > 0 && q.PageSize > 0:
		selectSQL += " LIMIT ? OFFSET ?"
		selectArgs = append(selectArgs, q.PageSize, (q.Page-1)*q.PageSize)
	case q.Limit > 0:
		selectSQL += " LIMIT ?"
		selectArgs = append(selectArgs, q.Limit)
	}

	return selectSQL, selectArgs, countSQL, countArgs, nil
}
