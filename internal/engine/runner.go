// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"database/sql"

	"wosool/insight/internal/errors"
)

// Result is the uniform outcome of executing a SQL statement.
type Result struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// Column describes one introspected column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Runner executes SQL against one database engine. Each variant owns its own
// connection lifecycle and translates driver errors into execution_failure.
type Runner interface {
	// Execute runs a statement and returns ordered columns plus row values.
	Execute(ctx context.Context, query string) (*Result, error)
	// Tables lists up to limit table names from the active schema.
	Tables(ctx context.Context, limit int) ([]string, error)
	// Columns lists name/type pairs for one table.
	Columns(ctx context.Context, table string) ([]Column, error)
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Close releases the pool or handle.
	Close()
}

func execFailure(err error) error {
	return errors.Wrap(errors.ExecutionFailure, "query execution failed", err)
}

// scanRows drains a database/sql rows cursor into a Result.
// Shared by the sqlite, oracle and mssql runners; postgres uses pgx natively.
func scanRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, execFailure(err)
	}
	res := &Result{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, execFailure(err)
		}
		for i, v := range vals {
			// Drivers hand back []byte for text-ish columns; keep JSON friendly.
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, execFailure(err)
	}
	res.RowCount = len(res.Rows)
	return res, nil
}
