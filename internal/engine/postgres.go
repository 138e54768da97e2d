// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresRunner executes SQL over a pgx connection pool.
type postgresRunner struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, d *Descriptor) (Runner, error) {
	pool, err := pgxpool.New(ctx, d.PostgresURL())
	if err != nil {
		return nil, execFailure(err)
	}
	return &postgresRunner{pool: pool}, nil
}

func (r *postgresRunner) Execute(ctx context.Context, query string) (*Result, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, execFailure(err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	res := &Result{Columns: make([]string, len(fds)), Rows: [][]any{}}
	for i, fd := range fds {
		res.Columns[i] = string(fd.Name)
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, execFailure(err)
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, execFailure(err)
	}
	res.RowCount = len(res.Rows)
	return res, nil
}

func (r *postgresRunner) Tables(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		 ORDER BY table_name LIMIT $1`, limit)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, execFailure(err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, execFailure(err)
	}
	return names, nil
}

func (r *postgresRunner) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = $1
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()
	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, execFailure(err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, execFailure(err)
	}
	return cols, nil
}

func (r *postgresRunner) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

func (r *postgresRunner) Close() { r.pool.Close() }
