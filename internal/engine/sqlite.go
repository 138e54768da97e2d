// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// sqliteRunner executes SQL against a local SQLite file.
type sqliteRunner struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, d *Descriptor) (Runner, error) {
	db, err := sql.Open("sqlite", d.Path)
	if err != nil {
		return nil, execFailure(err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	return &sqliteRunner{db: db}, nil
}

func (r *sqliteRunner) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *sqliteRunner) Tables(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT ?`, limit)
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

func (r *sqliteRunner) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type FROM pragma_table_info(?)`, table)
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

func (r *sqliteRunner) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *sqliteRunner) Close() { _ = r.db.Close() }
