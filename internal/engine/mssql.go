// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"database/sql"

	_ "github.com/microsoft/go-mssqldb"
)

// mssqlRunner executes SQL against SQL Server.
type mssqlRunner struct {
	db *sql.DB
}

func openMSSQL(ctx context.Context, d *Descriptor) (Runner, error) {
	db, err := sql.Open("sqlserver", d.MSSQLURL())
	if err != nil {
		return nil, execFailure(err)
	}
	return &mssqlRunner{db: db}, nil
}

func (r *mssqlRunner) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *mssqlRunner) Tables(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT TOP (@limit) TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`,
		sql.Named("limit", limit))
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

func (r *mssqlRunner) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_NAME = @table ORDER BY ORDINAL_POSITION`,
		sql.Named("table", table))
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

func (r *mssqlRunner) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *mssqlRunner) Close() { _ = r.db.Close() }
