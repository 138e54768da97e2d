// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"database/sql"
	"strconv"

	go_ora "github.com/sijms/go-ora/v2"
)

// oracleRunner executes SQL through the pure-Go Oracle driver.
type oracleRunner struct {
	db *sql.DB
}

func openOracle(ctx context.Context, d *Descriptor) (Runner, error) {
	port, err := strconv.Atoi(d.Port)
	if err != nil {
		return nil, execFailure(err)
	}
	var opts map[string]string
	service := d.Service
	if service == "" {
		opts = map[string]string{"SID": d.SID}
	}
	connStr := go_ora.BuildUrl(d.Host, port, service, d.User, d.Password, opts)
	db, err := sql.Open("oracle", connStr)
	if err != nil {
		return nil, execFailure(err)
	}
	return &oracleRunner{db: db}, nil
}

func (r *oracleRunner) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, execFailure(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *oracleRunner) Tables(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT table_name FROM user_tables ORDER BY table_name FETCH FIRST :1 ROWS ONLY`, limit)
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

func (r *oracleRunner) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT column_name, data_type FROM user_tab_columns WHERE table_name = :1 ORDER BY column_id`, table)
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

func (r *oracleRunner) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *oracleRunner) Close() { _ = r.db.Close() }
