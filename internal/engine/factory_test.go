// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"path/filepath"
	"testing"

	"wosool/insight/internal/errors"
)

// openTestSQLite opens a runner against a throwaway database file.
func openTestSQLite(t *testing.T) Runner {
	t.Helper()
	d, err := BuildDescriptor(KindSQLite, func(key string) string {
		if key == "SQLITE_PATH" {
			return filepath.Join(t.TempDir(), "test.db")
		}
		return ""
	})
	if err != nil {
		t.Fatalf("BuildDescriptor error = %v", err)
	}
	r, err := Open(context.Background(), d)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestSQLiteRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := openTestSQLite(t)

	if _, err := r.Execute(ctx, `CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := r.Execute(ctx, `INSERT INTO customers (name) VALUES ('ada'), ('grace')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	res, err := r.Execute(ctx, `SELECT COUNT(*) AS n FROM customers`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "n" {
		t.Errorf("Columns = %v, want [n]", res.Columns)
	}
	if res.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", res.RowCount)
	}
}

func TestSQLiteRunnerIntrospection(t *testing.T) {
	ctx := context.Background()
	r := openTestSQLite(t)

	for _, stmt := range []string{
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER, total REAL)`,
	} {
		if _, err := r.Execute(ctx, stmt); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	tables, err := r.Tables(ctx, 10)
	if err != nil {
		t.Fatalf("Tables error = %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("Tables = %v, want 2 entries", tables)
	}

	cols, err := r.Columns(ctx, "orders")
	if err != nil {
		t.Fatalf("Columns error = %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("Columns = %v, want 3 entries", cols)
	}
	if cols[2].Name != "total" || cols[2].Type != "REAL" {
		t.Errorf("third column = %+v, want total REAL", cols[2])
	}
}

func TestSQLiteRunnerExecutionFailure(t *testing.T) {
	r := openTestSQLite(t)

	_, err := r.Execute(context.Background(), `SELECT * FROM no_such_table`)
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	if errors.KindOf(err) != errors.ExecutionFailure {
		t.Errorf("kind = %v, want execution_failure", errors.KindOf(err))
	}
}

func TestIntrospectionErrorsAreExecutionFailures(t *testing.T) {
	r := openTestSQLite(t)

	_, err := r.Columns(context.Background(), "no_such_table")
	if err != nil && errors.KindOf(err) != errors.ExecutionFailure {
		t.Errorf("kind = %v, want execution_failure", errors.KindOf(err))
	}

	if _, err := r.Execute(context.Background(), `CREATE TABLE t (x INT)`); err != nil {
		t.Fatalf("setup: %v", err)
	}
	r.Close()
	if _, err := r.Tables(context.Background(), 10); err != nil {
		if errors.KindOf(err) != errors.ExecutionFailure {
			t.Errorf("closed-runner kind = %v, want execution_failure", errors.KindOf(err))
		}
	}
}

func TestTablesLimit(t *testing.T) {
	ctx := context.Background()
	r := openTestSQLite(t)

	for _, stmt := range []string{
		`CREATE TABLE a (x INT)`, `CREATE TABLE b (x INT)`, `CREATE TABLE c (x INT)`,
	} {
		if _, err := r.Execute(ctx, stmt); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	tables, err := r.Tables(ctx, 2)
	if err != nil {
		t.Fatalf("Tables error = %v", err)
	}
	if len(tables) != 2 {
		t.Errorf("Tables limit not honored: %v", tables)
	}
}
