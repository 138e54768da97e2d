// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package safety

import (
	"testing"

	"wosool/insight/internal/errors"
)

func TestCheckRejectsDangerousStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{name: "drop upper", sql: "DROP TABLE customers"},
		{name: "delete lower", sql: "delete from customers where id = 1"},
		{name: "truncate", sql: "TRUNCATE orders"},
		{name: "alter mixed case", sql: "Alter table x add column y int"},
		{name: "grant lower", sql: "grant all on db to someone"},
		{name: "keyword inside select", sql: "SELECT * FROM audit WHERE action = 'DROP'"},
		{name: "keyword as substring of identifier", sql: "SELECT undeleted FROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.sql)
			if err == nil {
				t.Fatalf("Check(%q) = nil, want dangerous_operation", tt.sql)
			}
			if errors.KindOf(err) != errors.DangerousOperation {
				t.Errorf("Check(%q) kind = %v", tt.sql, errors.KindOf(err))
			}
		})
	}
}

func TestCheckAllowsReads(t *testing.T) {
	for _, sql := range []string{
		"SELECT COUNT(*) FROM customers",
		"select name, total from orders order by total desc limit 10",
		"WITH top AS (SELECT 1) SELECT * FROM top",
		"INSERT INTO notes (body) VALUES ('x')", // not on the denylist
	} {
		if err := Check(sql); err != nil {
			t.Errorf("Check(%q) = %v, want nil", sql, err)
		}
	}
}
