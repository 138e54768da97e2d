// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package safety rejects SQL containing destructive operations before it
// reaches a database runner. The check is a case-insensitive substring
// denylist: it knowingly rejects safe literal uses of the listed words in
// exchange for never letting a destructive statement through. It is not a
// parser and can be evaded by comment or whitespace obfuscation; callers
// wanting real enforcement need statement-level classification with the same
// fail-closed contract.
package safety

import (
	"strings"

	"wosool/insight/internal/errors"
)

// denylist holds the mutating keywords rejected anywhere in a statement.
var denylist = []string{"DROP", "DELETE", "TRUNCATE", "ALTER", "GRANT"}

// Check returns a dangerous_operation error when the statement contains any
// denylisted keyword, or nil when it may proceed to execution.
func Check(sql string) error {
	upper := strings.ToUpper(sql)
	for _, kw := range denylist {
		if strings.Contains(upper, kw) {
			return errors.New(errors.DangerousOperation,
				"dangerous SQL operation detected: "+kw)
		}
	}
	return nil
}
