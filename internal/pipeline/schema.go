// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"wosool/insight/internal/engine"
)

// maxSchemaTables bounds introspection so huge databases do not blow up
// the prompt.
const maxSchemaTables = 10

// schemaSummary describes up to maxSchemaTables tables of the active
// database as prompt context. Introspection is best effort: any failure
// degrades to an explanatory string instead of aborting the pipeline.
func schemaSummary(ctx context.Context, r engine.Runner) string {
	tables, err := r.Tables(ctx, maxSchemaTables)
	if err != nil {
		return fmt.Sprintf("(schema unavailable: %v)", err)
	}
	if len(tables) == 0 {
		return "(no tables found)"
	}

	var b strings.Builder
	for _, table := range tables {
		cols, err := r.Columns(ctx, table)
		if err != nil {
			fmt.Fprintf(&b, "- %s (columns unavailable: %v)\n", table, err)
			continue
		}
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, c.Name+" "+c.Type)
		}
		fmt.Fprintf(&b, "- %s(%s)\n", table, strings.Join(parts, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
