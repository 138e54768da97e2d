// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
)

// Open dispatches a descriptor to its concrete runner variant. Dispatch is
// pure: unknown kinds were already rejected by BuildDescriptor, and no runner
// instances are cached here (the server holds a single runner per process).
func Open(ctx context.Context, d *Descriptor) (Runner, error) {
	switch d.Kind {
	case KindSQLite:
		return openSQLite(ctx, d)
	case KindPostgres:
		return openPostgres(ctx, d)
	case KindOracle:
		return openOracle(ctx, d)
	case KindMSSQL:
		return openMSSQL(ctx, d)
	default:
		_, err := KindFromString(string(d.Kind))
		return nil, err
	}
}
