package workflow

import (
	"context"
	"fmt"

	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/mapper"
)

// runCount composes a synthesized COUNT(*) statement -> Executor.ReadReactive
// -> aggregator, per spec §4.6. The result is retrieved afterwards via
// Workflow.Count; printing it is the CLI's concern ("final printer").
func (w *Workflow) runCount(ctx context.Context) error {
	cql := fmt.Sprintf("SELECT COUNT(*) FROM %s", fqn(w.cfg.Table))
	stmt := &mapper.Statement{Template: &mapper.Template{CQL: cql}}

	var total int64
	for res := range w.cfg.Executor.ReadReactive(ctx, stmt) {
		if !res.IsSuccess() {
			w.cfg.LogManager.UnloadError(res)
			continue
		}
		total += firstNumeric(res.Row)
	}
	w.count.Store(total)
	return ctx.Err()
}

// firstNumeric extracts the single aggregate value a COUNT(*) row carries,
// regardless of which numeric Go type the driver chose to represent it.
func firstNumeric(row driverapi.Row) int64 {
	for _, v := range row {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case int32:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return 0
}
