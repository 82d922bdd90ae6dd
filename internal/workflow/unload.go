package workflow

import (
	"context"
	"fmt"
	"sync"

	"cqlbulk/internal/mapper"
	"cqlbulk/internal/record"
)

// runUnload composes SchemaEngine.SelectTemplate -> Executor.ReadReactive ->
// Mapper.Unmap -> Connector.Write -> LogManager, per spec §4.6.
//
// The connector contract only surfaces per-record write failures, never
// per-record acknowledgements (see internal/connector.Connector.Write), so
// checkpointing here cannot be done incrementally as rows arrive: every
// unmapped row's position is tracked as pending until the connector's error
// stream closes, at which point whatever is still pending is logged as a
// success in one pass.
func (w *Workflow) runUnload(ctx context.Context) error {
	tmpl, err := w.cfg.SchemaEngine.SelectTemplate(w.cfg.Table)
	if err != nil {
		return fmt.Errorf("workflow: synthesizing select template: %w", err)
	}
	stmt := &mapper.Statement{Template: tmpl, Consistency: tmpl.Consistency}
	resource := record.NewResource(fqn(w.cfg.Table))

	var pendingMu sync.Mutex
	pending := make(map[int64]struct{})

	records := make(chan *record.Record)
	go func() {
		defer close(records)
		var position int64
		for res := range w.cfg.Executor.ReadReactive(ctx, stmt) {
			if !res.IsSuccess() {
				w.cfg.LogManager.UnloadError(res)
				continue
			}
			position++

			rec, uerr := w.cfg.Mapper.Unmap(res.Row, resource, position)
			if uerr != nil {
				errRec, _ := record.NewError(res.Row, resource, position, uerr)
				w.cfg.LogManager.MappingError(errRec)
				continue
			}

			pendingMu.Lock()
			pending[position] = struct{}{}
			pendingMu.Unlock()

			select {
			case records <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	errs, err := w.cfg.Connector.Write(ctx, records)
	if err != nil {
		return fmt.Errorf("workflow: opening connector write stream: %w", err)
	}
	for errRec := range errs {
		w.cfg.LogManager.ConnectorError(errRec)
		pendingMu.Lock()
		delete(pending, errRec.Position())
		pendingMu.Unlock()
	}

	pendingMu.Lock()
	remaining := pending
	pendingMu.Unlock()
	for pos := range remaining {
		w.cfg.LogManager.Success(resource, pos)
	}

	return ctx.Err()
}
