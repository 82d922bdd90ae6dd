package workflow

import (
	"context"
	"fmt"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/executor"
	"cqlbulk/internal/mapper"
)

// runLoad composes Connector.Read -> Mapper -> Batcher -> Executor.WriteBatch
// -> LogManager, per spec §4.6.
func (w *Workflow) runLoad(ctx context.Context) error {
	records, err := w.cfg.Connector.Read(ctx)
	if err != nil {
		return fmt.Errorf("workflow: opening connector read stream: %w", err)
	}

	statements := make(chan *mapper.Statement)
	go func() {
		defer close(statements)
		for rec := range records {
			if rec.IsError() {
				w.cfg.LogManager.ConnectorError(rec)
				continue
			}
			stmt, errRec := w.cfg.Mapper.Map(rec)
			if errRec != nil {
				w.cfg.LogManager.MappingError(errRec)
				continue
			}
			select {
			case statements <- stmt:
			case <-ctx.Done():
				return
			}
		}
	}()

	eng := batch.New(w.cfg.BatchConfig)
	batches := make(chan *batch.Batch)
	engErr := make(chan error, 1)
	go func() {
		engErr <- eng.Run(ctx, statements, batches)
	}()

	for b := range batches {
		for res := range w.cfg.Executor.WriteBatch(ctx, b) {
			w.recordWrite(res)
		}
	}

	return <-engErr
}

func (w *Workflow) recordWrite(res *executor.WriteResult) {
	if res.IsSuccess() {
		if rec := res.Statement.OriginalRecord(); rec != nil {
			w.cfg.LogManager.Success(rec.Resource(), rec.Position())
		}
		return
	}
	w.cfg.LogManager.LoadError(res)
}
