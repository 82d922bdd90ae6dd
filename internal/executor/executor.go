// Package executor implements the Bulk Executor: the concurrency core that
// dispatches bound statements against a driverapi.Driver under bounded
// in-flight/rate governance and produces a stream of results.
package executor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/mapper"
)

// Mode selects how the executor reacts to a per-statement failure when
// fanning out a stream of statements.
type Mode int

const (
	// FailSafe captures errors as failed Results and continues.
	FailSafe Mode = iota
	// FailFast cancels the upstream subscription and all in-flight work on
	// the first failure.
	FailFast
)

// Config holds the Bulk Executor's concurrency and rate knobs. A
// non-positive value for any *In-flight or *PerSecond field means
// unlimited, per spec §4.4.
type Config struct {
	MaxInFlightRequests  int
	MaxInFlightQueries   int
	MaxRequestsPerSecond float64
	Mode                 Mode

	// DryRun disables every write dispatch to the driver: statements are
	// still bound and batched exactly as in a live run, but
	// driver.ExecuteWrite/ExecuteBatch is never called and every write is
	// reported as succeeded. Reads are unaffected, since unload and count
	// have nothing to observe-but-not-send.
	DryRun bool
}

// Executor dispatches statements and batches against a driverapi.Driver.
// An Executor is safe for concurrent use.
type Executor struct {
	driver   driverapi.Driver
	cfg      Config
	requests *Semaphore
	queries  *Semaphore
	limiter  *RateLimiter
}

// New builds an Executor bound to driver.
func New(driver driverapi.Driver, cfg Config) *Executor {
	return &Executor{
		driver:   driver,
		cfg:      cfg,
		requests: NewSemaphore(cfg.MaxInFlightRequests),
		queries:  NewSemaphore(cfg.MaxInFlightQueries),
		limiter:  NewRateLimiter(cfg.MaxRequestsPerSecond),
	}
}

// gate applies the request semaphore and rate limiter, in that order, and
// runs fn while holding the request slot. It is the shared dispatch path
// for writes, batches and each page of a read.
func (e *Executor) gate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := e.requests.Acquire(ctx); err != nil {
		return err
	}
	defer e.requests.Release()
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

func (e *Executor) writeOne(ctx context.Context, stmt *mapper.Statement) *WriteResult {
	if e.cfg.DryRun {
		return &WriteResult{Statement: stmt}
	}
	err := e.gate(ctx, func(ctx context.Context) error {
		return e.driver.ExecuteWrite(ctx, stmt)
	})
	if err != nil {
		return &WriteResult{Statement: stmt, Err: &BulkExecutionError{Statement: stmt, Cause: err}}
	}
	return &WriteResult{Statement: stmt}
}

// WriteReactive dispatches a single statement and reports exactly one
// result.
func (e *Executor) WriteReactive(ctx context.Context, stmt *mapper.Statement) <-chan *WriteResult {
	out := make(chan *WriteResult, 1)
	go func() {
		defer close(out)
		out <- e.writeOne(ctx, stmt)
	}()
	return out
}

// WriteReactiveStream fans a stream of statements out to concurrent
// dispatch, preserving a one-result-per-input-statement contract but no
// specific ordering across statements. In FailFast mode, the first failure
// cancels the internal context: further input is no longer read, and
// results already in flight may still arrive before the channel closes.
func (e *Executor) WriteReactiveStream(ctx context.Context, in <-chan *mapper.Statement) <-chan *WriteResult {
	out := make(chan *WriteResult)
	go func() {
		defer close(out)
		g, gctx := errgroup.WithContext(ctx)

	loop:
		for {
			select {
			case <-gctx.Done():
				break loop
			case stmt, ok := <-in:
				if !ok {
					break loop
				}
				g.Go(func() error {
					res := e.writeOne(gctx, stmt)
					select {
					case out <- res:
					case <-gctx.Done():
						return gctx.Err()
					}
					if !res.IsSuccess() && e.cfg.Mode == FailFast {
						return res.Err
					}
					return nil
				})
			}
		}
		_ = g.Wait()
	}()
	return out
}

// WriteBatch dispatches an entire Batch as a single driver call, returning
// one WriteResult per statement it contains (a batch either succeeds or
// fails as a unit at the driver level, so a failed batch fails every
// statement it carries).
func (e *Executor) WriteBatch(ctx context.Context, b *batch.Batch) <-chan *WriteResult {
	out := make(chan *WriteResult, len(b.Statements))
	go func() {
		defer close(out)
		if e.cfg.DryRun {
			for _, stmt := range b.Statements {
				out <- &WriteResult{Statement: stmt}
			}
			return
		}
		err := e.gate(ctx, func(ctx context.Context) error {
			return e.driver.ExecuteBatch(ctx, b)
		})
		for _, stmt := range b.Statements {
			if err != nil {
				out <- &WriteResult{Statement: stmt, Err: &BulkExecutionError{Statement: stmt, Cause: err}}
			} else {
				out <- &WriteResult{Statement: stmt}
			}
		}
	}()
	return out
}

// ReadReactive executes a read statement and streams its rows, paging
// under continuous demand bounded by MaxInFlightRequests. The channel
// closes after the last row (successful completion) or after a single
// error Result (spec §4.4: "terminates with completion after last row, or
// with an error result").
func (e *Executor) ReadReactive(ctx context.Context, stmt *mapper.Statement) <-chan *ReadResult {
	out := make(chan *ReadResult)
	go func() {
		defer close(out)

		if err := e.queries.Acquire(ctx); err != nil {
			e.emitReadErr(ctx, out, stmt, err)
			return
		}
		defer e.queries.Release()

		var iter driverapi.RowIterator
		err := e.gate(ctx, func(ctx context.Context) error {
			it, err := e.driver.ExecuteRead(ctx, stmt)
			if err != nil {
				return err
			}
			iter = it
			return nil
		})
		if err != nil {
			e.emitReadErr(ctx, out, stmt, err)
			return
		}
		defer iter.Close()

		for {
			var row driverapi.Row
			var more bool
			err := e.gate(ctx, func(ctx context.Context) error {
				r, m, err := iter.Next(ctx)
				row, more = r, m
				return err
			})
			if err != nil {
				e.emitReadErr(ctx, out, stmt, err)
				return
			}
			if !more {
				return
			}
			select {
			case out <- &ReadResult{Statement: stmt, Row: row}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (e *Executor) emitReadErr(ctx context.Context, out chan<- *ReadResult, stmt *mapper.Statement, cause error) {
	res := &ReadResult{Statement: stmt, Err: &BulkExecutionError{Statement: stmt, Cause: cause}}
	select {
	case out <- res:
	case <-ctx.Done():
	}
}
