package batch

import (
	"container/list"
	"context"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"cqlbulk/internal/mapper"
)

// Engine runs the batching algorithm on the caller's goroutine: an open
// bucket per routing token, flushed when it would exceed the configured
// ceilings or when the input is exhausted. Per the single-operator-thread
// discipline, an Engine's bucket state must only ever be touched from the
// goroutine running Run; nothing here is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

type bucket struct {
	token uint64
	stmts []*mapper.Statement
	bytes int64
	elem  *list.Element
}

// Run consumes statements from in, in order, and emits batches to out,
// closing out before it returns either way. On cancellation it returns
// ctx.Err() without flushing open buckets; otherwise it drains in to
// completion, flushes every remaining open bucket oldest first, and
// returns nil.
func (e *Engine) Run(ctx context.Context, in <-chan *mapper.Statement, out chan<- *Batch) error {
	defer close(out)

	buckets := make(map[uint64]*bucket)
	order := list.New()

	emit := func(b *Batch) error {
		select {
		case out <- b:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	flush := func(b *bucket) error {
		order.Remove(b.elem)
		delete(buckets, b.token)
		return emit(&Batch{Token: b.token, Statements: b.stmts})
	}

	flushAll := func() error {
		for el := order.Front(); el != nil; {
			next := el.Next()
			if err := flush(el.Value.(*bucket)); err != nil {
				return err
			}
			el = next
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case stmt, ok := <-in:
			if !ok {
				return flushAll()
			}

			token, grouped := e.groupToken(stmt)
			size := estimateSize(stmt)

			if !grouped {
				if err := emit(&Batch{Singleton: true, Statements: []*mapper.Statement{stmt}}); err != nil {
					return err
				}
				continue
			}
			if e.cfg.MaxSizeInBytes > 0 && size > e.cfg.MaxSizeInBytes {
				// A single statement alone exceeds the byte ceiling: it can
				// never coexist with anything else, so it ships as a
				// singleton rather than failing.
				if err := emit(&Batch{Singleton: true, Statements: []*mapper.Statement{stmt}}); err != nil {
					return err
				}
				continue
			}

			b, exists := buckets[token]
			if !exists {
				b = &bucket{token: token}
				b.elem = order.PushBack(b)
				buckets[token] = b
			}

			exceedsCount := e.cfg.MaxBatchStatements > 0 && len(b.stmts)+1 > e.cfg.MaxBatchStatements
			exceedsBytes := e.cfg.MaxSizeInBytes > 0 && b.bytes+size > e.cfg.MaxSizeInBytes
			if len(b.stmts) > 0 && (exceedsCount || exceedsBytes) {
				if err := flush(b); err != nil {
					return err
				}
				b = &bucket{token: token}
				b.elem = order.PushBack(b)
				buckets[token] = b
			}

			b.stmts = append(b.stmts, stmt)
			b.bytes += size
		}
	}
}

// groupToken derives the routing token to bucket stmt under, and whether
// stmt participates in grouping at all (statements with no routing key, or
// no replica hints under REPLICA_SET mode, bypass grouping entirely).
func (e *Engine) groupToken(stmt *mapper.Statement) (uint64, bool) {
	switch e.cfg.Mode {
	case ReplicaSet:
		if len(stmt.ReplicaHints) == 0 {
			return 0, false
		}
		hints := append([]string(nil), stmt.ReplicaHints...)
		sort.Strings(hints)
		return xxh3.HashString(strings.Join(hints, ",")), true
	default: // PartitionKey
		if !stmt.HasRoutingKey() {
			return 0, false
		}
		return stmt.RoutingToken, true
	}
}
