// Package logmgr implements the Log Manager: positional checkpointing,
// bad-record capture, and error-ceiling enforcement consuming the result
// streams produced by the connector, mapper, and executor.
package logmgr

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"cqlbulk/internal/executor"
	"cqlbulk/internal/record"
)

// Config holds the Log Manager's thresholds and on-disk layout. MaxErrors
// <= 0 disables the absolute ceiling; MaxErrorRatio <= 0 disables the ratio
// ceiling. MaxHeldPositions <= 0 means an unbounded held window (no hole
// eviction).
type Config struct {
	Dir              string
	MaxErrors        int64
	MaxErrorRatio    float64
	MaxHeldPositions int
	SanitizePrefixes []string
	SanitizeDepth    int
}

// Manager is a sink of Results and ErrorRecords, safe for concurrent use
// from any number of executor/mapper/connector goroutines.
type Manager struct {
	cfg       Config
	sanitizer *Sanitizer
	files     map[Category]*badRecordFile

	mu          sync.Mutex
	checkpoints map[string]*checkpoint

	errorCount int64
	totalCount int64
	aborted    atomic.Bool
	abortCh    chan *TooManyErrorsError
}

// New creates the execution directory (if absent) and opens all four
// bad-record files within it.
func New(cfg Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("logmgr: creating %s: %w", cfg.Dir, err)
	}
	m := &Manager{
		cfg:         cfg,
		sanitizer:   NewSanitizer(cfg.SanitizePrefixes, cfg.SanitizeDepth),
		files:       make(map[Category]*badRecordFile),
		checkpoints: make(map[string]*checkpoint),
		abortCh:     make(chan *TooManyErrorsError, 1),
	}
	for _, cat := range allCategories {
		f, err := os.OpenFile(filepath.Join(cfg.Dir, cat.filename()), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("logmgr: opening %s: %w", cat.filename(), err)
		}
		m.files[cat] = &badRecordFile{f: f}
	}
	return m, nil
}

func (m *Manager) checkpointFor(resource *record.Resource) *checkpoint {
	uri := resource.String()
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.checkpoints[uri]
	if !ok {
		cp = newCheckpoint(uri, m.cfg.MaxHeldPositions, m.onHoleEvicted)
		m.checkpoints[uri] = cp
	}
	return cp
}

func (m *Manager) onHoleEvicted(resource string, dropped int64) {
	log.Printf("logmgr: held-position window exceeded for %s; dropped tracking of position %s", resource, humanize.Comma(dropped))
}

// Success records a successfully processed position for resource and
// advances its contiguous checkpoint.
func (m *Manager) Success(resource *record.Resource, position int64) {
	atomic.AddInt64(&m.totalCount, 1)
	m.checkpointFor(resource).complete(position)
}

// Fail records a terminal failure against cat's bad-record file, advances
// resource's checkpoint past position, and evaluates the error ceiling.
func (m *Manager) Fail(cat Category, resource *record.Resource, position int64, source any, cause error) {
	atomic.AddInt64(&m.totalCount, 1)
	n := atomic.AddInt64(&m.errorCount, 1)
	m.checkpointFor(resource).complete(position)

	if err := m.files[cat].append(resource.String(), position, source, cause, m.sanitizer.Full); err != nil {
		log.Printf("logmgr: failed writing %s entry: %v", cat.filename(), err)
	}

	m.evaluateCeiling(n)
}

func (m *Manager) evaluateCeiling(observed int64) {
	countBreached := m.cfg.MaxErrors > 0 && observed > m.cfg.MaxErrors
	breached := countBreached
	if !breached && m.cfg.MaxErrorRatio > 0 {
		if total := atomic.LoadInt64(&m.totalCount); total > 0 {
			breached = float64(observed)/float64(total) > m.cfg.MaxErrorRatio
		}
	}
	if !breached {
		return
	}
	if m.aborted.CompareAndSwap(false, true) {
		log.Printf("logmgr: error ceiling breached (observed=%s threshold=%s ratio=%.4f); aborting",
			humanize.Comma(observed), humanize.Comma(m.cfg.MaxErrors), m.cfg.MaxErrorRatio)
		abort := &TooManyErrorsError{Observed: observed}
		if countBreached {
			abort.Threshold = m.cfg.MaxErrors
		} else {
			abort.Ratio = m.cfg.MaxErrorRatio
		}
		m.abortCh <- abort
	}
}

// Aborted reports the abort signal: at most one TooManyErrorsError is ever
// delivered on this channel, per the at-most-one-abort invariant. Failures
// observed after the channel fires are still logged to disk but never
// re-emit.
func (m *Manager) Aborted() <-chan *TooManyErrorsError { return m.abortCh }

// MappingError records a record the mapper could not convert.
func (m *Manager) MappingError(rec *record.Record) {
	m.Fail(CategoryMapping, rec.Resource(), rec.Position(), rec.Source(), rec.Cause())
}

// ConnectorError records a record the connector could not read or write.
func (m *Manager) ConnectorError(rec *record.Record) {
	m.Fail(CategoryConnector, rec.Resource(), rec.Position(), rec.Source(), rec.Cause())
}

// LoadError records a write statement the driver rejected, attributing it
// back to the record that produced it through the statement's weak
// back-reference.
func (m *Manager) LoadError(res *executor.WriteResult) {
	resource, position, source := attribution(res.Statement.OriginalRecord())
	m.Fail(CategoryLoad, resource, position, source, res.Err)
}

// UnloadError records a read page the driver rejected.
func (m *Manager) UnloadError(res *executor.ReadResult) {
	resource, position, source := attribution(res.Statement.OriginalRecord())
	m.Fail(CategoryUnload, resource, position, source, res.Err)
}

func attribution(rec *record.Record) (*record.Resource, int64, any) {
	if rec == nil {
		return record.NewResource("unknown"), 0, nil
	}
	return rec.Resource(), rec.Position(), rec.Source()
}

// ErrorCount returns the current terminal-failure count across all categories.
func (m *Manager) ErrorCount() int64 { return atomic.LoadInt64(&m.errorCount) }

// TotalCount returns the total number of outcomes observed (success + failure).
func (m *Manager) TotalCount() int64 { return atomic.LoadInt64(&m.totalCount) }

// Checkpoint returns the highest contiguous completed position recorded
// for resource.
func (m *Manager) Checkpoint(resource *record.Resource) int64 {
	return m.checkpointFor(resource).contiguousPosition()
}

// Close flushes and closes every bad-record file. Safe to call more than
// once.
func (m *Manager) Close() error {
	var first error
	for _, f := range m.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
