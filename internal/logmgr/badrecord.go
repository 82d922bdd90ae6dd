package logmgr

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Category names a bad-record file: one per spec error kind that can be
// attributed to a specific record and position.
type Category int

const (
	CategoryMapping Category = iota
	CategoryConnector
	CategoryLoad
	CategoryUnload
)

var allCategories = []Category{CategoryMapping, CategoryConnector, CategoryLoad, CategoryUnload}

func (c Category) filename() string {
	switch c {
	case CategoryMapping:
		return "mapping-errors.log"
	case CategoryConnector:
		return "connector-errors.log"
	case CategoryLoad:
		return "load-errors.log"
	case CategoryUnload:
		return "unload-errors.log"
	default:
		return "unknown-errors.log"
	}
}

// badRecordFile is a single append-only UTF-8 log, serialized through one
// mutex per spec §5's per-file single-writer discipline.
type badRecordFile struct {
	mu   sync.Mutex
	f    *os.File
	once sync.Once
}

// append writes one entry: Resource/Position/Source header lines followed
// by trace's sanitized text, with a trailing blank line separating entries.
func (b *badRecordFile) append(resource string, position int64, source any, cause error, sanitize func(error) string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := fmt.Sprintf("Resource: %s\nPosition: %d\nSource: %s\n%s\n\n",
		resource, position, escapeLine(source), sanitize(cause))
	_, err := b.f.WriteString(entry)
	return err
}

func (b *badRecordFile) Close() error {
	var err error
	b.once.Do(func() { err = b.f.Close() })
	return err
}

// escapeLine renders source as a single escaped line, regardless of
// embedded newlines or control characters, per spec §6's "escaped single
// line" requirement.
func escapeLine(source any) string {
	return strconv.Quote(fmt.Sprint(source))
}
