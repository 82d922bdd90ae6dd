// Package csvconn is a CSV Connector reference fixture, grounded on the
// teacher's streaming encoding/csv reader in
// internal/parser/csv/stream_rows.go: tolerant field counts, an
// optional header row mapped positionally onto named fields, and
// cooperative cancellation on every emit.
package csvconn

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cqlbulk/internal/record"
)

// Connector reads or writes a single CSV file. Columns names the write
// order (and, when HasHeader is false, the read field order too); on a
// header read the header row's own field names are used instead.
type Connector struct {
	Path      string
	Columns   []string
	HasHeader bool

	isRead    bool
	f         *os.File
	closeOnce sync.Once
}

// New returns a Connector with a header row assumed present, the common
// default for hand-authored CSV fixtures.
func New() *Connector { return &Connector{HasHeader: true} }

func (c *Connector) Configure(settings map[string]string, isRead bool) error {
	path, ok := settings["url"]
	if !ok || path == "" {
		return fmt.Errorf("csvconn: settings.url is required")
	}
	c.Path = strings.TrimPrefix(path, "file://")
	c.isRead = isRead
	if v, ok := settings["header"]; ok {
		c.HasHeader = v != "false"
	}
	if v, ok := settings["columns"]; ok && v != "" {
		c.Columns = strings.Split(v, ",")
	}
	return nil
}

func (c *Connector) Init(ctx context.Context) error {
	var err error
	if c.isRead {
		c.f, err = os.Open(c.Path)
	} else {
		c.f, err = os.Create(c.Path)
	}
	if err != nil {
		return fmt.Errorf("csvconn: %w", err)
	}
	return nil
}

func (c *Connector) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.f != nil {
			err = c.f.Close()
		}
	})
	return err
}

func (c *Connector) Read(ctx context.Context) (<-chan *record.Record, error) {
	out := make(chan *record.Record)
	resource := record.NewResource("file://" + c.Path)
	reader := csv.NewReader(c.f)
	reader.FieldsPerRecord = -1

	columns := c.Columns
	if c.HasHeader {
		hdr, err := reader.Read()
		if err != nil {
			close(out)
			return out, fmt.Errorf("csvconn: reading header: %w", err)
		}
		columns = hdr
	}

	go func() {
		defer close(out)
		var position int64
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			position++
			if err != nil {
				rec, buildErr := record.NewError(strings.Join(row, ","), resource, position, fmt.Errorf("csvconn: %w", err))
				if buildErr != nil {
					continue
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
				continue
			}

			entries := make([]record.Entry, 0, len(columns))
			for i, name := range columns {
				if i >= len(row) {
					break
				}
				entries = append(entries, record.Entry{Field: record.NamedField(name), Value: row[i]})
			}
			rec, err := record.New(strings.Join(row, ","), resource, position, entries)
			if err != nil {
				continue
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Connector) Write(ctx context.Context, in <-chan *record.Record) (<-chan *record.Record, error) {
	errs := make(chan *record.Record)
	w := csv.NewWriter(c.f)

	if c.HasHeader && len(c.Columns) > 0 {
		if err := w.Write(c.Columns); err != nil {
			close(errs)
			return errs, fmt.Errorf("csvconn: writing header: %w", err)
		}
	}

	go func() {
		defer close(errs)
		defer w.Flush()
		for {
			select {
			case rec, ok := <-in:
				if !ok {
					return
				}
				row := make([]string, len(c.Columns))
				for i, name := range c.Columns {
					v, _ := rec.Get(record.NamedField(name))
					row[i] = fmt.Sprint(v)
				}
				if err := w.Write(row); err != nil {
					bad, buildErr := record.NewError(rec.Source(), rec.Resource(), rec.Position(), fmt.Errorf("csvconn: %w", err))
					if buildErr == nil {
						select {
						case errs <- bad:
						case <-ctx.Done():
							return
						}
					}
					continue
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return errs, nil
}
