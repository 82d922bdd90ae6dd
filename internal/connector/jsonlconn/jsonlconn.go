// Package jsonlconn is a line-delimited JSON Connector reference fixture,
// grounded on the teacher's encoding/json.Decoder streaming loop in
// internal/parser/json/stream_rows.go (the "Optional: handle additional
// top-level values (JSONL/NDJSON style)" branch of that file, promoted
// here to the primary shape rather than a fallback).
package jsonlconn

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"cqlbulk/internal/record"
)

// Connector reads or writes one newline-delimited JSON object per record.
type Connector struct {
	Path string

	isRead    bool
	f         *os.File
	closeOnce sync.Once
}

func New() *Connector { return &Connector{} }

func (c *Connector) Configure(settings map[string]string, isRead bool) error {
	path, ok := settings["url"]
	if !ok || path == "" {
		return fmt.Errorf("jsonlconn: settings.url is required")
	}
	c.Path = path
	c.isRead = isRead
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
		return fmt.Errorf("jsonlconn: %w", err)
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
	dec := json.NewDecoder(bufio.NewReader(c.f))

	go func() {
		defer close(out)
		var position int64
		for {
			var obj map[string]any
			decErr := dec.Decode(&obj)
			if decErr == io.EOF {
				return
			}
			position++
			if decErr != nil {
				rec, buildErr := record.NewError(nil, resource, position, fmt.Errorf("jsonlconn: %w", decErr))
				if buildErr != nil {
					return
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
				return
			}

			entries := make([]record.Entry, 0, len(obj))
			for k, v := range obj {
				entries = append(entries, record.Entry{Field: record.NamedField(k), Value: v})
			}
			rec, err := record.New(obj, resource, position, entries)
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
	enc := json.NewEncoder(c.f)

	go func() {
		defer close(errs)
		for {
			select {
			case rec, ok := <-in:
				if !ok {
					return
				}
				obj := make(map[string]any, len(rec.Fields()))
				for _, f := range rec.Fields() {
					v, _ := rec.Get(f)
					obj[f.String()] = v
				}
				if err := enc.Encode(obj); err != nil {
					bad, buildErr := record.NewError(rec.Source(), rec.Resource(), rec.Position(), fmt.Errorf("jsonlconn: %w", err))
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
