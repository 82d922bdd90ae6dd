package jsonlconn

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cqlbulk/internal/record"
)

func TestReadStreamsOneRecordPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.jsonl")
	body := `{"name":"alice","age":30}
{"name":"bob","age":40}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := c.Configure(map[string]string{"url": path}, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	out, err := c.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var recs []*record.Record
	for r := range out {
		recs = append(recs, r)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	name, ok := recs[0].Get(record.NamedField("name"))
	if !ok || name != "alice" {
		t.Fatalf("expected name=alice, got %v", name)
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")

	w := New()
	if err := w.Configure(map[string]string{"url": path}, false); err != nil {
		t.Fatal(err)
	}
	if err := w.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	in := make(chan *record.Record, 1)
	rec, err := record.New(nil, record.NewResource("mem"), 1, []record.Entry{
		{Field: record.NamedField("name"), Value: "alice"},
	})
	if err != nil {
		t.Fatal(err)
	}
	in <- rec
	close(in)

	errs, err := w.Write(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	for range errs {
		t.Fatal("expected no write errors")
	}
	w.Close()

	r := New()
	if err := r.Configure(map[string]string{"url": path}, true); err != nil {
		t.Fatal(err)
	}
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	out, err := r.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var got []*record.Record
	for rec := range out {
		got = append(got, rec)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 round-tripped record, got %d", len(got))
	}
	name, _ := got[0].Get(record.NamedField("name"))
	if name != "alice" {
		t.Fatalf("expected alice, got %v", name)
	}
}

func TestReadMalformedLineProducesErrorRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.jsonl")
	if err := os.WriteFile(path, []byte("{not valid json}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := c.Configure(map[string]string{"url": path}, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	out, err := c.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var recs []*record.Record
	for r := range out {
		recs = append(recs, r)
	}
	if len(recs) != 1 || !recs[0].IsError() {
		t.Fatalf("expected exactly one ErrorRecord, got %d", len(recs))
	}
}
