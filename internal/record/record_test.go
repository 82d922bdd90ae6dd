package record

import (
	"errors"
	"testing"
)

func TestNewRejectsNonPositivePosition(t *testing.T) {
	if _, err := New("raw", NewResource("file:///a.csv"), 0, nil); err == nil {
		t.Fatal("expected error for position 0")
	}
	if _, err := New("raw", NewResource("file:///a.csv"), -1, nil); err == nil {
		t.Fatal("expected error for negative position")
	}
}

func TestNewErrorRequiresCause(t *testing.T) {
	if _, err := NewError("raw", NewResource("file:///a.csv"), 1, nil); err == nil {
		t.Fatal("expected error when cause is nil")
	}
}

func TestRecordGetAndFields(t *testing.T) {
	entries := []Entry{
		{Field: IndexedField(0), Value: "a"},
		{Field: NamedField("b"), Value: 42},
	}
	rec, err := New("a,42", NewResource("file:///x.csv"), 1, entries)
	if err != nil {
		t.Fatal(err)
	}
	if rec.IsError() {
		t.Fatal("expected normal record")
	}
	v, ok := rec.Get(IndexedField(0))
	if !ok || v != "a" {
		t.Fatalf("Get(0) = %v, %v", v, ok)
	}
	v, ok = rec.Get(NamedField("b"))
	if !ok || v != 42 {
		t.Fatalf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := rec.Get(NamedField("missing")); ok {
		t.Fatal("expected miss for unknown field")
	}
	if len(rec.Fields()) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(rec.Fields()))
	}
}

func TestErrorRecordHasNoFields(t *testing.T) {
	cause := errors.New("boom")
	rec, err := NewError("bad,line", NewResource("file:///x.csv"), 3, cause)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.IsError() {
		t.Fatal("expected error record")
	}
	if !errors.Is(rec.Cause(), cause) {
		t.Fatalf("cause mismatch: %v", rec.Cause())
	}
	if len(rec.Entries()) != 0 {
		t.Fatal("expected no entries on error record")
	}
	if rec.Position() != 3 {
		t.Fatalf("position = %d", rec.Position())
	}
}

func TestResourceMemoizesLazyValue(t *testing.T) {
	calls := 0
	res := NewLazyResource(func() string {
		calls++
		return "file:///computed.csv"
	})
	if got := res.String(); got != "file:///computed.csv" {
		t.Fatalf("unexpected uri: %s", got)
	}
	_ = res.String()
	_ = res.String()
	if calls != 1 {
		t.Fatalf("expected fn called once, got %d", calls)
	}
}
