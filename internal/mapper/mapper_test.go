package mapper

import (
	"testing"

	"cqlbulk/internal/codec"
	"cqlbulk/internal/record"
)

func newTestRecord(t *testing.T, fields map[string]string) *record.Record {
	t.Helper()
	res := record.NewResource("test:///fixture.csv")
	entries := make([]record.Entry, 0, len(fields))
	for name, v := range fields {
		entries = append(entries, record.Entry{Field: record.NamedField(name), Value: v})
	}
	r, err := record.New(fields, res, 1, entries)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func testTemplate() *Template {
	return &Template{
		CQL: "INSERT INTO ip_by_country (country, ip, population) VALUES (?, ?, ?)",
		Variables: []Variable{
			{Name: "country", Internal: codec.InternalText, IsRoutingKey: true},
			{Name: "ip", Internal: codec.InternalText},
			{Name: "population", Internal: codec.InternalBigInt},
		},
	}
}

func newTestMapper(t *testing.T, decl string, opts ...codec.Option) *Mapper {
	t.Helper()
	mapping, err := ParseMapping(decl, false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext(opts...)
	reg := codec.BuildRegistry(ctx)
	m, err := New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMapBindsFieldsAndRoutingKey(t *testing.T) {
	m := newTestMapper(t, "country=country,ip=ip,population=population")
	rec := newTestRecord(t, map[string]string{"country": "US", "ip": "1.2.3.4", "population": "331000000"})

	stmt, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	if stmt.Values["country"] != "US" {
		t.Fatalf("unexpected country value: %v", stmt.Values["country"])
	}
	if stmt.Values["population"] != int64(331000000) {
		t.Fatalf("unexpected population value: %#v", stmt.Values["population"])
	}
	if !stmt.HasRoutingKey() {
		t.Fatal("expected a routing key derived from country")
	}
	if stmt.OriginalRecord() != rec {
		t.Fatal("expected back-reference to original record")
	}
}

func TestMapExtraFieldRejected(t *testing.T) {
	m := newTestMapper(t, "country=country")
	rec := newTestRecord(t, map[string]string{"country": "US", "ip": "1.2.3.4"})

	stmt, errRec := m.Map(rec)
	if stmt != nil {
		t.Fatal("expected no statement")
	}
	if _, ok := errRec.Cause().(*ExtraField); !ok {
		t.Fatalf("expected *ExtraField, got %T: %v", errRec.Cause(), errRec.Cause())
	}
}

func TestMapExtraFieldAllowed(t *testing.T) {
	mapping, err := ParseMapping("country=country", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext(codec.WithExtraMissingFieldsPolicy(true, false))
	reg := codec.BuildRegistry(ctx)
	m, err := New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err != nil {
		t.Fatal(err)
	}
	rec := newTestRecord(t, map[string]string{"country": "US", "ip": "1.2.3.4"})
	stmt, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	if stmt == nil {
		t.Fatal("expected a statement")
	}
}

func TestMapMissingFieldRejected(t *testing.T) {
	m := newTestMapper(t, "country=country,ip=ip")
	rec := newTestRecord(t, map[string]string{"country": "US"})

	stmt, errRec := m.Map(rec)
	if stmt != nil {
		t.Fatal("expected no statement")
	}
	if _, ok := errRec.Cause().(*MissingField); !ok {
		t.Fatalf("expected *MissingField, got %T: %v", errRec.Cause(), errRec.Cause())
	}
}

func TestMapMissingFieldAllowedLeavesUnset(t *testing.T) {
	mapping, err := ParseMapping("country=country,ip=ip", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext(codec.WithExtraMissingFieldsPolicy(false, true))
	reg := codec.BuildRegistry(ctx)
	m, err := New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err != nil {
		t.Fatal(err)
	}
	rec := newTestRecord(t, map[string]string{"country": "US"})
	stmt, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	if _, bound := stmt.Values["ip"]; bound {
		t.Fatal("expected ip to be left unset")
	}
}

func TestMapCodecFailureProducesErrorRecord(t *testing.T) {
	m := newTestMapper(t, "country=country,ip=ip,population=population")
	rec := newTestRecord(t, map[string]string{"country": "US", "ip": "1.2.3.4", "population": "not-a-number"})

	stmt, errRec := m.Map(rec)
	if stmt != nil {
		t.Fatal("expected no statement")
	}
	if _, ok := errRec.Cause().(*CodecFailure); !ok {
		t.Fatalf("expected *CodecFailure, got %T: %v", errRec.Cause(), errRec.Cause())
	}
}

func TestMapLiteralSource(t *testing.T) {
	mapping, err := ParseMapping("country='US',ip=ip,population=population", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext()
	reg := codec.BuildRegistry(ctx)
	m, err := New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err != nil {
		t.Fatal(err)
	}
	rec := newTestRecord(t, map[string]string{"ip": "1.2.3.4", "population": "1"})
	stmt, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	if stmt.Values["country"] != "US" {
		t.Fatalf("unexpected literal value: %v", stmt.Values["country"])
	}
}

func TestMapFunctionSourceHonorsUUIDGeneratorStrategy(t *testing.T) {
	tmpl := &Template{
		CQL: "INSERT INTO events (id, country) VALUES (?, ?)",
		Variables: []Variable{
			{Name: "id", Internal: codec.InternalUUID},
			{Name: "country", Internal: codec.InternalText},
		},
	}
	mapping, err := ParseMapping("id=uuid(),country=country", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext(codec.WithUUIDGenerator(codec.UUIDFixed))
	reg := codec.BuildRegistry(ctx)
	m, err := New(tmpl, mapping, reg, ctx, codec.ExternalString)
	if err != nil {
		t.Fatal(err)
	}

	rec := newTestRecord(t, map[string]string{"country": "US"})
	stmt1, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	stmt2, errRec := m.Map(rec)
	if errRec != nil {
		t.Fatalf("unexpected error record: %v", errRec.Cause())
	}
	if stmt1.Values["id"] != stmt2.Values["id"] {
		t.Fatalf("expected FIXED uuid() calls to agree, got %v != %v", stmt1.Values["id"], stmt2.Values["id"])
	}
}

func TestNewRejectsUnknownFunction(t *testing.T) {
	mapping, err := ParseMapping("country=bogus()", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext()
	reg := codec.BuildRegistry(ctx)
	_, err = New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err == nil {
		t.Fatal("expected an error for an unknown function reference")
	}
}

func TestNewRejectsUnknownVariable(t *testing.T) {
	mapping, err := ParseMapping("nonexistent=country", false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := codec.NewConversionContext()
	reg := codec.BuildRegistry(ctx)
	_, err = New(testTemplate(), mapping, reg, ctx, codec.ExternalString)
	if err == nil {
		t.Fatal("expected an error for a mapping entry targeting an unknown variable")
	}
}

func TestUnmapRoundTrip(t *testing.T) {
	m := newTestMapper(t, "country=country,ip=ip,population=population")
	values := map[string]any{"country": "US", "ip": "1.2.3.4", "population": int64(42)}
	res := record.NewResource("test:///out.csv")

	rec, err := m.Unmap(values, res, 1)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := rec.Get(record.NamedField("country"))
	if !ok || v != "US" {
		t.Fatalf("unexpected unmapped country: %v, %v", v, ok)
	}
	v, ok = rec.Get(record.NamedField("population"))
	if !ok || v != "42" {
		t.Fatalf("unexpected unmapped population: %v, %v", v, ok)
	}
}

func TestParseMappingIndexed(t *testing.T) {
	m, err := ParseMapping("country=0,ip=1", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Entries))
	}
	if !m.Entries[0].Source.Field.Indexed() || m.Entries[0].Source.Field.Index() != 0 {
		t.Fatalf("expected indexed field 0, got %#v", m.Entries[0].Source.Field)
	}
}

func TestParseMappingRejectsMalformedEntry(t *testing.T) {
	_, err := ParseMapping("country", false)
	if err == nil {
		t.Fatal("expected an error for an entry missing '='")
	}
}
