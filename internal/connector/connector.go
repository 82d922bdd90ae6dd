// Package connector defines the contract external record sources and sinks
// implement (spec §6): configure, init, close, and streaming read/write of
// record.Record values. The contract itself is the only production
// surface (concrete connector plugins are out of scope for the core
// pipeline, per spec §1); csvconn, jsonlconn and urlconn are reference test
// fixtures that exercise it end-to-end.
package connector

import (
	"context"

	"cqlbulk/internal/record"
)

// Connector is the contract a pluggable external source/sink implements.
type Connector interface {
	// Configure applies settings before Init. isRead selects which
	// direction of the connector (LOAD reads, UNLOAD writes) will be used.
	Configure(settings map[string]string, isRead bool) error

	// Init acquires whatever resources the connector needs (file handles,
	// network clients) ahead of the first Read/Write call.
	Init(ctx context.Context) error

	// Close releases every resource Init acquired. Safe to call more than
	// once.
	Close() error

	// Read publishes every record from the connector's resource(s), in
	// ascending position order within each resource URI (spec §5 ordering
	// guarantee (a)). The channel closes once every resource is exhausted
	// or ctx is cancelled.
	Read(ctx context.Context) (<-chan *record.Record, error)

	// Write consumes records from in and persists them, returning a
	// channel of ErrorRecords for any that failed to write (a per-record
	// ConnectorError). The channel closes once in is drained or ctx is
	// cancelled.
	Write(ctx context.Context, in <-chan *record.Record) (<-chan *record.Record, error)
}
