package mapper

import "cqlbulk/internal/record"

// Statement is a prepared CQL template bound to concrete values for one
// record. originalRecord is a weak back-reference: it exists only so the
// log manager can attribute a later execution failure to its source record,
// and must never be consulted to decide whether the statement itself is
// still "alive".
type Statement struct {
	Template     *Template
	Values       map[string]any
	RoutingKey   []byte
	RoutingToken uint64
	Consistency  string

	// ReplicaHints is populated by the driver layer, not the mapper: the
	// sorted-by-caller set of replica endpoints owning this statement's
	// data, consulted by the batching engine's REPLICA_SET grouping mode.
	ReplicaHints []string

	originalRecord *record.Record
}

// OriginalRecord returns the record this statement was produced from.
func (s *Statement) OriginalRecord() *record.Record { return s.originalRecord }

// HasRoutingKey reports whether the statement carries a non-empty routing
// key, i.e. whether it is eligible for partition-based batching.
func (s *Statement) HasRoutingKey() bool { return len(s.RoutingKey) > 0 }
