// Package batch implements the Batching Engine: it groups an ordered
// stream of bound statements into batches sharing a routing token, subject
// to a per-batch statement count and byte-size ceiling.
package batch

import "cqlbulk/internal/mapper"

// Mode selects how statements are grouped into batches.
type Mode int

const (
	// PartitionKey groups statements by the routing token the mapper
	// derived from the statement's partition-key bound variables.
	PartitionKey Mode = iota
	// ReplicaSet groups statements by the sorted set of replica hints
	// attached to the statement by the driver layer — a weaker grouping
	// key than the exact partition, useful when the driver only exposes
	// replica ownership rather than token ranges.
	ReplicaSet
)

// Batch is an ordered group of statements sharing a routing token (or, for
// singletons, no constraint at all).
type Batch struct {
	// Token is the routing token shared by every statement in the batch.
	// Zero and meaningless for singleton batches (Singleton == true).
	Token     uint64
	Singleton bool

	Statements []*mapper.Statement
}

// Config holds the Batching Engine's ceilings.
type Config struct {
	Mode Mode
	// MaxBatchStatements caps the number of statements per batch. Zero or
	// negative disables the cap.
	MaxBatchStatements int
	// MaxSizeInBytes caps the estimated serialized size per batch. Zero or
	// negative disables the cap.
	MaxSizeInBytes int64
}
