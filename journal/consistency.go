package journal

import "context"

// ConsistencyLevel defines the consistency requirements for journal operations.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database to ensure
	// read-after-write consistency. This is the default for journal operations
	// so that a recorder appending in sequence always sees its own writes.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from replica databases, trading consistency
	// for performance. Suitable for pure history queries that can tolerate
	// slightly stale data in exchange for a reduced load on the primary database.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "journal.consistency_level"

// WithStrongConsistency returns a context that signals journal operations
// should use the primary database for strong consistency guarantees.
//
// This is typically used by the recorder which performs read-check-write
// patterns and needs to ensure it sees the most recent sequence number.
//
// Example usage:
//
//	ctx = journal.WithStrongConsistency(ctx)
//	records, maxSeq, err := recordStore.Query(ctx, filter)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals journal operations
// may use replica databases for eventual consistency, trading consistency for
// performance.
//
// This is typically used by pure history queries that can tolerate slightly
// stale data in exchange for better performance and reduced primary database load.
//
// Example usage:
//
//	ctx = journal.WithEventualConsistency(ctx)
//	records, maxSeq, err := recordStore.Query(ctx, filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// If no consistency level is set, it returns StrongConsistency as the safe default
// for ordered journal appends.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}
	return StrongConsistency // Safe default for ordered appends
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
