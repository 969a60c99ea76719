package marketplace

import (
	"time"
)

// Instead of implementing full value objects, alias types and helper methods are used here ...

// AddressString represents a caller, seller, or beneficiary identity.
type AddressString = string

// TrackIDUint represents a track identifier in the dense range [0, N).
type TrackIDUint = uint

// EventTypeString represents the type name of a domain event.
type EventTypeString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// Payments is the boundary through which the engine credits sale proceeds
// and royalty payouts. Crediting cannot fail; the engine validates every
// monetary precondition before the first deposit.
type Payments interface {
	Deposit(to AddressString, amount Amount)
}
