package marketplace

import (
	"time"
)

// DomainEvents is an alias type for a slice of DomainEvent.
type DomainEvents = []DomainEvent

// DomainEvent is implemented by every event the settlement engine emits.
//
// Event payloads are built on scalars (decimal strings for amounts, decimal
// track ids) so they marshal to flat JSON that record stores can filter on.
type DomainEvent interface {
	EventType() EventTypeString
	HasOccurredAt() time.Time
}
