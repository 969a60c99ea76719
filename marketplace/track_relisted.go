package marketplace

import (
	"strconv"
	"time"
)

const TrackRelistedEventType = "TrackRelisted"

// TrackRelisted is emitted once per successful resell: the caller handed the
// track back to the marketplace and is now the seller entitled to the
// proceeds of a future sale at the new price.
type TrackRelisted struct {
	TrackID    string
	Seller     AddressString
	Price      string
	OccurredAt OccurredAtTS
}

// BuildTrackRelisted is a factory method for TrackRelisted.
func BuildTrackRelisted(
	trackID TrackIDUint,
	seller AddressString,
	price Amount,
	occurredAt time.Time,
) TrackRelisted {

	return TrackRelisted{
		TrackID:    strconv.FormatUint(uint64(trackID), 10),
		Seller:     seller,
		Price:      cloneOrZero(price).Dec(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e TrackRelisted) EventType() EventTypeString {
	return TrackRelistedEventType
}

func (e TrackRelisted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
