package marketplace

import (
	"strconv"
	"time"
)

const TrackSoldEventType = "TrackSold"

// TrackSold is emitted once per successful buy: the named seller was paid the
// full price, the beneficiary received the royalty, and ownership moved from
// the marketplace to the buyer.
type TrackSold struct {
	TrackID    string
	Seller     AddressString
	Buyer      AddressString
	Price      string
	OccurredAt OccurredAtTS
}

// BuildTrackSold is a factory method for TrackSold.
func BuildTrackSold(
	trackID TrackIDUint,
	seller AddressString,
	buyer AddressString,
	price Amount,
	occurredAt time.Time,
) TrackSold {

	return TrackSold{
		TrackID:    strconv.FormatUint(uint64(trackID), 10),
		Seller:     seller,
		Buyer:      buyer,
		Price:      cloneOrZero(price).Dec(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e TrackSold) EventType() EventTypeString {
	return TrackSoldEventType
}

func (e TrackSold) HasOccurredAt() time.Time {
	return e.OccurredAt
}
