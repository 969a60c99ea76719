package history

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/marketplace"
)

var (
	// ErrMappingToDomainEventFailed is returned when event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownRecordType is returned for unrecognized record types.
	ErrMappingToDomainEventUnknownRecordType = errors.New("unknown record type")
)

// DomainEventsFrom converts multiple StorableRecords to DomainEvents.
func DomainEventsFrom(storableRecords journal.StorableRecords) (marketplace.DomainEvents, error) {
	domainEvents := make(marketplace.DomainEvents, 0)

	for _, storableRecord := range storableRecords {
		domainEvent, err := DomainEventFrom(storableRecord)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableRecord to its corresponding DomainEvent.
func DomainEventFrom(storableRecord journal.StorableRecord) (marketplace.DomainEvent, error) {
	switch storableRecord.RecordType {
	case marketplace.TrackSoldEventType:
		return unmarshalTrackSold(storableRecord.PayloadJSON)

	case marketplace.TrackRelistedEventType:
		return unmarshalTrackRelisted(storableRecord.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownRecordType)
	}
}

func unmarshalTrackSold(payloadJSON []byte) (marketplace.DomainEvent, error) {
	payload := new(marketplace.TrackSold)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return marketplace.TrackSold{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return marketplace.TrackSold{
		TrackID:    payload.TrackID,
		Seller:     payload.Seller,
		Buyer:      payload.Buyer,
		Price:      payload.Price,
		OccurredAt: payload.OccurredAt,
	}, nil
}

func unmarshalTrackRelisted(payloadJSON []byte) (marketplace.DomainEvent, error) {
	payload := new(marketplace.TrackRelisted)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return marketplace.TrackRelisted{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return marketplace.TrackRelisted{
		TrackID:    payload.TrackID,
		Seller:     payload.Seller,
		Price:      payload.Price,
		OccurredAt: payload.OccurredAt,
	}, nil
}
