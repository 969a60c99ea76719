package history

import (
	"encoding/json"
	"errors"

	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/marketplace"
)

// ErrMappingToStorableRecordFailedForDomainEvent is returned when event serialization fails
var ErrMappingToStorableRecordFailedForDomainEvent = errors.New("mapping to storable record failed for domain event")

// ErrMappingToStorableRecordFailedForMetadata is returned when metadata serialization fails
var ErrMappingToStorableRecordFailedForMetadata = errors.New("mapping to storable record failed for metadata")

// StorableRecordFrom converts a DomainEvent and RecordMetadata to a StorableRecord
func StorableRecordFrom(event marketplace.DomainEvent, metadata RecordMetadata) (journal.StorableRecord, error) {
	payloadJSON, err := json.Marshal(event)
	if err != nil {
		return journal.StorableRecord{}, errors.Join(ErrMappingToStorableRecordFailedForDomainEvent, err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return journal.StorableRecord{}, errors.Join(ErrMappingToStorableRecordFailedForMetadata, err)
	}

	storableRecord, err := journal.BuildStorableRecord(
		event.EventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)

	if err != nil {
		return journal.StorableRecord{}, errors.Join(ErrMappingToStorableRecordFailedForDomainEvent, err)
	}

	return storableRecord, nil
}

// StorableRecordWithEmptyMetadataFrom converts a DomainEvent to a StorableRecord with empty metadata
func StorableRecordWithEmptyMetadataFrom(event marketplace.DomainEvent) (journal.StorableRecord, error) {
	payloadJSON, err := json.Marshal(event)
	if err != nil {
		return journal.StorableRecord{}, errors.Join(ErrMappingToStorableRecordFailedForDomainEvent, err)
	}

	storableRecord, err := journal.BuildStorableRecordWithEmptyMetadata(
		event.EventType(),
		event.HasOccurredAt(),
		payloadJSON,
	)

	if err != nil {
		return journal.StorableRecord{}, errors.Join(ErrMappingToStorableRecordFailedForDomainEvent, err)
	}

	return storableRecord, nil
}
