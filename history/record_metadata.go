package history

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/dappfi/track-marketplace-go/journal"
)

// ErrMappingToRecordMetadataFailed is returned when metadata conversion fails.
var ErrMappingToRecordMetadataFailed = errors.New("mapping to record metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the operation that caused this record.
type CausationID = string

// CorrelationID represents the ID correlating related records.
type CorrelationID = string

// RecordMetadata contains record tracking information.
type RecordMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildRecordMetadata creates RecordMetadata from UUID values.
func BuildRecordMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) RecordMetadata {
	return RecordMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// RecordMetadataFrom extracts RecordMetadata from a StorableRecord.
func RecordMetadataFrom(storableRecord journal.StorableRecord) (RecordMetadata, error) {
	metadata := new(RecordMetadata)
	err := jsoniter.ConfigFastest.Unmarshal(storableRecord.MetadataJSON, metadata)
	if err != nil {
		return RecordMetadata{}, errors.Join(ErrMappingToRecordMetadataFailed, err)
	}

	return *metadata, nil
}
