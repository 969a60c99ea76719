package journal

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

// StorableRecords is an alias type for a slice of StorableRecord
type StorableRecords = []StorableRecord

// StorableRecord is a DTO (data transfer object) used by the journal to append records and query them back.
//
// It is built on scalars to be completely agnostic of the implementation of the marketplace events in the client code.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableRecord
//   - BuildStorableRecordWithEmptyMetadata
type StorableRecord struct {
	RecordType   string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableRecord is a factory method for StorableRecord.
//
// It populates the StorableRecord with the given scalar input.
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableRecord(recordType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableRecord, error) {
	if !json.Valid(payloadJSON) {
		return StorableRecord{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableRecord{}, ErrInvalidMetadataJSON
	}

	return StorableRecord{
		RecordType:   recordType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableRecordWithEmptyMetadata is a factory method for StorableRecord.
//
// It populates the StorableRecord with the given scalar input and creates valid empty JSON for MetadataJSON.
// Returns an error if payloadJSON is not valid JSON.
func BuildStorableRecordWithEmptyMetadata(recordType string, occurredAt time.Time, payloadJSON []byte) (StorableRecord, error) {
	return BuildStorableRecord(recordType, occurredAt, payloadJSON, []byte("{}"))
}
