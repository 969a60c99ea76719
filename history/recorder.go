package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/marketplace"
)

const maxAppendRetries = 3

// ErrGeneratingMetadataFailed is returned when UUID generation for record metadata fails.
var ErrGeneratingMetadataFailed = errors.New("generating record metadata failed")

// ErrRecordingEventFailed is returned when an event could not be appended to the journal.
var ErrRecordingEventFailed = errors.New("recording event failed")

// RecordStore is the journal persistence surface the recorder and the history
// query need. postgresengine.RecordStore satisfies it.
type RecordStore interface {
	Query(ctx context.Context, filter journal.Filter) (journal.StorableRecords, journal.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter journal.Filter,
		expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
		record journal.StorableRecord,
		additionalRecords ...journal.StorableRecord,
	) error
}

// Recorder appends the events returned by mutating marketplace operations to
// the settlement journal, keeping the per-track record stream ordered.
type Recorder struct {
	recordStore RecordStore
}

// NewRecorder creates a Recorder on top of the given record store.
func NewRecorder(recordStore RecordStore) *Recorder {
	return &Recorder{recordStore: recordStore}
}

// Record appends one marketplace event to the journal.
//
// The append is guarded by the max sequence number of the event's per-track
// record stream, so concurrent recorders cannot interleave records of the
// same track out of order. On a concurrency conflict the sequence number is
// re-read and the append retried a bounded number of times.
func (r *Recorder) Record(ctx context.Context, event marketplace.DomainEvent) error {
	trackID, err := trackIDOf(event)
	if err != nil {
		return err
	}

	metadata, err := newRecordMetadata()
	if err != nil {
		return err
	}

	record, err := StorableRecordFrom(event, metadata)
	if err != nil {
		return err
	}

	filter := TrackRecordFilter(trackID)
	ctx = journal.WithStrongConsistency(ctx)

	var lastErr error

	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		_, maxSequenceNumber, queryErr := r.recordStore.Query(ctx, filter)
		if queryErr != nil {
			return errors.Join(ErrRecordingEventFailed, queryErr)
		}

		appendErr := r.recordStore.Append(ctx, filter, maxSequenceNumber, record)
		if appendErr == nil {
			return nil
		}

		if !errors.Is(appendErr, journal.ErrConcurrencyConflict) {
			return errors.Join(ErrRecordingEventFailed, appendErr)
		}

		lastErr = appendErr
	}

	return errors.Join(ErrRecordingEventFailed, lastErr)
}

// TrackRecordFilter builds the filter scoping the journal to one track's
// sale and relisting records.
func TrackRecordFilter(trackID string) journal.Filter {
	return journal.BuildRecordFilter().
		Matching().
		AnyRecordTypeOf(marketplace.TrackSoldEventType, marketplace.TrackRelistedEventType).
		AndAnyPredicateOf(journal.P("TrackID", trackID)).
		Finalize()
}

// newRecordMetadata generates fresh v7 UUIDs for a record appended outside any
// larger message flow, so causation and correlation both point at the message itself.
func newRecordMetadata() (RecordMetadata, error) {
	messageID, err := uuid.NewV7()
	if err != nil {
		return RecordMetadata{}, errors.Join(ErrGeneratingMetadataFailed, err)
	}

	return BuildRecordMetadata(messageID, messageID, messageID), nil
}

func trackIDOf(event marketplace.DomainEvent) (string, error) {
	switch e := event.(type) {
	case marketplace.TrackSold:
		return e.TrackID, nil
	case marketplace.TrackRelisted:
		return e.TrackID, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMappingToDomainEventUnknownRecordType, event.EventType())
	}
}
