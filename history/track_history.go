package history

import (
	"context"
	"errors"
	"time"

	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/marketplace"
)

// ErrQueryingTrackHistoryFailed is returned when the journal could not be read.
var ErrQueryingTrackHistoryFailed = errors.New("querying track history failed")

// TrackHistoryEntry is one sale or relisting of a track as recorded in the journal.
type TrackHistoryEntry struct {
	EventType  string
	Seller     string
	Buyer      string
	Price      string
	OccurredAt time.Time
}

// TrackHistory is the ordered settlement history of one track.
type TrackHistory struct {
	TrackID string
	Entries []TrackHistoryEntry
}

// TrackHistoryQuery reads the settlement journal and projects the ordered
// history of one track. It tolerates slightly stale reads and marks its
// context for eventual consistency.
type TrackHistoryQuery struct {
	recordStore RecordStore
}

// NewTrackHistoryQuery creates a TrackHistoryQuery on top of the given record store.
func NewTrackHistoryQuery(recordStore RecordStore) *TrackHistoryQuery {
	return &TrackHistoryQuery{recordStore: recordStore}
}

// Handle returns the ordered history of the given track.
func (q *TrackHistoryQuery) Handle(ctx context.Context, trackID string) (TrackHistory, error) {
	ctx = journal.WithEventualConsistency(ctx)

	records, _, err := q.recordStore.Query(ctx, TrackRecordFilter(trackID))
	if err != nil {
		return TrackHistory{}, errors.Join(ErrQueryingTrackHistoryFailed, err)
	}

	events, err := DomainEventsFrom(records)
	if err != nil {
		return TrackHistory{}, errors.Join(ErrQueryingTrackHistoryFailed, err)
	}

	return ProjectTrackHistory(trackID, events), nil
}

// ProjectTrackHistory folds marketplace events into the history read model.
// Events of other tracks are skipped, so the projection is safe to run over
// a wider stream than one track's.
func ProjectTrackHistory(trackID string, events marketplace.DomainEvents) TrackHistory {
	history := TrackHistory{
		TrackID: trackID,
		Entries: make([]TrackHistoryEntry, 0, len(events)),
	}

	for _, event := range events {
		switch e := event.(type) {
		case marketplace.TrackSold:
			if e.TrackID != trackID {
				continue
			}

			history.Entries = append(history.Entries, TrackHistoryEntry{
				EventType:  e.EventType(),
				Seller:     e.Seller,
				Buyer:      e.Buyer,
				Price:      e.Price,
				OccurredAt: e.OccurredAt,
			})

		case marketplace.TrackRelisted:
			if e.TrackID != trackID {
				continue
			}

			history.Entries = append(history.Entries, TrackHistoryEntry{
				EventType:  e.EventType(),
				Seller:     e.Seller,
				Price:      e.Price,
				OccurredAt: e.OccurredAt,
			})
		}
	}

	return history
}
