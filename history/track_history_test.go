package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappfi/track-marketplace-go/history"
	"github.com/dappfi/track-marketplace-go/marketplace"
)

func Test_TrackHistoryQuery_ProjectsRecordedEvents(t *testing.T) {
	// arrange
	store := &fakeRecordStore{}
	recorder := history.NewRecorder(store)
	query := history.NewTrackHistoryQuery(store)

	firstSale := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, recorder.Record(context.Background(),
		marketplace.BuildTrackSold(3, testSeller, testBuyer, marketplace.NewAmount(300), firstSale)))
	require.NoError(t, recorder.Record(context.Background(),
		marketplace.BuildTrackRelisted(3, testBuyer, marketplace.NewAmount(500), firstSale.Add(time.Hour))))
	require.NoError(t, recorder.Record(context.Background(),
		marketplace.BuildTrackSold(3, testBuyer, testSeller, marketplace.NewAmount(500), firstSale.Add(2*time.Hour))))

	// act
	trackHistory, err := query.Handle(context.Background(), "3")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "3", trackHistory.TrackID)
	require.Len(t, trackHistory.Entries, 3)

	assert.Equal(t, marketplace.TrackSoldEventType, trackHistory.Entries[0].EventType)
	assert.Equal(t, testSeller, trackHistory.Entries[0].Seller)
	assert.Equal(t, testBuyer, trackHistory.Entries[0].Buyer)
	assert.Equal(t, "300", trackHistory.Entries[0].Price)
	assert.Equal(t, firstSale, trackHistory.Entries[0].OccurredAt)

	assert.Equal(t, marketplace.TrackRelistedEventType, trackHistory.Entries[1].EventType)
	assert.Equal(t, testBuyer, trackHistory.Entries[1].Seller)
	assert.Empty(t, trackHistory.Entries[1].Buyer, "a relisting has no buyer")
	assert.Equal(t, "500", trackHistory.Entries[1].Price)

	assert.Equal(t, marketplace.TrackSoldEventType, trackHistory.Entries[2].EventType)
	assert.Equal(t, testBuyer, trackHistory.Entries[2].Seller)
	assert.Equal(t, testSeller, trackHistory.Entries[2].Buyer)
}

func Test_TrackHistoryQuery_EmptyJournalYieldsEmptyHistory(t *testing.T) {
	// arrange
	query := history.NewTrackHistoryQuery(&fakeRecordStore{})

	// act
	trackHistory, err := query.Handle(context.Background(), "0")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "0", trackHistory.TrackID)
	assert.Empty(t, trackHistory.Entries)
}

func Test_TrackHistoryQuery_PropagatesJournalErrors(t *testing.T) {
	// arrange
	store := &fakeRecordStore{queryErr: assert.AnError}
	query := history.NewTrackHistoryQuery(store)

	// act
	_, err := query.Handle(context.Background(), "0")

	// assert
	require.ErrorIs(t, err, history.ErrQueryingTrackHistoryFailed)
	require.ErrorIs(t, err, assert.AnError)
}

func Test_ProjectTrackHistory_SkipsOtherTracks(t *testing.T) {
	// arrange
	when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := marketplace.DomainEvents{
		marketplace.BuildTrackSold(1, testSeller, testBuyer, marketplace.NewAmount(100), when),
		marketplace.BuildTrackSold(2, testSeller, testBuyer, marketplace.NewAmount(200), when),
		marketplace.BuildTrackRelisted(1, testBuyer, marketplace.NewAmount(150), when.Add(time.Hour)),
	}

	// act
	trackHistory := history.ProjectTrackHistory("1", events)

	// assert
	require.Len(t, trackHistory.Entries, 2)
	assert.Equal(t, marketplace.TrackSoldEventType, trackHistory.Entries[0].EventType)
	assert.Equal(t, "100", trackHistory.Entries[0].Price)
	assert.Equal(t, marketplace.TrackRelistedEventType, trackHistory.Entries[1].EventType)
	assert.Equal(t, "150", trackHistory.Entries[1].Price)
}

func Test_ProjectTrackHistory_EmptyEvents(t *testing.T) {
	trackHistory := history.ProjectTrackHistory("4", nil)

	assert.Equal(t, "4", trackHistory.TrackID)
	assert.Empty(t, trackHistory.Entries)
}
