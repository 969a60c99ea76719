package postgresengine_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappfi/track-marketplace-go/history"
	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/journal/postgresengine"
	"github.com/dappfi/track-marketplace-go/ledger"
	"github.com/dappfi/track-marketplace-go/marketplace"
	"github.com/dappfi/track-marketplace-go/testutil/postgresengine/config"
	. "github.com/dappfi/track-marketplace-go/testutil/postgresengine/helper" //nolint:revive
	"github.com/dappfi/track-marketplace-go/wallet"
)

const (
	testAdmin  = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	testMarket = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	testBuyer  = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"

	oneEther   = "1000000000000000000"
	royaltyWei = "10000000000000000"
	fundingWei = "30000000000000000" // royalty x 3 tracks
)

func Test_RecordStore_AppendAndQuery_RoundTrip(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	rs := wrapper.GetRecordStore()

	// arrange
	CleanUp(t, wrapper)
	fakeClock := time.Unix(0, 0).UTC()
	trackID := givenUniqueTrackID(t)
	sold := marketplace.BuildTrackSold(trackID, testAdmin, testBuyer, marketplace.MustAmountFromDecimal(oneEther), fakeClock)
	filter := history.TrackRecordFilter(sold.TrackID)

	_, maxSequenceNumber, queryErr := rs.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Equal(t, journal.MaxSequenceNumberUint(0), maxSequenceNumber, "fresh stream should start at sequence zero")

	// act
	appendErr := rs.Append(ctx, filter, maxSequenceNumber, toStorable(t, sold))

	// assert
	require.NoError(t, appendErr)

	records, maxSequenceNumber, queryErr := rs.Query(ctx, filter)
	require.NoError(t, queryErr)
	require.Len(t, records, 1)
	assert.Equal(t, journal.MaxSequenceNumberUint(1), maxSequenceNumber)

	restored, mapErr := history.DomainEventFrom(records[0])
	require.NoError(t, mapErr)
	assert.Equal(t, sold, restored, "the queried record should restore the appended event")
}

func Test_RecordStore_Append_DetectsConcurrencyConflict(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	rs := wrapper.GetRecordStore()

	// arrange
	CleanUp(t, wrapper)
	fakeClock := time.Unix(0, 0).UTC()
	trackID := givenUniqueTrackID(t)
	sold := marketplace.BuildTrackSold(trackID, testAdmin, testBuyer, marketplace.MustAmountFromDecimal(oneEther), fakeClock)
	relisted := marketplace.BuildTrackRelisted(trackID, testBuyer, marketplace.MustAmountFromDecimal(oneEther), fakeClock)
	filter := history.TrackRecordFilter(sold.TrackID)

	_, staleSequenceNumber, queryErr := rs.Query(ctx, filter)
	require.NoError(t, queryErr)
	require.NoError(t, rs.Append(ctx, filter, staleSequenceNumber, toStorable(t, sold)))

	// act: append with the sequence number from before the first append
	appendErr := rs.Append(ctx, filter, staleSequenceNumber, toStorable(t, relisted))

	// assert
	require.ErrorIs(t, appendErr, journal.ErrConcurrencyConflict)

	records, _, queryErr := rs.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, records, 1, "the conflicting record should not have been appended")
}

func Test_Recorder_And_TrackHistoryQuery_EndToEnd(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	rs := wrapper.GetRecordStore()

	// arrange
	CleanUp(t, wrapper)
	market := givenMarketplace(t)
	recorder := history.NewRecorder(rs)

	soldEvent, err := market.Buy(testBuyer, 1, marketplace.MustAmountFromDecimal(oneEther))
	require.NoError(t, err)
	require.NoError(t, recorder.Record(ctx, soldEvent))

	relistedEvent, err := market.Resell(
		testBuyer, 1,
		marketplace.MustAmountFromDecimal("2000000000000000000"),
		marketplace.MustAmountFromDecimal(royaltyWei),
	)
	require.NoError(t, err)
	require.NoError(t, recorder.Record(ctx, relistedEvent))

	// act
	trackHistory, err := history.NewTrackHistoryQuery(rs).Handle(ctx, "1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "1", trackHistory.TrackID)
	require.Len(t, trackHistory.Entries, 2)

	assert.Equal(t, marketplace.TrackSoldEventType, trackHistory.Entries[0].EventType)
	assert.Equal(t, testAdmin, trackHistory.Entries[0].Seller)
	assert.Equal(t, testBuyer, trackHistory.Entries[0].Buyer)
	assert.Equal(t, oneEther, trackHistory.Entries[0].Price)

	assert.Equal(t, marketplace.TrackRelistedEventType, trackHistory.Entries[1].EventType)
	assert.Equal(t, testBuyer, trackHistory.Entries[1].Seller)
	assert.Equal(t, "2000000000000000000", trackHistory.Entries[1].Price)
}

func Test_RecordStore_Query_FailsWithNonExistentTable(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithTableName("non_existent_table_1"))
	defer wrapper.Close()
	rs := wrapper.GetRecordStore()

	// act
	_, _, err := rs.Query(ctx, history.TrackRecordFilter("7"))

	// assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (postgresengine.RecordStore, error)
	}{
		{
			name: "NewRecordStoreFromPGXPool with nil",
			factoryFunc: func() (postgresengine.RecordStore, error) {
				return postgresengine.NewRecordStoreFromPGXPool(nil)
			},
		},
		{
			name: "NewRecordStoreFromPGXPoolWithReplica with nil",
			factoryFunc: func() (postgresengine.RecordStore, error) {
				return postgresengine.NewRecordStoreFromPGXPoolWithReplica(nil, nil)
			},
		},
		{
			name: "NewRecordStoreFromSQLDB with nil",
			factoryFunc: func() (postgresengine.RecordStore, error) {
				return postgresengine.NewRecordStoreFromSQLDB(nil)
			},
		},
		{
			name: "NewRecordStoreFromSQLX with nil",
			factoryFunc: func() (postgresengine.RecordStore, error) {
				return postgresengine.NewRecordStoreFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, journal.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_ShouldFail_WithEmptyTableName(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func(t *testing.T) (postgresengine.RecordStore, error)
	}{
		{
			name: "NewRecordStoreFromPGXPool with empty table name",
			factoryFunc: func(t *testing.T) (postgresengine.RecordStore, error) {
				pool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
				require.NoError(t, err, "error creating DB pool in test setup")
				defer pool.Close()

				return postgresengine.NewRecordStoreFromPGXPool(pool, postgresengine.WithTableName(""))
			},
		},
		{
			name: "NewRecordStoreFromSQLDB with empty table name",
			factoryFunc: func(_ *testing.T) (postgresengine.RecordStore, error) {
				db := config.PostgresSQLDBSingleConfig()
				defer func() { _ = db.Close() }()

				return postgresengine.NewRecordStoreFromSQLDB(db, postgresengine.WithTableName(""))
			},
		},
		{
			name: "NewRecordStoreFromSQLX with empty table name",
			factoryFunc: func(_ *testing.T) (postgresengine.RecordStore, error) {
				db := config.PostgresSQLXSingleConfig()
				defer func() { _ = db.Close() }()

				return postgresengine.NewRecordStoreFromSQLX(db, postgresengine.WithTableName(""))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc(t)

			// assert
			assert.ErrorIs(t, err, journal.ErrEmptyTableNameSupplied)
		})
	}
}

// givenUniqueTrackID keeps the per-track record streams of the DB-bound tests
// apart so they cannot see each other's records.
func givenUniqueTrackID(t *testing.T) marketplace.TrackIDUint {
	t.Helper()

	return marketplace.TrackIDUint(rand.Uint64N(1_000_000_000))
}

func toStorable(t *testing.T, event marketplace.DomainEvent) journal.StorableRecord {
	t.Helper()

	messageID, err := uuid.NewV7()
	require.NoError(t, err)

	record, err := history.StorableRecordFrom(event, history.BuildRecordMetadata(messageID, messageID, messageID))
	require.NoError(t, err)

	return record
}

func givenMarketplace(t *testing.T) *marketplace.Marketplace {
	t.Helper()

	cfg := marketplace.Config{
		CollectionName:   "DAppFi",
		CollectionSymbol: "DAPP",
		BaseURI:          "https://ipfs.io/ipfs/bafybeihdemo/",
		RoyaltyFee:       marketplace.MustAmountFromDecimal(royaltyWei),
		Beneficiary:      testAdmin,
		Administrator:    testAdmin,
		MarketAddress:    testMarket,
		AskPrices: []marketplace.Amount{
			marketplace.MustAmountFromDecimal(oneEther),
			marketplace.MustAmountFromDecimal(oneEther),
			marketplace.MustAmountFromDecimal(oneEther),
		},
		Funding: marketplace.MustAmountFromDecimal(fundingWei),
	}

	market, err := marketplace.Create(ledger.NewInMemoryLedger(), wallet.NewAccountBook(), cfg)
	require.NoError(t, err)

	return market
}
