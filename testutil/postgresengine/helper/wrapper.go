package helper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/dappfi/track-marketplace-go/journal/postgresengine"
	"github.com/dappfi/track-marketplace-go/testutil/postgresengine/config"
)

// Adapter type constants, selected with the ADAPTER_TYPE env var.
const (
	adapterTypeEnv = "ADAPTER_TYPE"
	typePGXPool    = "pgx.pool"
	typeSQLDB      = "sql.db"
	typeSQLXDB     = "sqlx.db"
)

const pingTimeout = 2 * time.Second

// Wrapper abstracts over the adapter type a RecordStore under test is built on.
type Wrapper interface {
	GetRecordStore() postgresengine.RecordStore
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	rs   postgresengine.RecordStore
}

func (w *PGXPoolWrapper) GetRecordStore() postgresengine.RecordStore {
	return w.rs
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db *sql.DB
	rs postgresengine.RecordStore
}

func (w *SQLDBWrapper) GetRecordStore() postgresengine.RecordStore {
	return w.rs
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db *sqlx.DB
	rs postgresengine.RecordStore
}

func (w *SQLXWrapper) GetRecordStore() postgresengine.RecordStore {
	return w.rs
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the
// ADAPTER_TYPE environment variable (pgx.pool when unset) and skips the
// calling test when the test database is not reachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	adapterTypeFromEnv := strings.ToLower(os.Getenv(adapterTypeEnv))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		pool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")
		skipUnlessReachable(t, pool.Ping, pool.Close)

		rs, err := postgresengine.NewRecordStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating record store")

		return &PGXPoolWrapper{pool: pool, rs: rs}

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()
		skipUnlessReachable(t, db.PingContext, func() { _ = db.Close() })

		rs, err := postgresengine.NewRecordStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating record store")

		return &SQLDBWrapper{db: db, rs: rs}

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()
		skipUnlessReachable(t, db.PingContext, func() { _ = db.Close() })

		rs, err := postgresengine.NewRecordStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating record store")

		return &SQLXWrapper{db: db, rs: rs}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterTypeFromEnv))
	}
}

// CleanUp truncates the settlement records table for the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	const truncate = "TRUNCATE TABLE settlement_records RESTART IDENTITY"

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err := w.pool.Exec(context.Background(), truncate)
		require.NoError(t, err, "error cleaning up the settlement records table")

	case *SQLDBWrapper:
		_, err := w.db.Exec(truncate)
		require.NoError(t, err, "error cleaning up the settlement records table")

	case *SQLXWrapper:
		_, err := w.db.Exec(truncate)
		require.NoError(t, err, "error cleaning up the settlement records table")

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}
}

func skipUnlessReachable(t testing.TB, ping func(ctx context.Context) error, closeDB func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		closeDB()
		t.Skipf("test database not reachable, skipping: %v", err)
	}
}
