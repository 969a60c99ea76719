package journal

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty recordTableName supplied")
var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryingRecordsFailed = errors.New("querying records failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrBuildingStorableRecordFailed = errors.New("building the storable record failed")
var ErrAppendingRecordFailed = errors.New("appending the record failed")
var ErrGettingRowsAffectedFailed = errors.New("getting the rows affected count failed")

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number of a filtered record stream.
type MaxSequenceNumberUint = uint
