package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/dappfi/track-marketplace-go/journal"
	"github.com/dappfi/track-marketplace-go/journal/postgresengine/internal/adapters"
)

const (
	defaultRecordTableName          = "settlement_records"
	logMsgBuildSelectQueryFailed    = "failed to build select query"
	logMsgDBQueryFailed             = "database query execution failed"
	logMsgCloseRowsFailed           = "failed to close database rows"
	logMsgScanRowFailed             = "failed to scan database row"
	logMsgBuildStorableRecordFailed = "failed to build storable record from database row"
	logMsgBuildInsertQueryFailed    = "failed to build insert query"
	logMsgDBExecFailed              = "database execution failed during record append"
	logMsgRowsAffectedFailed        = "failed to get rows affected count"
	logMsgSingleRecordSQLFailed     = "failed to convert single record insert statement to SQL"
	logMsgMultiRecordSQLFailed      = "failed to convert multiple records insert statement to SQL"
	logMsgQueryCompleted            = "query completed"
	logMsgRecordsAppended           = "records appended"
	logMsgConcurrencyConflict       = "concurrency conflict detected"
	logMsgSQLExecuted               = "executed sql for: "
	logMsgOperation                 = "journal operation: "
	logAttrError                    = "error"
	logAttrQuery                    = "query"
	logAttrRecordType               = "record_type"
	logAttrRecordCount              = "record_count"
	logAttrDurationMS               = "duration_ms"
	logAttrExpectedRecords          = "expected_records"
	logAttrRowsAffected             = "rows_affected"
	logAttrExpectedSequence         = "expected_sequence"
	logActionQuery                  = "query"
	logActionAppend                 = "append"
	colRecordType                   = "record_type"
	colOccurredAt                   = "occurred_at"
	colPayload                      = "payload"
	colMetadata                     = "metadata"
	colSequenceNumber               = "sequence_number"
	cteContext                      = "context"
	cteVals                         = "vals"
	dialectPostgres                 = "postgres"
	aliasMaxSeq                     = "max_seq"
	castText                        = "?::text"
	castTimestamp                   = "?::timestamp with time zone"
	castJsonb                       = "?::jsonb"

	operationQuery             = "query"
	operationAppend            = "append"
	statusSuccess              = "success"
	statusError                = "error"
	spanNameQuery              = "journal.query"
	spanNameAppend             = "journal.append"
	spanAttrOperation          = "operation"
	spanAttrRecordCount        = "record_count"
	spanAttrRecordType         = "record_type"
	spanAttrMaxSequence        = "max_sequence"
	spanAttrExpectedSeq        = "expected_sequence"
	spanAttrRowsAffected       = "rows_affected"
	spanAttrDurationMS         = "duration_ms"
	spanAttrErrorType          = "error_type"
	metricQueryDuration        = "journal_query_duration_seconds"
	metricAppendDuration       = "journal_append_duration_seconds"
	metricRecordsQueried       = "journal_records_queried_total"
	metricRecordsAppended      = "journal_records_appended_total"
	metricDatabaseErrors       = "journal_database_errors_total"
	metricConcurrencyConflicts = "journal_concurrency_conflicts_total"
	errorTypeBuildQuery        = "build_query"
	errorTypeDBQuery           = "db_query"
	errorTypeScanRow           = "scan_row"
	errorTypeBuildRecord       = "build_record"
	errorTypeDBExec            = "db_exec"
	errorTypeRowsAffected      = "rows_affected"
	errorTypeConcurrency       = "concurrency_conflict"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// RecordStore is the PostgreSQL persistence engine of the settlement journal.
// It leverages a database adapter and supports customizable logging, metrics,
// tracing and record table configuration.
type RecordStore struct {
	db               adapters.DBAdapter
	recordTableName  string
	logger           journal.Logger
	contextualLogger journal.ContextualLogger
	metricsCollector journal.MetricsCollector
	tracingCollector journal.TracingCollector
}

type queryResultRow struct {
	recordType        string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber journal.MaxSequenceNumberUint
}

// NewRecordStoreFromPGXPool creates a new RecordStore using a pgx Pool with optional configuration.
func NewRecordStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (RecordStore, error) {
	if db == nil {
		return RecordStore{}, journal.ErrNilDatabaseConnection
	}

	rs := RecordStore{
		db:              adapters.NewPGXAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&rs); err != nil {
			return RecordStore{}, err
		}
	}

	return rs, nil
}

// NewRecordStoreFromPGXPoolWithReplica creates a new RecordStore using a primary and a replica pgx Pool.
// Reads go to the replica; appends always go to the primary.
func NewRecordStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (RecordStore, error) {
	if db == nil || replica == nil {
		return RecordStore{}, journal.ErrNilDatabaseConnection
	}

	rs := RecordStore{
		db:              adapters.NewPGXAdapterWithReplica(db, replica),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&rs); err != nil {
			return RecordStore{}, err
		}
	}

	return rs, nil
}

// NewRecordStoreFromSQLDB creates a new RecordStore using a sql.DB with optional configuration.
func NewRecordStoreFromSQLDB(db *sql.DB, options ...Option) (RecordStore, error) {
	if db == nil {
		return RecordStore{}, journal.ErrNilDatabaseConnection
	}

	rs := RecordStore{
		db:              adapters.NewSQLAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&rs); err != nil {
			return RecordStore{}, err
		}
	}

	return rs, nil
}

// NewRecordStoreFromSQLX creates a new RecordStore using a sqlx.DB with optional configuration.
func NewRecordStoreFromSQLX(db *sqlx.DB, options ...Option) (RecordStore, error) {
	if db == nil {
		return RecordStore{}, journal.ErrNilDatabaseConnection
	}

	rs := RecordStore{
		db:              adapters.NewSQLXAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&rs); err != nil {
			return RecordStore{}, err
		}
	}

	return rs, nil
}

// Query retrieves records from the Postgres journal based on the provided journal.Filter criteria
// and returns them as journal.StorableRecords
// as well as the MaxSequenceNumberUint for this filtered record stream at the time of the query.
func (rs RecordStore) Query(ctx context.Context, filter journal.Filter) (
	journal.StorableRecords,
	journal.MaxSequenceNumberUint,
	error,
) {

	var empty journal.StorableRecords

	tracing, ctx := rs.startQueryTracing(ctx)
	metrics := rs.startQueryMetrics(ctx)

	sqlQuery, buildQueryErr := rs.buildSelectQuery(filter)
	if buildQueryErr != nil {
		rs.logError(logMsgBuildSelectQueryFailed, buildQueryErr)
		rs.logErrorContext(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return empty, 0, buildQueryErr
	}

	rows, duration, queryErr := rs.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		tracing.finishError(errorTypeDBQuery, duration)
		metrics.recordError(errorTypeDBQuery, duration)

		return empty, 0, queryErr
	}
	defer rs.closeRows(rows)

	recordStream, maxSequenceNumber, scanErr := rs.processQueryResults(rows)
	if scanErr != nil {
		tracing.finishError(errorTypeScanRow, duration)
		metrics.recordError(errorTypeScanRow, duration)

		return empty, 0, scanErr
	}

	rs.logOperation(
		logMsgQueryCompleted,
		logAttrRecordCount, len(recordStream),
		logAttrDurationMS, rs.toMilliseconds(duration))
	rs.logOperationContext(ctx, logMsgQueryCompleted,
		logAttrRecordCount, len(recordStream),
		logAttrDurationMS, rs.toMilliseconds(duration))

	tracing.finishSuccess(recordStream, maxSequenceNumber, duration)
	metrics.recordSuccess(recordStream, duration)

	return recordStream, maxSequenceNumber, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (rs RecordStore) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := rs.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	rs.logQueryWithDuration(sqlQuery, logActionQuery, duration)
	rs.logQueryWithDurationContext(ctx, sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		rs.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		rs.logErrorContext(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(journal.ErrQueryingRecordsFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (rs RecordStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if rs.logger != nil {
			rs.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults processes database rows and converts them to storable records.
func (rs RecordStore) processQueryResults(rows adapters.DBRows) (
	journal.StorableRecords,
	journal.MaxSequenceNumberUint,
	error,
) {

	var empty journal.StorableRecords
	result := queryResultRow{}
	recordStream := make(journal.StorableRecords, 0)
	maxSequenceNumber := journal.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.recordType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber)
		if rowScanErr != nil {
			rs.logError(logMsgScanRowFailed, rowScanErr)

			return empty, 0, errors.Join(journal.ErrScanningDBRowFailed, rowScanErr)
		}

		record, buildStorableErr := journal.BuildStorableRecord(result.recordType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			rs.logError(logMsgBuildStorableRecordFailed, buildStorableErr, logAttrRecordType, result.recordType)

			return empty, 0, errors.Join(journal.ErrBuildingStorableRecordFailed, buildStorableErr)
		}

		recordStream = append(recordStream, record)
		maxSequenceNumber = result.maxSequenceNumber
	}

	return recordStream, maxSequenceNumber, nil
}

// Append attempts to append one or multiple journal.StorableRecord(s) onto the Postgres journal respecting concurrency constraints
// for this filtered record stream based on the provided journal.Filter criteria and the expected MaxSequenceNumberUint.
//
// The provided journal.Filter criteria should be the same as the ones used for the Query before appending.
//
// The insert query to append multiple records atomically is heavier than the one built to append a single record.
// One marketplace operation emits exactly one event, so the single-record path is the hot one.
// Only supply multiple records if you are sure that you need to append multiple records at once!
func (rs RecordStore) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
	record journal.StorableRecord,
	additionalRecords ...journal.StorableRecord,
) error {

	allRecords := journal.StorableRecords{record}
	allRecords = append(allRecords, additionalRecords...)

	tracing, ctx := rs.startAppendTracing(ctx, allRecords, expectedMaxSequenceNumber)
	metrics := rs.startAppendMetrics(ctx)

	sqlQuery, buildQueryErr := rs.buildAppendQuery(allRecords, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return buildQueryErr
	}

	rowsAffected, duration, execErr := rs.executeAppendQuery(ctx, sqlQuery)
	if execErr != nil {
		tracing.finishError(errorTypeDBExec, duration)
		metrics.recordError(errorTypeDBExec, duration)

		return execErr
	}

	if err := rs.validateAppendResult(ctx, rowsAffected, len(allRecords), expectedMaxSequenceNumber); err != nil {
		tracing.finishErrorWithAttrs(errorTypeConcurrency, map[string]string{
			spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
		})
		metrics.recordConcurrencyConflict()
		metrics.recordError(errorTypeConcurrency, duration)

		return err
	}

	rs.logOperation(
		logMsgRecordsAppended,
		logAttrRecordCount, len(allRecords),
		logAttrDurationMS, rs.toMilliseconds(duration),
	)
	rs.logOperationContext(ctx, logMsgRecordsAppended,
		logAttrRecordCount, len(allRecords),
		logAttrDurationMS, rs.toMilliseconds(duration),
	)

	tracing.finishSuccess(rowsAffected, duration)
	metrics.recordSuccess(len(allRecords), duration)

	return nil
}

// buildAppendQuery builds the appropriate SQL query for single or multiple records.
func (rs RecordStore) buildAppendQuery(
	allRecords journal.StorableRecords,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	var sqlQuery sqlQueryString
	var buildQueryErr error

	switch len(allRecords) {
	case 1:
		sqlQuery, buildQueryErr = rs.buildInsertQueryForSingleRecord(allRecords[0], filter, expectedMaxSequenceNumber)

	default:
		sqlQuery, buildQueryErr = rs.buildInsertQueryForMultipleRecords(allRecords, filter, expectedMaxSequenceNumber)
	}

	if buildQueryErr != nil {
		rs.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrRecordCount, len(allRecords))

		return "", buildQueryErr
	}

	return sqlQuery, nil
}

// executeAppendQuery executes the SQL append query and returns rows affected and duration.
func (rs RecordStore) executeAppendQuery(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := rs.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	rs.logQueryWithDuration(sqlQuery, logActionAppend, duration)
	rs.logQueryWithDurationContext(ctx, sqlQuery, logActionAppend, duration)

	if execErr != nil {
		rs.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		rs.logErrorContext(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(journal.ErrAppendingRecordFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		rs.logError(logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, duration, errors.Join(journal.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// validateAppendResult checks if the append operation was successful and detects concurrency conflicts.
func (rs RecordStore) validateAppendResult(
	ctx context.Context,
	rowsAffected int64,
	expectedRecordCount int,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) error {

	if rowsAffected < int64(expectedRecordCount) {
		rs.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedRecords, expectedRecordCount,
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		rs.logOperationContext(ctx, logMsgConcurrencyConflict,
			logAttrExpectedRecords, expectedRecordCount,
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)

		return journal.ErrConcurrencyConflict
	}

	return nil
}

func (rs RecordStore) buildSelectQuery(filter journal.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(rs.recordTableName).
		Select(colRecordType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = rs.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (rs RecordStore) buildInsertQueryForSingleRecord(
	record journal.StorableRecord,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// Define the subquery for the CTE
	cteStmt := builder.
		From(rs.recordTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = rs.addWhereClause(filter, cteStmt)

	// Define the SELECT for the INSERT
	selectStmt := builder.
		From(cteContext).
		Select(goqu.V(record.RecordType), goqu.V(record.OccurredAt), goqu.V(record.PayloadJSON), goqu.V(record.MetadataJSON)).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	// Finalize the full INSERT query
	insertStmt := builder.
		Insert(rs.recordTableName).
		Cols(colRecordType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		rs.logError(logMsgSingleRecordSQLFailed, toSQLErr, logAttrRecordType, record.RecordType)

		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (rs RecordStore) buildInsertQueryForMultipleRecords(
	records []journal.StorableRecord,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// Define the subquery for the CTE
	cteStmt := builder.
		From(rs.recordTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = rs.addWhereClause(filter, cteStmt)

	// Create individual SELECT statements for each record
	unionStatements := make([]*goqu.SelectDataset, len(records))
	for i, record := range records {
		unionStatements[i] = builder.
			Select(
				goqu.L(castText, record.RecordType).As(colRecordType),
				goqu.L(castTimestamp, record.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, record.PayloadJSON).As(colPayload),
				goqu.L(castJsonb, record.MetadataJSON).As(colMetadata),
			)
	}

	// Combine all SELECT statements with UNION ALL
	valuesStmt := unionStatements[0]
	for i := 1; i < len(unionStatements); i++ {
		valuesStmt = valuesStmt.UnionAll(unionStatements[i])
	}

	// Finalize the full INSERT query
	valsRecordType := fmt.Sprintf("%s.%s", cteVals, colRecordType)
	valsOccurredAt := fmt.Sprintf("%s.%s", cteVals, colOccurredAt)
	valsPayload := fmt.Sprintf("%s.%s", cteVals, colPayload)
	valsMetadata := fmt.Sprintf("%s.%s", cteVals, colMetadata)

	insertStmt := builder.
		Insert(rs.recordTableName).
		Cols(colRecordType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsRecordType, valsOccurredAt, valsPayload, valsMetadata).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		rs.logError(logMsgMultiRecordSQLFailed, toSQLErr, logAttrRecordCount, len(records))

		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (rs RecordStore) addWhereClause(filter journal.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		recordTypeExpressions := make([]goqu.Expression, 0)
		predicateExpressions := make([]goqu.Expression, 0)

		for _, recordType := range item.RecordTypes() {
			recordTypeExpressions = append(
				recordTypeExpressions,
				goqu.Ex{colRecordType: recordType},
			)
		}

		// recordTypes must always be filtered with OR ;-)
		recordTypesExpressionList := goqu.Or(recordTypeExpressions...)

		for _, predicate := range item.Predicates() {
			predicateExpressions = append(
				predicateExpressions,
				goqu.L(fmt.Sprintf(`%s @> '{"%s": "%s"}'`, colPayload, predicate.Key(), predicate.Val())),
			)
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(recordTypesExpressionList, predicatesExpressionList),
		)
	}

	selectStmt = selectStmt.Where(goqu.Or(itemsExpressions...))

	return selectStmt
}
