// Package history provides conversion functions between marketplace events and
// storable journal records, plus the recorder and the per-track history query.
//
// This package implements the "imperative shell" pattern, handling the
// translation between the functional core (marketplace events) and the external
// storage layer (storable records). It manages record serialization,
// deserialization, and metadata handling for the settlement journal.
//
// The journal is strictly write-behind: the recorder appends the events a
// mutating marketplace operation returned, and the history query projects them
// back into a read model. Marketplace state is never derived from the journal.
package history
