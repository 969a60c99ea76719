// Package ledger defines the ownership ledger boundary the marketplace
// depends on: a primitive that assigns each track exactly one current owner
// and only lets the current owner give it away.
//
// The marketplace uses this capability, it does not reimplement a
// general-purpose ownership standard. InMemoryLedger is the reference
// implementation used by tests and demos; any implementation satisfying
// the Ledger interface and its uniqueness guarantee can be substituted.
package ledger
