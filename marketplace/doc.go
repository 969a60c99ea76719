// Package marketplace implements the single-ledger track marketplace engine:
// a fixed catalog of uniquely-owned tracks minted at construction, atomic
// buy/resell settlement with a running royalty to a fixed beneficiary, and
// read-only inventory/holdings queries.
//
// All state lives in one aggregate, the Marketplace, created once with
// Create and mutated only through its operations. The execution model is
// strictly serial: every precondition is validated before any effect, and a
// failed operation leaves no observable state change. Each successful
// mutating call returns the domain event it emitted (TrackSold or
// TrackRelisted) so callers can record the ordered settlement stream.
//
// Ownership resides in the external ledger.Ledger dependency; sale proceeds
// and royalties are credited through the Payments boundary. The engine never
// holds third-party funds - only its own royalty reserve.
package marketplace
