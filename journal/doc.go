// Package journal defines the storage-agnostic surface of the settlement
// journal: the StorableRecord DTO, the record filter builder, the
// observability interfaces, and the consistency helpers.
//
// The journal is an ordered side channel. Mutating marketplace operations
// return the events they emit; a recorder appends them here so that sales
// and relistings stay observable in order, per track and globally. Nothing
// in the journal ever feeds back into marketplace state.
//
// Storage engine implementations live in subpackages, e.g. postgresengine.
package journal
