package ledger

import (
	"errors"
)

// AddressString represents the identity of a track holder.
type AddressString = string

// TrackIDUint represents a track identifier in the dense range [0, N).
type TrackIDUint = uint

var (
	// ErrUnknownTrack is returned when the referenced track was never minted.
	ErrUnknownTrack = errors.New("track is not known to the ledger")

	// ErrNotCurrentOwner is returned when a transfer is attempted by anyone but the current owner.
	ErrNotCurrentOwner = errors.New("transfer sender is not the current owner")

	// ErrAlreadyMinted is returned when a track id is minted a second time.
	ErrAlreadyMinted = errors.New("track is already minted")

	// ErrEmptyOwnerAddress is returned when a mint or transfer names an empty owner address.
	ErrEmptyOwnerAddress = errors.New("owner address must not be empty")
)

// Ledger is the ownership primitive required from the environment.
//
// Uniqueness guarantee expected from every implementation: each minted track
// has exactly one current owner at all times, and Transfer succeeds only when
// from is that owner.
type Ledger interface {
	// Mint brings a track into existence with the given initial owner.
	//
	// Contract: when OwnerOf reported the track as unknown immediately before,
	// Mint with a non-empty owner must succeed. Callers rely on this to make a
	// pre-checked batch of mints all-or-nothing without an unwind path.
	Mint(owner AddressString, trackID TrackIDUint) error

	// OwnerOf reports the current holder of a track.
	OwnerOf(trackID TrackIDUint) (AddressString, error)

	// Transfer reassigns ownership of a track from its current owner to another address.
	Transfer(from AddressString, to AddressString, trackID TrackIDUint) error

	// BalanceOf reports how many tracks an address currently holds.
	BalanceOf(addr AddressString) uint
}
