package ledger

// InMemoryLedger is the reference Ledger implementation backed by a plain map.
//
// It is not safe for concurrent use; the marketplace execution model is
// strictly serial, and callers that need concurrency must serialize access
// themselves.
type InMemoryLedger struct {
	owners map[TrackIDUint]AddressString
}

// NewInMemoryLedger creates an empty InMemoryLedger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		owners: make(map[TrackIDUint]AddressString),
	}
}

// Mint brings a track into existence with the given initial owner.
// Returns ErrAlreadyMinted if the track id is already assigned.
func (l *InMemoryLedger) Mint(owner AddressString, trackID TrackIDUint) error {
	if owner == "" {
		return ErrEmptyOwnerAddress
	}

	if _, exists := l.owners[trackID]; exists {
		return ErrAlreadyMinted
	}

	l.owners[trackID] = owner

	return nil
}

// OwnerOf reports the current holder of a track.
// Returns ErrUnknownTrack if the track was never minted.
func (l *InMemoryLedger) OwnerOf(trackID TrackIDUint) (AddressString, error) {
	owner, exists := l.owners[trackID]
	if !exists {
		return "", ErrUnknownTrack
	}

	return owner, nil
}

// Transfer reassigns ownership of a track from its current owner to another address.
// Returns ErrNotCurrentOwner unless from is the current owner.
func (l *InMemoryLedger) Transfer(from AddressString, to AddressString, trackID TrackIDUint) error {
	if to == "" {
		return ErrEmptyOwnerAddress
	}

	owner, exists := l.owners[trackID]
	if !exists {
		return ErrUnknownTrack
	}

	if owner != from {
		return ErrNotCurrentOwner
	}

	l.owners[trackID] = to

	return nil
}

// BalanceOf reports how many tracks an address currently holds.
func (l *InMemoryLedger) BalanceOf(addr AddressString) uint {
	count := uint(0)

	for _, owner := range l.owners {
		if owner == addr {
			count++
		}
	}

	return count
}

// Ensure InMemoryLedger implements Ledger.
var _ Ledger = (*InMemoryLedger)(nil)
