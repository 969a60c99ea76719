package marketplace

// UnsoldTracks reports every track currently held by the marketplace and up
// for sale, in catalog order. The result is recomputed from current state on
// every call; there is no cached inventory.
func (m *Marketplace) UnsoldTracks() []TrackListing {
	unsold := make([]TrackListing, 0, len(m.listings))

	for trackID := range m.listings {
		id := TrackIDUint(trackID)

		owner, err := m.ownership.OwnerOf(id)
		if err != nil {
			continue
		}

		if owner != m.marketAddress {
			continue
		}

		if !m.listings[trackID].listed {
			continue
		}

		unsold = append(unsold, m.trackListing(id))
	}

	return unsold
}

// TracksOwnedBy reports every track the given address currently owns per the
// ownership ledger, in catalog order. Tracks held by the marketplace while
// listed never appear here; the entitled seller is not the owner until the
// sale falls through to a buy.
func (m *Marketplace) TracksOwnedBy(owner AddressString) []TrackListing {
	held := make([]TrackListing, 0)

	for trackID := range m.listings {
		id := TrackIDUint(trackID)

		current, err := m.ownership.OwnerOf(id)
		if err != nil {
			continue
		}

		if current != owner {
			continue
		}

		held = append(held, m.trackListing(id))
	}

	return held
}
