package marketplace

import (
	"errors"
)

var (
	// ErrTrackNotFound is returned when the referenced track id does not exist in the catalog.
	ErrTrackNotFound = errors.New("track does not exist in the catalog")

	// ErrTrackNotListed is returned when a buy is attempted on a track that is not up for sale.
	ErrTrackNotListed = errors.New("track is not up for sale")

	// ErrPriceMismatch is returned when the paid amount differs from the ask price (buy)
	// or the paid royalty differs from the current fee (resell).
	ErrPriceMismatch = errors.New("paid amount does not match the required amount")

	// ErrInvalidPrice is returned when a resale price is not positive.
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// ErrUnauthorized is returned when a fee update is attempted by a non-administrator
	// or a resell by a non-owner.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")

	// ErrInsufficientReserve is returned when the reserve cannot cover a royalty payout at buy time.
	ErrInsufficientReserve = errors.New("reserve cannot cover the royalty payout")

	// ErrConstructionInvariant is returned when catalog construction preconditions are violated:
	// the funding does not equal royaltyFee * N, or any ask price is not positive.
	ErrConstructionInvariant = errors.New("marketplace construction invariant violated")
)
