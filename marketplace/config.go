package marketplace

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrNilLedger is returned when Create is called without an ownership ledger.
	ErrNilLedger = errors.New("ownership ledger must not be nil")

	// ErrNilPayments is returned when Create is called without a payments boundary.
	ErrNilPayments = errors.New("payments boundary must not be nil")

	// ErrEmptyAddress is returned when a required identity in the Config is empty.
	ErrEmptyAddress = errors.New("address must not be empty")
)

// Config carries the construction-time parameters of a Marketplace.
// All identities and the royalty policy beneficiary are fixed for the
// lifetime of the aggregate; only the royalty fee is mutable afterwards.
type Config struct {
	// CollectionName and CollectionSymbol label the catalog.
	CollectionName   string
	CollectionSymbol string

	// BaseURI is the resource locator prefix a track's metadata URI is
	// derived from. The engine stores it verbatim and never interprets it.
	BaseURI string

	// RoyaltyFee is the amount paid to the Beneficiary on every sale.
	RoyaltyFee Amount

	// Beneficiary receives the royalty on every sale.
	Beneficiary AddressString

	// Administrator is the only identity allowed to update the royalty fee.
	// All catalog tracks are initially listed on its behalf.
	Administrator AddressString

	// MarketAddress is the marketplace's own identity in the ownership
	// ledger and must differ from any caller.
	MarketAddress AddressString

	// AskPrices are the mint-time ask prices, one per track; the catalog
	// size N is len(AskPrices).
	AskPrices []Amount

	// Funding is the initial reserve and must equal RoyaltyFee * N.
	Funding Amount
}

// validate checks every construction precondition without touching any state.
func (cfg Config) validate() error {
	if cfg.Administrator == "" || cfg.Beneficiary == "" || cfg.MarketAddress == "" {
		return errors.Join(ErrConstructionInvariant, ErrEmptyAddress)
	}

	if len(cfg.AskPrices) == 0 {
		return fmt.Errorf("%w: catalog must contain at least one track", ErrConstructionInvariant)
	}

	for trackID, price := range cfg.AskPrices {
		if !isPositive(price) {
			return fmt.Errorf("%w: ask price of track %d must be greater than zero", ErrConstructionInvariant, trackID)
		}
	}

	requiredFunding, overflow := new(uint256.Int).MulOverflow(
		cloneOrZero(cfg.RoyaltyFee),
		uint256.NewInt(uint64(len(cfg.AskPrices))),
	)
	if overflow {
		return fmt.Errorf("%w: royalty funding amount overflows", ErrConstructionInvariant)
	}

	if !cloneOrZero(cfg.Funding).Eq(requiredFunding) {
		return fmt.Errorf(
			"%w: funding %s does not equal royalty fee times catalog size %s",
			ErrConstructionInvariant, cloneOrZero(cfg.Funding).Dec(), requiredFunding.Dec(),
		)
	}

	return nil
}
