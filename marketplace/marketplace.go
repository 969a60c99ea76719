package marketplace

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dappfi/track-marketplace-go/ledger"
)

// Marketplace is the single owned aggregate holding the fixed catalog, the
// per-track listings, the royalty policy, and the royalty reserve.
//
// It is not safe for concurrent use: the execution model is strictly serial
// and every mutation runs to completion through exactly one operation, with
// all preconditions applied before any effect.
type Marketplace struct {
	collectionName   string
	collectionSymbol string
	baseURI          string

	administrator AddressString
	beneficiary   AddressString
	marketAddress AddressString

	royaltyFee Amount
	reserve    Amount
	listings   []listing

	ownership ledger.Ledger
	payments  Payments
}

// Create mints the catalog and constructs the Marketplace.
//
// Preconditions: at least one track, every ask price positive, and
// cfg.Funding equal to cfg.RoyaltyFee times the catalog size - the reserve
// must be pre-funded to cover one royalty payout per track. On any violation
// nothing is created and ErrConstructionInvariant is returned.
//
// Effects: every track is minted to the marketplace's own address in the
// ownership ledger and listed on behalf of the administrator at its
// mint-time ask price; the reserve is set to cfg.Funding.
func Create(ownership ledger.Ledger, payments Payments, cfg Config) (*Marketplace, error) {
	if ownership == nil {
		return nil, errors.Join(ErrConstructionInvariant, ErrNilLedger)
	}

	if payments == nil {
		return nil, errors.Join(ErrConstructionInvariant, ErrNilPayments)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// All track ids must be free before the first mint, so a rejected
	// construction leaves the ledger untouched.
	for trackID := range cfg.AskPrices {
		if _, err := ownership.OwnerOf(TrackIDUint(trackID)); err == nil {
			return nil, fmt.Errorf("%w: track %d is already minted", ErrConstructionInvariant, trackID)
		}
	}

	listings := make([]listing, 0, len(cfg.AskPrices))

	for trackID, price := range cfg.AskPrices {
		if err := ownership.Mint(cfg.MarketAddress, TrackIDUint(trackID)); err != nil {
			return nil, errors.Join(ErrConstructionInvariant, err)
		}

		listings = append(listings, listing{
			askPrice: price.Clone(),
			seller:   cfg.Administrator,
			listed:   true,
		})
	}

	m := &Marketplace{
		collectionName:   cfg.CollectionName,
		collectionSymbol: cfg.CollectionSymbol,
		baseURI:          cfg.BaseURI,
		administrator:    cfg.Administrator,
		beneficiary:      cfg.Beneficiary,
		marketAddress:    cfg.MarketAddress,
		royaltyFee:       cloneOrZero(cfg.RoyaltyFee),
		reserve:          cloneOrZero(cfg.Funding),
		listings:         listings,
		ownership:        ownership,
		payments:         payments,
	}

	return m, nil
}

// Buy settles the purchase of a listed track by buyer at exactly its current
// ask price.
//
// As one indivisible step it pays the entitled seller the full price, pays
// the current royalty fee from the reserve to the beneficiary, transfers
// ownership from the marketplace to the buyer, and delists the track. The
// returned TrackSold event is the observable record of the sale.
//
// Rejected with no state change when the track does not exist
// (ErrTrackNotFound), is not listed (ErrTrackNotListed), paid differs from
// the ask price (ErrPriceMismatch), or the reserve cannot cover the royalty
// (ErrInsufficientReserve).
func (m *Marketplace) Buy(buyer AddressString, trackID TrackIDUint, paid Amount) (TrackSold, error) {
	if trackID >= TrackIDUint(len(m.listings)) {
		return TrackSold{}, ErrTrackNotFound
	}

	currentListing := &m.listings[trackID]

	currentSeller, listed := currentListing.sellerOf()
	if !listed {
		return TrackSold{}, ErrTrackNotListed
	}

	paidAmount := cloneOrZero(paid)
	if !paidAmount.Eq(currentListing.askPrice) {
		return TrackSold{}, fmt.Errorf(
			"%w: must send the asking price %s to complete the purchase, got %s",
			ErrPriceMismatch, currentListing.askPrice.Dec(), paidAmount.Dec(),
		)
	}

	if m.reserve.Cmp(m.royaltyFee) < 0 {
		return TrackSold{}, ErrInsufficientReserve
	}

	// Every precondition holds; the ledger transfer is the first effect and
	// cannot fail because invariant I1 guarantees the marketplace is the
	// current owner of a listed track.
	if err := m.ownership.Transfer(m.marketAddress, buyer, trackID); err != nil {
		return TrackSold{}, err
	}

	m.payments.Deposit(currentSeller, paidAmount.Clone())

	m.reserve.Sub(m.reserve, m.royaltyFee)
	m.payments.Deposit(m.beneficiary, m.royaltyFee.Clone())

	currentListing.delist()

	return BuildTrackSold(trackID, currentSeller, buyer, paidAmount, time.Now()), nil
}

// Resell puts a privately-held track back up for sale on behalf of its
// current owner at newPrice, against payment of exactly the current royalty
// fee into the reserve.
//
// As one indivisible step it transfers ownership from the caller to the
// marketplace, adds the paid royalty to the reserve, and relists the track
// with the caller as entitled seller. The returned TrackRelisted event is
// the observable record of the relisting.
//
// Price and royalty are validated independently so either violation is
// reported for the same call: ErrInvalidPrice when newPrice is not positive,
// ErrPriceMismatch when paidRoyalty differs from the current fee. A caller
// that is not the current owner per the ownership ledger is rejected with
// ErrUnauthorized. No mutation occurs unless every precondition holds.
func (m *Marketplace) Resell(
	caller AddressString,
	trackID TrackIDUint,
	newPrice Amount,
	paidRoyalty Amount,
) (TrackRelisted, error) {

	if trackID >= TrackIDUint(len(m.listings)) {
		return TrackRelisted{}, ErrTrackNotFound
	}

	if !isPositive(newPrice) {
		return TrackRelisted{}, ErrInvalidPrice
	}

	paidAmount := cloneOrZero(paidRoyalty)
	if !paidAmount.Eq(m.royaltyFee) {
		return TrackRelisted{}, fmt.Errorf(
			"%w: must pay the exact royalty %s to relist, got %s",
			ErrPriceMismatch, m.royaltyFee.Dec(), paidAmount.Dec(),
		)
	}

	owner, err := m.ownership.OwnerOf(trackID)
	if err != nil {
		return TrackRelisted{}, errors.Join(ErrTrackNotFound, err)
	}

	if owner != caller {
		return TrackRelisted{}, fmt.Errorf("%w: only the current owner may resell", ErrUnauthorized)
	}

	if err := m.ownership.Transfer(caller, m.marketAddress, trackID); err != nil {
		return TrackRelisted{}, err
	}

	askPrice := newPrice.Clone()
	m.reserve.Add(m.reserve, paidAmount)
	m.listings[trackID].relist(caller, askPrice)

	return BuildTrackRelisted(trackID, caller, askPrice, time.Now()), nil
}

// SetRoyaltyFee updates the royalty paid on every future sale. Only the
// administrator may call it; no bound is enforced on the fee itself.
func (m *Marketplace) SetRoyaltyFee(caller AddressString, newFee Amount) error {
	if caller != m.administrator {
		return fmt.Errorf("%w: only the administrator may update the royalty fee", ErrUnauthorized)
	}

	m.royaltyFee = cloneOrZero(newFee)

	return nil
}

// Listing reports the current for-sale record of one track.
func (m *Marketplace) Listing(trackID TrackIDUint) (TrackListing, error) {
	if trackID >= TrackIDUint(len(m.listings)) {
		return TrackListing{}, ErrTrackNotFound
	}

	return m.trackListing(trackID), nil
}

// trackListing builds the read-model row for one track with defensive copies.
func (m *Marketplace) trackListing(trackID TrackIDUint) TrackListing {
	current := m.listings[trackID]
	seller, forSale := current.sellerOf()

	return TrackListing{
		TrackID:  trackID,
		Seller:   seller,
		ForSale:  forSale,
		AskPrice: current.askPrice.Clone(),
	}
}

// RoyaltyFee reports the current fee paid to the beneficiary on every sale.
func (m *Marketplace) RoyaltyFee() Amount {
	return m.royaltyFee.Clone()
}

// Reserve reports the marketplace's own balance funding royalty payouts.
//
// Note: there is no withdrawal path; funds paid in at construction and
// through resale royalties accumulate here. Known design gap.
func (m *Marketplace) Reserve() Amount {
	return m.reserve.Clone()
}

// Beneficiary reports the fixed royalty beneficiary.
func (m *Marketplace) Beneficiary() AddressString {
	return m.beneficiary
}

// Administrator reports the fixed administrator identity.
func (m *Marketplace) Administrator() AddressString {
	return m.administrator
}

// MarketAddress reports the marketplace's own identity in the ownership ledger.
func (m *Marketplace) MarketAddress() AddressString {
	return m.marketAddress
}

// CollectionName reports the catalog label.
func (m *Marketplace) CollectionName() string {
	return m.collectionName
}

// CollectionSymbol reports the catalog symbol.
func (m *Marketplace) CollectionSymbol() string {
	return m.collectionSymbol
}

// CatalogSize reports the fixed number of tracks N.
func (m *Marketplace) CatalogSize() uint {
	return uint(len(m.listings))
}

// TrackURI derives the resource locator of a track's metadata from the base
// URI. The engine does not interpret the result; resolution is an external
// collaborator responsibility.
func (m *Marketplace) TrackURI(trackID TrackIDUint) (string, error) {
	if trackID >= TrackIDUint(len(m.listings)) {
		return "", ErrTrackNotFound
	}

	return m.baseURI + strconv.FormatUint(uint64(trackID), 10), nil
}
