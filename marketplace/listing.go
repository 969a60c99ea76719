package marketplace

// listing is the per-track for-sale record. The seller is an explicit
// optional value: listed == false means the track is privately held and the
// ask price is only the stale record of the last sale.
type listing struct {
	askPrice Amount
	seller   AddressString
	listed   bool
}

// seller returns the entitled-to-proceeds seller and whether the track is listed.
func (l listing) sellerOf() (AddressString, bool) {
	if !l.listed {
		return "", false
	}

	return l.seller, true
}

// delist marks the track as privately held, keeping the last sale price as a stale record.
func (l *listing) delist() {
	l.seller = ""
	l.listed = false
}

// relist puts the track back up for sale on behalf of seller at askPrice.
func (l *listing) relist(seller AddressString, askPrice Amount) {
	l.seller = seller
	l.askPrice = askPrice
	l.listed = true
}

// TrackListing is the read-model row returned by the per-track accessor and
// the query operations. AskPrice of an unlisted track retains the last sale
// price; ownership, not price, marks "not for sale".
type TrackListing struct {
	TrackID  TrackIDUint
	Seller   AddressString
	ForSale  bool
	AskPrice Amount
}
