package wallet

import (
	"github.com/holiman/uint256"
)

// AddressString is the account identity, matching the address type used by
// the marketplace and the ownership ledger.
type AddressString = string

// AccountBook keeps per-address balances and implements the marketplace's
// payments boundary. Deposits are infallible: amounts are validated by the
// engine before the first deposit of any settlement.
//
// Not safe for concurrent use, matching the serial execution model of the
// engine it backs.
type AccountBook struct {
	balances map[AddressString]*uint256.Int
}

// NewAccountBook creates an empty account book.
func NewAccountBook() *AccountBook {
	return &AccountBook{
		balances: make(map[AddressString]*uint256.Int),
	}
}

// Deposit credits amount to the balance of to. A nil amount credits nothing.
func (b *AccountBook) Deposit(to AddressString, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}

	balance, ok := b.balances[to]
	if !ok {
		balance = uint256.NewInt(0)
		b.balances[to] = balance
	}

	balance.Add(balance, amount)
}

// BalanceOf reports the current balance of addr as a defensive copy.
// Unknown addresses have a zero balance.
func (b *AccountBook) BalanceOf(addr AddressString) *uint256.Int {
	balance, ok := b.balances[addr]
	if !ok {
		return uint256.NewInt(0)
	}

	return balance.Clone()
}
