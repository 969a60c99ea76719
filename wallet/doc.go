// Package wallet provides an in-memory account book used as the payments
// boundary of the marketplace engine.
//
// The engine never inspects balances; it only credits them. The account book
// exists so that a full settlement run can be asserted end to end from the
// outside: seller proceeds, beneficiary royalties, and nothing else.
package wallet
