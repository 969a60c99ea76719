package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappfi/track-marketplace-go/marketplace"
)

func Test_AmountFromDecimal_ParsesWeiScaleValues(t *testing.T) {
	// act
	amount, err := marketplace.AmountFromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	// assert - the full 256-bit range is addressable
	require.NoError(t, err)
	assert.Equal(t, "115792089237316195423570985008687907853269984665640564039457584007913129639935", amount.Dec())
}

func Test_AmountFromDecimal_RejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "negative value", input: "-1"},
		{name: "non-numeric", input: "one ether"},
		{name: "hex notation", input: "0xff"},
		{name: "value above 256 bits", input: "115792089237316195423570985008687907853269984665640564039457584007913129639936"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			amount, err := marketplace.AmountFromDecimal(tc.input)

			// assert
			require.ErrorIs(t, err, marketplace.ErrInvalidAmount)
			assert.Nil(t, amount)
		})
	}
}

func Test_NewAmount_WrapsUint64(t *testing.T) {
	assert.Equal(t, "42", marketplace.NewAmount(42).Dec())
	assert.True(t, marketplace.NewAmount(0).IsZero())
}
