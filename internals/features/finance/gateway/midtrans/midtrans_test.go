// file: internals/features/finance/gateway/midtrans/midtrans_test.go
package midtrans

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"kampusku_backend/internals/features/finance/gateway"
)

// Nominal pecahan ditolak sebelum request ke midtrans dibuat sama sekali.
func TestInitiateRejectsFractionalAmount(t *testing.T) {
	a := NewAdapter("server-key-test", false)
	_, err := a.Initiate(context.Background(), gateway.ChargeRequest{
		Token:  "order-1",
		Amount: decimal.RequireFromString("500.50"),
	})
	assert.ErrorIs(t, err, ErrNonIntegralAmount)
}

func TestVerifySignature(t *testing.T) {
	a := NewAdapter("server-key-test", false)

	orderID := "9f3b1c2e-order"
	statusCode := "200"
	gross := "500000.00"

	sum := sha512.Sum512([]byte(orderID + statusCode + gross + "server-key-test"))
	valid := hex.EncodeToString(sum[:])

	assert.True(t, a.VerifySignature(orderID, statusCode, gross, valid))
	// case-insensitive di sisi input
	assert.True(t, a.VerifySignature(orderID, statusCode, gross, "  "+valid+"  "))

	assert.False(t, a.VerifySignature(orderID, statusCode, gross, ""))
	assert.False(t, a.VerifySignature(orderID, statusCode, gross, "deadbeef"))
	// amount diubah → signature tidak cocok
	assert.False(t, a.VerifySignature(orderID, statusCode, "1.00", valid))
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		ts, fraud   string
		wantOutcome gateway.Outcome
		wantFinal   bool
	}{
		{"settlement", "", gateway.OutcomeSucceeded, true},
		{"capture", "accept", gateway.OutcomeSucceeded, true},
		{"capture", "challenge", "", false},
		{"capture", "deny", gateway.OutcomeFailed, true},
		{"deny", "", gateway.OutcomeFailed, true},
		{"cancel", "", gateway.OutcomeFailed, true},
		{"expire", "", gateway.OutcomeFailed, true},
		{"failure", "", gateway.OutcomeFailed, true},
		{"pending", "", "", false},
		{"refund", "", "", false},
		{"SETTLEMENT", "", gateway.OutcomeSucceeded, true},
	}
	for _, tc := range cases {
		outcome, final := MapTransactionStatus(tc.ts, tc.fraud)
		assert.Equal(t, tc.wantOutcome, outcome, "ts=%s fraud=%s", tc.ts, tc.fraud)
		assert.Equal(t, tc.wantFinal, final, "ts=%s fraud=%s", tc.ts, tc.fraud)
	}
}
