// file: internals/features/finance/tuition/service/derive_status_test.go
package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/tuition/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name       string
		schedule   string
		paid       string
		wantBal    string
		wantStatus model.LedgerStatus
	}{
		{"belum bayar", "5000.00", "0", "5000.00", model.LedgerStatusPending},
		{"bayar sebagian", "5000.00", "2000.00", "3000.00", model.LedgerStatusPartial},
		{"lunas persis", "5000.00", "5000.00", "0.00", model.LedgerStatusPaid},
		{"lebih bayar", "5000.00", "5100.00", "-100.00", model.LedgerStatusOverpaid},
		{"tarif nol tanpa bayar = PAID, bukan PENDING", "0.00", "0", "0.00", model.LedgerStatusPaid},
		{"tarif nol lebih bayar", "0.00", "0.01", "-0.01", model.LedgerStatusOverpaid},
		{"sisa satu sen", "100.00", "99.99", "0.01", model.LedgerStatusPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bal, status := DeriveStatus(dec(tc.schedule), dec(tc.paid))
			assert.True(t, bal.Equal(dec(tc.wantBal)), "balance %s, mau %s", bal, tc.wantBal)
			assert.Equal(t, tc.wantStatus, status)
		})
	}
}

// Perjalanan satu ledger: PENDING → PARTIAL → PAID → OVERPAID.
func TestApplySequence(t *testing.T) {
	tarif := dec("5000.00")
	l := &model.TuitionLedgerModel{
		TuitionLedgerAmountPaid: decimal.Zero,
		TuitionLedgerBalance:    tarif,
		TuitionLedgerStatus:     model.LedgerStatusPending,
	}

	require.NoError(t, Apply(l, tarif, dec("2000.00")))
	assert.Equal(t, model.LedgerStatusPartial, l.TuitionLedgerStatus)
	assert.True(t, l.TuitionLedgerBalance.Equal(dec("3000.00")))

	require.NoError(t, Apply(l, tarif, dec("3000.00")))
	assert.Equal(t, model.LedgerStatusPaid, l.TuitionLedgerStatus)
	assert.True(t, l.TuitionLedgerBalance.IsZero())

	require.NoError(t, Apply(l, tarif, dec("100.00")))
	assert.Equal(t, model.LedgerStatusOverpaid, l.TuitionLedgerStatus)
	assert.True(t, l.TuitionLedgerBalance.Equal(dec("-100.00")))
	assert.True(t, l.TuitionLedgerAmountPaid.Equal(dec("5100.00")))
}

func TestApplyRejectsNonPositive(t *testing.T) {
	tarif := dec("5000.00")
	l := &model.TuitionLedgerModel{TuitionLedgerBalance: tarif, TuitionLedgerStatus: model.LedgerStatusPending}

	assert.ErrorIs(t, Apply(l, tarif, decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, Apply(l, tarif, dec("-1")), ErrInvalidAmount)
	// ditolak tanpa efek samping
	assert.Equal(t, model.LedgerStatusPending, l.TuitionLedgerStatus)
	assert.True(t, l.TuitionLedgerAmountPaid.IsZero())
}
