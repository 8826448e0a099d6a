// file: internals/features/finance/tuition/service/derive_status.go
package service

import (
	"github.com/shopspring/decimal"

	"kampusku_backend/internals/features/finance/tuition/model"
)

// DeriveStatus menghitung (balance, status) murni dari nominal tarif dan
// total terbayar. Urutan evaluasi mengikat:
//  1. balance < 0  → OVERPAID
//  2. balance == 0 → PAID
//  3. amountPaid>0 → PARTIAL
//  4. sisanya      → PENDING
//
// Ledger tidak pernah menyimpan balance/status di luar hasil fungsi ini.
func DeriveStatus(scheduleAmount, amountPaid decimal.Decimal) (decimal.Decimal, model.LedgerStatus) {
	balance := scheduleAmount.Sub(amountPaid)
	switch {
	case balance.IsNegative():
		return balance, model.LedgerStatusOverpaid
	case balance.IsZero():
		return balance, model.LedgerStatusPaid
	case amountPaid.IsPositive():
		return balance, model.LedgerStatusPartial
	default:
		return balance, model.LedgerStatusPending
	}
}

// Apply menambahkan pembayaran ke ledger yang SUDAH dikunci (FOR UPDATE /
// mutex store) lalu menghitung ulang balance & status. Dipakai LedgerService
// dan reconciliation engine supaya aturannya satu.
func Apply(l *model.TuitionLedgerModel, scheduleAmount, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	l.TuitionLedgerAmountPaid = l.TuitionLedgerAmountPaid.Add(amount)
	l.TuitionLedgerBalance, l.TuitionLedgerStatus = DeriveStatus(scheduleAmount, l.TuitionLedgerAmountPaid)
	return nil
}
