// file: internals/features/finance/reconcile/service/errors.go
package service

import "errors"

// Keduanya rejection permanen: dicatat untuk audit manual, tidak pernah
// di-retry otomatis oleh engine. Retry = redelivery dari gateway, dan itu
// aman karena cek idempoten di status terminal invoice.
var (
	// ErrUnknownInvoice: token notifikasi tidak menunjuk invoice mana pun
	// (replay/forged token) — nol side effect.
	ErrUnknownInvoice = errors.New("no invoice for notification token")

	// ErrAmountMismatch: amount notifikasi != amount invoice (zero
	// tolerance); invoice dibiarkan open untuk review manual.
	ErrAmountMismatch = errors.New("notification amount does not match invoice amount")
)
