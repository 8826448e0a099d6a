// file: internals/features/finance/invoices/service/errors.go
package service

import "errors"

var (
	// ErrInvoiceNotFound matches standard 404 behavior.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrAlreadyLinked: ledger sudah menunjuk invoice terbuka yang lain —
	// mencegah double-charge satu kewajiban secara paralel.
	ErrAlreadyLinked = errors.New("ledger already linked to another open invoice")

	// ErrInvoiceFailed: invoice sudah final di state failed; tidak bisa
	// di-complete manual.
	ErrInvoiceFailed = errors.New("invoice is in failed state")

	// ErrInvalidAmount: nominal invoice harus > 0.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNonIntegralAmount: invoice gateway harus rupiah bulat — midtrans
	// menagih gross_amount integer, pecahan tidak akan pernah rekonsil.
	ErrNonIntegralAmount = errors.New("gateway invoice amount must be a whole amount")
)
