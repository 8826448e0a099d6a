// file: internals/features/finance/tuition/service/errors.go
package service

import "errors"

var (
	// ErrDuplicateSchedule: key (program, level, semester, year) sudah ada.
	ErrDuplicateSchedule = errors.New("fee schedule already exists for this key")

	// ErrScheduleNotFound: tidak ada tarif untuk key tersebut.
	ErrScheduleNotFound = errors.New("fee schedule not found")

	// ErrInvalidAmount: nominal negatif (schedule) atau <= 0 (payment).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrLedgerNotFound: ledger tidak ditemukan.
	ErrLedgerNotFound = errors.New("tuition ledger not found")
)
