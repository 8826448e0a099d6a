// file: internals/features/finance/store/store.go
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	invoiceModel "kampusku_backend/internals/features/finance/invoices/model"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	tuitionModel "kampusku_backend/internals/features/finance/tuition/model"
)

/* =========================================================
   Store = lapisan penyimpanan finance.
   Service bergantung ke interface ini, bukan ke *gorm.DB,
   supaya state machine bisa diuji tanpa database.
========================================================= */

type Store interface {
	// RunInTx menjalankan fn dalam satu transaksi; semua mutasi multi-row
	// (reconcile, apply payment) wajib lewat sini. Di dalam fn, pemanggilan
	// ...ForUpdate mengunci row sampai commit.
	RunInTx(ctx context.Context, fn func(tx Store) error) error

	// fee schedules
	CreateSchedule(ctx context.Context, s *tuitionModel.FeeScheduleModel) error
	ScheduleByKey(ctx context.Context, key tuitionModel.ScheduleKey) (*tuitionModel.FeeScheduleModel, error)
	ScheduleByID(ctx context.Context, id uuid.UUID) (*tuitionModel.FeeScheduleModel, error)

	// tuition ledgers
	// CreateLedgerIfAbsent = CAS pada unique key: kalah race → tidak error,
	// pemanggil refetch via LedgerByKey.
	CreateLedgerIfAbsent(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error
	LedgerByKey(ctx context.Context, studentID uuid.UUID, key tuitionModel.ScheduleKey) (*tuitionModel.TuitionLedgerModel, error)
	LedgerByID(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error)
	LedgerByIDForUpdate(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error)
	LedgerByInvoiceIDForUpdate(ctx context.Context, invoiceID uuid.UUID) (*tuitionModel.TuitionLedgerModel, error)
	SaveLedger(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error

	// invoices
	CreateInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error
	InvoiceByID(ctx context.Context, id uuid.UUID) (*invoiceModel.InvoiceModel, error)
	InvoiceByTokenForUpdate(ctx context.Context, token string) (*invoiceModel.InvoiceModel, error)
	SaveInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error

	// gateway events (audit log)
	LogGatewayEvent(ctx context.Context, ev *reconModel.GatewayEventModel) error
}

// IsNotFound: absence dilaporkan sebagai gorm.ErrRecordNotFound oleh semua
// implementasi (termasuk mock di test) supaya service cukup satu cek.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate mendeteksi pelanggaran unique constraint dari driver.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "23505") || strings.Contains(lc, "unique constraint")
}
