// file: internals/features/finance/store/gorm_store.go
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	invoiceModel "kampusku_backend/internals/features/finance/invoices/model"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	tuitionModel "kampusku_backend/internals/features/finance/tuition/model"
)

// GormStore = implementasi Store di atas Postgres via GORM.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

var _ Store = (*GormStore)(nil)

func (s *GormStore) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

/* ===================== Fee schedules ===================== */

func (s *GormStore) CreateSchedule(ctx context.Context, m *tuitionModel.FeeScheduleModel) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormStore) ScheduleByKey(ctx context.Context, key tuitionModel.ScheduleKey) (*tuitionModel.FeeScheduleModel, error) {
	var m tuitionModel.FeeScheduleModel
	err := s.DB.WithContext(ctx).
		Where("fee_schedule_program_id = ? AND fee_schedule_level = ? AND fee_schedule_semester = ? AND fee_schedule_year = ?",
			key.ProgramID, key.Level, key.Semester, key.Year).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) ScheduleByID(ctx context.Context, id uuid.UUID) (*tuitionModel.FeeScheduleModel, error) {
	var m tuitionModel.FeeScheduleModel
	if err := s.DB.WithContext(ctx).First(&m, "fee_schedule_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

/* ===================== Tuition ledgers ===================== */

func (s *GormStore) CreateLedgerIfAbsent(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	// kalah race pada uq_tuition_ledgers_key → DoNothing, caller refetch
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(l).Error
}

func (s *GormStore) LedgerByKey(ctx context.Context, studentID uuid.UUID, key tuitionModel.ScheduleKey) (*tuitionModel.TuitionLedgerModel, error) {
	var l tuitionModel.TuitionLedgerModel
	err := s.DB.WithContext(ctx).
		Where("tuition_ledger_student_id = ? AND tuition_ledger_program_id = ? AND tuition_ledger_level = ? AND tuition_ledger_semester = ? AND tuition_ledger_year = ?",
			studentID, key.ProgramID, key.Level, key.Semester, key.Year).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *GormStore) LedgerByID(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	var l tuitionModel.TuitionLedgerModel
	if err := s.DB.WithContext(ctx).First(&l, "tuition_ledger_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *GormStore) LedgerByIDForUpdate(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	var l tuitionModel.TuitionLedgerModel
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "tuition_ledger_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *GormStore) LedgerByInvoiceIDForUpdate(ctx context.Context, invoiceID uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	var l tuitionModel.TuitionLedgerModel
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "tuition_ledger_invoice_id = ?", invoiceID).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *GormStore) SaveLedger(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	return s.DB.WithContext(ctx).Save(l).Error
}

/* ===================== Invoices ===================== */

func (s *GormStore) CreateInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	return s.DB.WithContext(ctx).Create(inv).Error
}

func (s *GormStore) InvoiceByID(ctx context.Context, id uuid.UUID) (*invoiceModel.InvoiceModel, error) {
	var inv invoiceModel.InvoiceModel
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *GormStore) InvoiceByTokenForUpdate(ctx context.Context, token string) (*invoiceModel.InvoiceModel, error) {
	var inv invoiceModel.InvoiceModel
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "invoice_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *GormStore) SaveInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	return s.DB.WithContext(ctx).Save(inv).Error
}

/* ===================== Gateway events ===================== */

func (s *GormStore) LogGatewayEvent(ctx context.Context, ev *reconModel.GatewayEventModel) error {
	return s.DB.WithContext(ctx).Create(ev).Error
}
