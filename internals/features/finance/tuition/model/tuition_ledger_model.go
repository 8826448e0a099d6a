// file: internals/features/finance/tuition/model/tuition_ledger_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enum status ===================== */

type LedgerStatus string

const (
	LedgerStatusPending  LedgerStatus = "PENDING"
	LedgerStatusPartial  LedgerStatus = "PARTIAL"
	LedgerStatusPaid     LedgerStatus = "PAID"
	LedgerStatusOverpaid LedgerStatus = "OVERPAID"
)

/* ===================== Model ===================== */

// TuitionLedgerModel = saldo kewajiban SPP satu mahasiswa untuk satu periode.
// balance & status SELALU turunan murni dari (schedule.amount, amount_paid);
// mutasi hanya lewat service ApplyPayment — jangan tulis field langsung.
type TuitionLedgerModel struct {
	TuitionLedgerID uuid.UUID `gorm:"column:tuition_ledger_id;type:uuid;default:gen_random_uuid();primaryKey" json:"tuition_ledger_id"`

	// Key unik (student, program, level, semester, year)
	TuitionLedgerStudentID uuid.UUID     `gorm:"column:tuition_ledger_student_id;type:uuid;not null;uniqueIndex:uq_tuition_ledgers_key,priority:1" json:"tuition_ledger_student_id"`
	TuitionLedgerProgramID uuid.UUID     `gorm:"column:tuition_ledger_program_id;type:uuid;not null;uniqueIndex:uq_tuition_ledgers_key,priority:2" json:"tuition_ledger_program_id"`
	TuitionLedgerLevel     AcademicLevel `gorm:"column:tuition_ledger_level;type:academic_level;not null;uniqueIndex:uq_tuition_ledgers_key,priority:3" json:"tuition_ledger_level"`
	TuitionLedgerSemester  Semester      `gorm:"column:tuition_ledger_semester;type:semester;not null;uniqueIndex:uq_tuition_ledgers_key,priority:4" json:"tuition_ledger_semester"`
	TuitionLedgerYear      int16         `gorm:"column:tuition_ledger_year;type:smallint;not null;uniqueIndex:uq_tuition_ledgers_key,priority:5" json:"tuition_ledger_year"`

	// FK ke tarif (immutable)
	TuitionLedgerFeeScheduleID uuid.UUID `gorm:"column:tuition_ledger_fee_schedule_id;type:uuid;not null" json:"tuition_ledger_fee_schedule_id"`

	// Saldo
	TuitionLedgerAmountPaid decimal.Decimal `gorm:"column:tuition_ledger_amount_paid;type:numeric(12,2);not null" json:"tuition_ledger_amount_paid"`
	TuitionLedgerBalance    decimal.Decimal `gorm:"column:tuition_ledger_balance;type:numeric(12,2);not null" json:"tuition_ledger_balance"`
	TuitionLedgerStatus     LedgerStatus    `gorm:"column:tuition_ledger_status;type:ledger_status;not null;default:'PENDING'" json:"tuition_ledger_status"`

	// Link ke invoice terbuka (weak reference → SET NULL)
	TuitionLedgerInvoiceID *uuid.UUID `gorm:"column:tuition_ledger_invoice_id;type:uuid" json:"tuition_ledger_invoice_id,omitempty"`

	// Timestamps. Ledger tidak pernah dihapus (audit trail) — tidak ada
	// route delete; kolom deleted_at dipertahankan untuk konsistensi skema.
	TuitionLedgerCreatedAt time.Time      `gorm:"column:tuition_ledger_created_at;autoCreateTime" json:"tuition_ledger_created_at"`
	TuitionLedgerUpdatedAt time.Time      `gorm:"column:tuition_ledger_updated_at;autoUpdateTime" json:"tuition_ledger_updated_at"`
	TuitionLedgerDeletedAt gorm.DeletedAt `gorm:"column:tuition_ledger_deleted_at;index" json:"tuition_ledger_deleted_at,omitempty"`
}

func (TuitionLedgerModel) TableName() string { return "tuition_ledgers" }

/* ===================== Helpers ===================== */

func (l *TuitionLedgerModel) Key() ScheduleKey {
	return ScheduleKey{
		ProgramID: l.TuitionLedgerProgramID,
		Level:     l.TuitionLedgerLevel,
		Semester:  l.TuitionLedgerSemester,
		Year:      l.TuitionLedgerYear,
	}
}

func (l *TuitionLedgerModel) IsSettled() bool {
	return l.TuitionLedgerStatus == LedgerStatusPaid || l.TuitionLedgerStatus == LedgerStatusOverpaid
}
