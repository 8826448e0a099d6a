// file: internals/features/finance/tuition/dto/tuition_ledger_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kampusku_backend/internals/features/finance/tuition/model"
)

/* ===================== Requests ===================== */

// GetOrCreateLedgerRequest: student melihat (atau lazily membuat) ledger
// periode berjalan miliknya.
type GetOrCreateLedgerRequest struct {
	TuitionLedgerProgramID uuid.UUID `json:"tuition_ledger_program_id" validate:"required"`
	TuitionLedgerLevel     string    `json:"tuition_ledger_level" validate:"required,oneof=bachelor master"`
	TuitionLedgerSemester  string    `json:"tuition_ledger_semester" validate:"required,oneof=first second"`
	TuitionLedgerYear      int16     `json:"tuition_ledger_year" validate:"required,min=1,max=10"`
}

func (r *GetOrCreateLedgerRequest) Key() model.ScheduleKey {
	return model.ScheduleKey{
		ProgramID: r.TuitionLedgerProgramID,
		Level:     model.AcademicLevel(r.TuitionLedgerLevel),
		Semester:  model.Semester(r.TuitionLedgerSemester),
		Year:      r.TuitionLedgerYear,
	}
}

// ManualPaymentRequest: admin mencatat pembayaran di luar gateway
// (bank transfer / kas) langsung ke ledger.
type ManualPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   *string         `json:"note,omitempty"`
}

/* ===================== Responses ===================== */

type TuitionLedgerResponse struct {
	TuitionLedgerID            uuid.UUID       `json:"tuition_ledger_id"`
	TuitionLedgerStudentID     uuid.UUID       `json:"tuition_ledger_student_id"`
	TuitionLedgerProgramID     uuid.UUID       `json:"tuition_ledger_program_id"`
	TuitionLedgerLevel         string          `json:"tuition_ledger_level"`
	TuitionLedgerSemester      string          `json:"tuition_ledger_semester"`
	TuitionLedgerYear          int16           `json:"tuition_ledger_year"`
	TuitionLedgerFeeScheduleID uuid.UUID       `json:"tuition_ledger_fee_schedule_id"`
	TuitionLedgerAmountPaid    decimal.Decimal `json:"tuition_ledger_amount_paid"`
	TuitionLedgerBalance       decimal.Decimal `json:"tuition_ledger_balance"`
	TuitionLedgerStatus        string          `json:"tuition_ledger_status"`
	TuitionLedgerInvoiceID     *uuid.UUID      `json:"tuition_ledger_invoice_id,omitempty"`
	TuitionLedgerCreatedAt     time.Time       `json:"tuition_ledger_created_at"`
	TuitionLedgerUpdatedAt     time.Time       `json:"tuition_ledger_updated_at"`
}

func FromTuitionLedgerModel(m *model.TuitionLedgerModel) TuitionLedgerResponse {
	return TuitionLedgerResponse{
		TuitionLedgerID:            m.TuitionLedgerID,
		TuitionLedgerStudentID:     m.TuitionLedgerStudentID,
		TuitionLedgerProgramID:     m.TuitionLedgerProgramID,
		TuitionLedgerLevel:         string(m.TuitionLedgerLevel),
		TuitionLedgerSemester:      string(m.TuitionLedgerSemester),
		TuitionLedgerYear:          m.TuitionLedgerYear,
		TuitionLedgerFeeScheduleID: m.TuitionLedgerFeeScheduleID,
		TuitionLedgerAmountPaid:    m.TuitionLedgerAmountPaid,
		TuitionLedgerBalance:       m.TuitionLedgerBalance,
		TuitionLedgerStatus:        string(m.TuitionLedgerStatus),
		TuitionLedgerInvoiceID:     m.TuitionLedgerInvoiceID,
		TuitionLedgerCreatedAt:     m.TuitionLedgerCreatedAt,
		TuitionLedgerUpdatedAt:     m.TuitionLedgerUpdatedAt,
	}
}

func FromTuitionLedgerModels(ms []model.TuitionLedgerModel) []TuitionLedgerResponse {
	out := make([]TuitionLedgerResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromTuitionLedgerModel(&ms[i]))
	}
	return out
}
