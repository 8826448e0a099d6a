// file: internals/features/finance/tuition/dto/fee_schedule_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kampusku_backend/internals/features/finance/tuition/model"
)

/* =========================================================
   REQUEST DTOs (JSON tags = nama kolom DB, snake_case)
========================================================= */

type CreateFeeScheduleRequest struct {
	FeeScheduleProgramID uuid.UUID       `json:"fee_schedule_program_id" validate:"required"`
	FeeScheduleLevel     string          `json:"fee_schedule_level" validate:"required,oneof=bachelor master"`
	FeeScheduleSemester  string          `json:"fee_schedule_semester" validate:"required,oneof=first second"`
	FeeScheduleYear      int16           `json:"fee_schedule_year" validate:"required,min=1,max=10"`
	FeeScheduleAmount    decimal.Decimal `json:"fee_schedule_amount" validate:"required"`
}

func (r *CreateFeeScheduleRequest) Key() model.ScheduleKey {
	return model.ScheduleKey{
		ProgramID: r.FeeScheduleProgramID,
		Level:     model.AcademicLevel(r.FeeScheduleLevel),
		Semester:  model.Semester(r.FeeScheduleSemester),
		Year:      r.FeeScheduleYear,
	}
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type FeeScheduleResponse struct {
	FeeScheduleID        uuid.UUID       `json:"fee_schedule_id"`
	FeeScheduleProgramID uuid.UUID       `json:"fee_schedule_program_id"`
	FeeScheduleLevel     string          `json:"fee_schedule_level"`
	FeeScheduleSemester  string          `json:"fee_schedule_semester"`
	FeeScheduleYear      int16           `json:"fee_schedule_year"`
	FeeScheduleAmount    decimal.Decimal `json:"fee_schedule_amount"`
	FeeScheduleCreatedAt time.Time       `json:"fee_schedule_created_at"`
}

func FromFeeScheduleModel(m *model.FeeScheduleModel) FeeScheduleResponse {
	return FeeScheduleResponse{
		FeeScheduleID:        m.FeeScheduleID,
		FeeScheduleProgramID: m.FeeScheduleProgramID,
		FeeScheduleLevel:     string(m.FeeScheduleLevel),
		FeeScheduleSemester:  string(m.FeeScheduleSemester),
		FeeScheduleYear:      m.FeeScheduleYear,
		FeeScheduleAmount:    m.FeeScheduleAmount,
		FeeScheduleCreatedAt: m.FeeScheduleCreatedAt,
	}
}

func FromFeeScheduleModels(ms []model.FeeScheduleModel) []FeeScheduleResponse {
	out := make([]FeeScheduleResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromFeeScheduleModel(&ms[i]))
	}
	return out
}
