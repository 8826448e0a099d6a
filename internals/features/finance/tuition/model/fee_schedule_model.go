// file: internals/features/finance/tuition/model/fee_schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL: academic_level, semester */

type AcademicLevel string

const (
	LevelBachelor AcademicLevel = "bachelor"
	LevelMaster   AcademicLevel = "master"
)

func (l AcademicLevel) Valid() bool {
	switch l {
	case LevelBachelor, LevelMaster:
		return true
	}
	return false
}

type Semester string

const (
	SemesterFirst  Semester = "first"
	SemesterSecond Semester = "second"
)

func (s Semester) Valid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

/* ===================== Model ===================== */

// FeeScheduleModel = tarif SPP per (program, level, semester, year).
// Immutable setelah dibuat: ganti tarif = bikin row baru, bukan update.
type FeeScheduleModel struct {
	FeeScheduleID uuid.UUID `gorm:"column:fee_schedule_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_schedule_id"`

	// Key unik (program, level, semester, year)
	FeeScheduleProgramID uuid.UUID     `gorm:"column:fee_schedule_program_id;type:uuid;not null;uniqueIndex:uq_fee_schedules_key,priority:1" json:"fee_schedule_program_id"`
	FeeScheduleLevel     AcademicLevel `gorm:"column:fee_schedule_level;type:academic_level;not null;uniqueIndex:uq_fee_schedules_key,priority:2" json:"fee_schedule_level"`
	FeeScheduleSemester  Semester      `gorm:"column:fee_schedule_semester;type:semester;not null;uniqueIndex:uq_fee_schedules_key,priority:3" json:"fee_schedule_semester"`
	FeeScheduleYear      int16         `gorm:"column:fee_schedule_year;type:smallint;not null;uniqueIndex:uq_fee_schedules_key,priority:4" json:"fee_schedule_year"` // tahun tingkat 1..10

	// Nominal
	FeeScheduleAmount decimal.Decimal `gorm:"column:fee_schedule_amount;type:numeric(12,2);not null;check:fee_schedule_amount >= 0" json:"fee_schedule_amount"`

	// Timestamps
	FeeScheduleCreatedAt time.Time      `gorm:"column:fee_schedule_created_at;autoCreateTime" json:"fee_schedule_created_at"`
	FeeScheduleUpdatedAt time.Time      `gorm:"column:fee_schedule_updated_at;autoUpdateTime" json:"fee_schedule_updated_at"`
	FeeScheduleDeletedAt gorm.DeletedAt `gorm:"column:fee_schedule_deleted_at;index" json:"fee_schedule_deleted_at,omitempty"`
}

func (FeeScheduleModel) TableName() string { return "fee_schedules" }

// ScheduleKey = key lookup tarif; dipakai juga oleh tuition_ledgers.
type ScheduleKey struct {
	ProgramID uuid.UUID
	Level     AcademicLevel
	Semester  Semester
	Year      int16
}

func (k ScheduleKey) Valid() bool {
	return k.ProgramID != uuid.Nil && k.Level.Valid() && k.Semester.Valid() && k.Year >= 1 && k.Year <= 10
}
