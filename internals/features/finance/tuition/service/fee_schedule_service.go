// file: internals/features/finance/tuition/service/fee_schedule_service.go
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"kampusku_backend/internals/features/finance/store"
	"kampusku_backend/internals/features/finance/tuition/model"
)

// FeeScheduleService = operasi administratif tarif SPP.
type FeeScheduleService struct {
	Store store.Store
}

func NewFeeScheduleService(st store.Store) *FeeScheduleService {
	return &FeeScheduleService{Store: st}
}

// Define membuat satu row tarif. Tarif immutable: tidak ada operasi update,
// perubahan tarif = Define dengan key baru.
func (s *FeeScheduleService) Define(ctx context.Context, key model.ScheduleKey, amount decimal.Decimal) (*model.FeeScheduleModel, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	m := &model.FeeScheduleModel{
		FeeScheduleProgramID: key.ProgramID,
		FeeScheduleLevel:     key.Level,
		FeeScheduleSemester:  key.Semester,
		FeeScheduleYear:      key.Year,
		FeeScheduleAmount:    amount,
	}
	if err := s.Store.CreateSchedule(ctx, m); err != nil {
		if store.IsDuplicate(err) {
			return nil, ErrDuplicateSchedule
		}
		return nil, err
	}
	return m, nil
}

func (s *FeeScheduleService) Lookup(ctx context.Context, key model.ScheduleKey) (*model.FeeScheduleModel, error) {
	m, err := s.Store.ScheduleByKey(ctx, key)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return m, nil
}
