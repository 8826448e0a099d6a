// file: internals/features/finance/tuition/service/ledger_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"kampusku_backend/internals/features/finance/gateway"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	"kampusku_backend/internals/features/finance/store"
	"kampusku_backend/internals/features/finance/tuition/model"
)

// LedgerService = mutasi saldo SPP. Satu ledger per (student, schedule key);
// semua mutasi lewat ApplyPayment supaya invariant balance/status terjaga.
type LedgerService struct {
	Store store.Store
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{Store: st}
}

// GetOrCreate mengembalikan ledger untuk key, atau membuatnya dengan
// amount_paid=0, balance=tarif, status=PENDING. Race antar pemanggil
// diselesaikan lewat unique index + insert DoNothing + refetch, jadi tidak
// pernah ada dua row untuk key yang sama.
func (s *LedgerService) GetOrCreate(ctx context.Context, studentID uuid.UUID, key model.ScheduleKey) (*model.TuitionLedgerModel, error) {
	if l, err := s.Store.LedgerByKey(ctx, studentID, key); err == nil {
		return l, nil
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	sched, err := s.Store.ScheduleByKey(ctx, key)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	balance, status := DeriveStatus(sched.FeeScheduleAmount, decimal.Zero)
	l := &model.TuitionLedgerModel{
		TuitionLedgerStudentID:     studentID,
		TuitionLedgerProgramID:     key.ProgramID,
		TuitionLedgerLevel:         key.Level,
		TuitionLedgerSemester:      key.Semester,
		TuitionLedgerYear:          key.Year,
		TuitionLedgerFeeScheduleID: sched.FeeScheduleID,
		TuitionLedgerAmountPaid:    decimal.Zero,
		TuitionLedgerBalance:       balance,
		TuitionLedgerStatus:        status,
	}
	if err := s.Store.CreateLedgerIfAbsent(ctx, l); err != nil {
		return nil, err
	}
	// refetch: bisa row kita, bisa row pemenang race
	return s.Store.LedgerByKey(ctx, studentID, key)
}

// ApplyPayment menambah amount_paid dan menghitung ulang balance/status
// secara atomik (FOR UPDATE dalam satu transaksi). amount harus > 0.
// note (opsional, misal "transfer BCA 12/08") ikut tercatat di audit log
// payment_gateway_events sebagai pembayaran manual.
func (s *LedgerService) ApplyPayment(ctx context.Context, ledgerID uuid.UUID, amount decimal.Decimal, note *string) (*model.TuitionLedgerModel, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var out *model.TuitionLedgerModel
	err := s.Store.RunInTx(ctx, func(tx store.Store) error {
		l, err := tx.LedgerByIDForUpdate(ctx, ledgerID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrLedgerNotFound
			}
			return err
		}
		sched, err := tx.ScheduleByID(ctx, l.TuitionLedgerFeeScheduleID)
		if err != nil {
			return err
		}
		if err := Apply(l, sched.FeeScheduleAmount, amount); err != nil {
			return err
		}
		if err := tx.SaveLedger(ctx, l); err != nil {
			return err
		}
		if err := tx.LogGatewayEvent(ctx, manualPaymentEvent(l, amount, note)); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// manualPaymentEvent = jejak audit pembayaran non-gateway; satu row per apply.
func manualPaymentEvent(l *model.TuitionLedgerModel, amount decimal.Decimal, note *string) *reconModel.GatewayEventModel {
	payload, _ := json.Marshal(map[string]any{
		"tuition_ledger_id": l.TuitionLedgerID,
		"amount":            amount,
		"note":              note,
	})
	now := time.Now()
	evType := "manual_payment"
	ev := &reconModel.GatewayEventModel{
		GatewayEventProvider:    string(gateway.ProviderManual),
		GatewayEventType:        &evType,
		GatewayEventPayload:     datatypes.JSON(payload),
		GatewayEventStatus:      reconModel.GatewayEventStatusProcessed,
		GatewayEventProcessedAt: &now,
	}
	if l.TuitionLedgerInvoiceID != nil {
		ev.GatewayEventInvoiceID = l.TuitionLedgerInvoiceID
	}
	if note != nil {
		ev.GatewayEventRef = note
	}
	return ev
}
