// file: internals/features/finance/tuition/service/ledger_service_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	"kampusku_backend/internals/features/finance/store"
	"kampusku_backend/internals/features/finance/tuition/model"
)

func seedSchedule(t *testing.T, st *store.MemoryStore, amount string) model.ScheduleKey {
	t.Helper()
	key := model.ScheduleKey{
		ProgramID: uuid.New(),
		Level:     model.LevelBachelor,
		Semester:  model.SemesterFirst,
		Year:      1,
	}
	_, err := NewFeeScheduleService(st).Define(context.Background(), key, dec(amount))
	require.NoError(t, err)
	return key
}

func TestFeeScheduleDefineDuplicate(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewFeeScheduleService(st)
	key := seedSchedule(t, st, "5000.00")

	_, err := svc.Define(context.Background(), key, dec("7000.00"))
	assert.ErrorIs(t, err, ErrDuplicateSchedule)

	// tarif lama tidak berubah
	got, err := svc.Lookup(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, got.FeeScheduleAmount.Equal(dec("5000.00")))
}

func TestFeeScheduleDefineNegative(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := NewFeeScheduleService(st).Define(context.Background(), model.ScheduleKey{
		ProgramID: uuid.New(), Level: model.LevelMaster, Semester: model.SemesterSecond, Year: 2,
	}, dec("-1.00"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLedgerGetOrCreate(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLedgerService(st)
	key := seedSchedule(t, st, "5000.00")
	student := uuid.New()

	a, err := svc.GetOrCreate(context.Background(), student, key)
	require.NoError(t, err)
	assert.Equal(t, model.LedgerStatusPending, a.TuitionLedgerStatus)
	assert.True(t, a.TuitionLedgerBalance.Equal(dec("5000.00")))
	assert.True(t, a.TuitionLedgerAmountPaid.IsZero())

	// panggilan kedua = row yang sama, bukan duplikat
	b, err := svc.GetOrCreate(context.Background(), student, key)
	require.NoError(t, err)
	assert.Equal(t, a.TuitionLedgerID, b.TuitionLedgerID)
}

func TestLedgerGetOrCreateNoSchedule(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := NewLedgerService(st).GetOrCreate(context.Background(), uuid.New(), model.ScheduleKey{
		ProgramID: uuid.New(), Level: model.LevelBachelor, Semester: model.SemesterFirst, Year: 1,
	})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestApplyPayment(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLedgerService(st)
	key := seedSchedule(t, st, "5000.00")
	l, err := svc.GetOrCreate(context.Background(), uuid.New(), key)
	require.NoError(t, err)

	got, err := svc.ApplyPayment(context.Background(), l.TuitionLedgerID, dec("2000.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, model.LedgerStatusPartial, got.TuitionLedgerStatus)

	got, err = svc.ApplyPayment(context.Background(), l.TuitionLedgerID, dec("3000.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, model.LedgerStatusPaid, got.TuitionLedgerStatus)
	assert.True(t, got.TuitionLedgerBalance.IsZero())

	_, err = svc.ApplyPayment(context.Background(), l.TuitionLedgerID, decimal.Zero, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ApplyPayment(context.Background(), uuid.New(), dec("1.00"), nil)
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

// Pembayaran manual meninggalkan jejak audit; catatan admin ikut tersimpan.
func TestApplyPaymentRecordsManualNote(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLedgerService(st)
	key := seedSchedule(t, st, "5000.00")
	l, err := svc.GetOrCreate(context.Background(), uuid.New(), key)
	require.NoError(t, err)

	note := "transfer BCA ref 881293"
	_, err = svc.ApplyPayment(context.Background(), l.TuitionLedgerID, dec("2000.00"), &note)
	require.NoError(t, err)

	events := st.Events()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "manual", ev.GatewayEventProvider)
	require.NotNil(t, ev.GatewayEventType)
	assert.Equal(t, "manual_payment", *ev.GatewayEventType)
	assert.Equal(t, reconModel.GatewayEventStatusProcessed, ev.GatewayEventStatus)
	require.NotNil(t, ev.GatewayEventRef)
	assert.Equal(t, note, *ev.GatewayEventRef)
	assert.Contains(t, string(ev.GatewayEventPayload), "transfer BCA ref 881293")
	assert.Contains(t, string(ev.GatewayEventPayload), l.TuitionLedgerID.String())
}

// N pembayaran paralel @1.00 → amount_paid tepat N.00, tidak ada update hilang.
func TestApplyPaymentConcurrent(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLedgerService(st)
	key := seedSchedule(t, st, "100.00")
	l, err := svc.GetOrCreate(context.Background(), uuid.New(), key)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.ApplyPayment(context.Background(), l.TuitionLedgerID, dec("1.00"), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := st.LedgerByID(context.Background(), l.TuitionLedgerID)
	require.NoError(t, err)
	assert.True(t, got.TuitionLedgerAmountPaid.Equal(dec("50.00")), "amount_paid = %s", got.TuitionLedgerAmountPaid)
	assert.Equal(t, model.LedgerStatusPartial, got.TuitionLedgerStatus)
	assert.True(t, got.TuitionLedgerBalance.Equal(dec("50.00")))
}
