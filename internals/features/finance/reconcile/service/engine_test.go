// file: internals/features/finance/reconcile/service/engine_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/gateway"
	invoiceModel "kampusku_backend/internals/features/finance/invoices/model"
	invoiceSvc "kampusku_backend/internals/features/finance/invoices/service"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	"kampusku_backend/internals/features/finance/store"
	tuitionModel "kampusku_backend/internals/features/finance/tuition/model"
	tuitionSvc "kampusku_backend/internals/features/finance/tuition/service"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store  *store.MemoryStore
	engine *Engine
	ledger *tuitionModel.TuitionLedgerModel
	inv    *invoiceModel.InvoiceModel
}

// setup: tarif 5000.00, ledger PENDING, invoice open 500.00 tertaut ke ledger.
func setup(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()

	key := tuitionModel.ScheduleKey{
		ProgramID: uuid.New(),
		Level:     tuitionModel.LevelBachelor,
		Semester:  tuitionModel.SemesterFirst,
		Year:      1,
	}
	_, err := tuitionSvc.NewFeeScheduleService(st).Define(context.Background(), key, dec("5000.00"))
	require.NoError(t, err)

	student := uuid.New()
	l, err := tuitionSvc.NewLedgerService(st).GetOrCreate(context.Background(), student, key)
	require.NoError(t, err)

	isvc := invoiceSvc.NewInvoiceService(st, nil)
	inv, err := isvc.Open(context.Background(), invoiceSvc.OpenInput{UserID: student, Amount: dec("500.00")})
	require.NoError(t, err)
	require.NoError(t, isvc.LinkToLedger(context.Background(), inv.InvoiceID, l.TuitionLedgerID))

	return &fixture{store: st, engine: NewEngine(st), ledger: l, inv: inv}
}

func notif(f *fixture, outcome gateway.Outcome, amount string) gateway.Notification {
	return gateway.Notification{
		Provider: gateway.ProviderMidtrans,
		Token:    f.inv.InvoiceToken,
		Outcome:  outcome,
		Amount:   dec(amount),
	}
}

func (f *fixture) reload(t *testing.T) (*invoiceModel.InvoiceModel, *tuitionModel.TuitionLedgerModel) {
	t.Helper()
	inv, err := f.store.InvoiceByID(context.Background(), f.inv.InvoiceID)
	require.NoError(t, err)
	l, err := f.store.LedgerByID(context.Background(), f.ledger.TuitionLedgerID)
	require.NoError(t, err)
	return inv, l
}

func TestReconcileSucceeded(t *testing.T) {
	f := setup(t)

	res, err := f.engine.Reconcile(context.Background(), notif(f, gateway.OutcomeSucceeded, "500.00"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	require.NotNil(t, res.Ledger)

	inv, l := f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusCompleted, inv.InvoiceStatus)
	require.NotNil(t, inv.InvoiceCompletedAt)
	assert.True(t, l.TuitionLedgerAmountPaid.Equal(dec("500.00")))
	assert.True(t, l.TuitionLedgerBalance.Equal(dec("4500.00")))
	assert.Equal(t, tuitionModel.LedgerStatusPartial, l.TuitionLedgerStatus)

	// audit log tercatat processed
	events := f.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, reconModel.GatewayEventStatusProcessed, events[0].GatewayEventStatus)
}

// Redelivery notifikasi yang sama: ledger tidak boleh bergeser satu sen pun.
func TestReconcileReplayIsDuplicate(t *testing.T) {
	f := setup(t)
	n := notif(f, gateway.OutcomeSucceeded, "500.00")

	_, err := f.engine.Reconcile(context.Background(), n)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := f.engine.Reconcile(context.Background(), n)
		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Nil(t, res.Ledger)
	}

	_, l := f.reload(t)
	assert.True(t, l.TuitionLedgerAmountPaid.Equal(dec("500.00")))
}

func TestReconcileFailedOutcome(t *testing.T) {
	f := setup(t)

	res, err := f.engine.Reconcile(context.Background(), notif(f, gateway.OutcomeFailed, "500.00"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Nil(t, res.Ledger)

	inv, l := f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusFailed, inv.InvoiceStatus)
	require.NotNil(t, inv.InvoiceFailedAt)
	assert.True(t, l.TuitionLedgerAmountPaid.IsZero())

	// sukses yang datang terlambat setelah failed = duplicate, bukan mutasi
	res, err = f.engine.Reconcile(context.Background(), notif(f, gateway.OutcomeSucceeded, "500.00"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	_, l = f.reload(t)
	assert.True(t, l.TuitionLedgerAmountPaid.IsZero())
}

// Selisih nominal sekecil apa pun → ditolak, invoice tetap open.
func TestReconcileAmountMismatch(t *testing.T) {
	f := setup(t)

	_, err := f.engine.Reconcile(context.Background(), notif(f, gateway.OutcomeSucceeded, "499.99"))
	assert.ErrorIs(t, err, ErrAmountMismatch)

	inv, l := f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusOpen, inv.InvoiceStatus)
	assert.True(t, l.TuitionLedgerAmountPaid.IsZero())

	// audit: failed + pesan error
	events := f.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, reconModel.GatewayEventStatusFailed, events[0].GatewayEventStatus)
	require.NotNil(t, events[0].GatewayEventError)

	// nominal betul setelahnya tetap bisa direkonsiliasi
	_, err = f.engine.Reconcile(context.Background(), notif(f, gateway.OutcomeSucceeded, "500.00"))
	require.NoError(t, err)
	inv, _ = f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusCompleted, inv.InvoiceStatus)
}

func TestReconcileUnknownToken(t *testing.T) {
	f := setup(t)

	n := notif(f, gateway.OutcomeSucceeded, "500.00")
	n.Token = uuid.NewString()
	_, err := f.engine.Reconcile(context.Background(), n)
	assert.ErrorIs(t, err, ErrUnknownInvoice)

	// nol side effect di invoice & ledger
	inv, l := f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusOpen, inv.InvoiceStatus)
	assert.True(t, l.TuitionLedgerAmountPaid.IsZero())
}

// Invoice tanpa ledger tertaut (non-SPP) tetap complete sendirian.
func TestReconcileInvoiceWithoutLedger(t *testing.T) {
	st := store.NewMemoryStore()
	isvc := invoiceSvc.NewInvoiceService(st, nil)
	inv, err := isvc.Open(context.Background(), invoiceSvc.OpenInput{UserID: uuid.New(), Amount: dec("250.00")})
	require.NoError(t, err)

	res, err := NewEngine(st).Reconcile(context.Background(), gateway.Notification{
		Provider: gateway.ProviderMidtrans,
		Token:    inv.InvoiceToken,
		Outcome:  gateway.OutcomeSucceeded,
		Amount:   dec("250.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Ledger)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, invoiceModel.InvoiceStatusCompleted, res.Invoice.InvoiceStatus)
}

// Dua notifikasi sukses paralel untuk token yang sama: tepat satu yang
// menerapkan pembayaran, sisanya duplicate.
func TestReconcileConcurrentSameToken(t *testing.T) {
	f := setup(t)
	n := notif(f, gateway.OutcomeSucceeded, "500.00")

	const workers = 8
	results := make(chan Result, workers)
	for i := 0; i < workers; i++ {
		go func() {
			res, err := f.engine.Reconcile(context.Background(), n)
			assert.NoError(t, err)
			results <- res
		}()
	}

	applied := 0
	for i := 0; i < workers; i++ {
		if res := <-results; !res.Duplicate {
			applied++
		}
	}
	assert.Equal(t, 1, applied)

	_, l := f.reload(t)
	assert.True(t, l.TuitionLedgerAmountPaid.Equal(dec("500.00")))
}
