// file: internals/features/finance/invoices/service/invoice_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/gateway"
	"kampusku_backend/internals/features/finance/invoices/model"
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

// fakeAdapter merekam charge yang diinisiasi.
type fakeAdapter struct {
	calls []gateway.ChargeRequest
}

func (f *fakeAdapter) Initiate(ctx context.Context, req gateway.ChargeRequest) (gateway.ProviderHandle, error) {
	f.calls = append(f.calls, req)
	return gateway.ProviderHandle{
		Provider:    gateway.ProviderMidtrans,
		Reference:   "snap-" + req.Token,
		CheckoutURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + req.Token,
	}, nil
}

func seedLedger(t *testing.T, st *store.MemoryStore, amount string) *tuitionModel.TuitionLedgerModel {
	t.Helper()
	key := tuitionModel.ScheduleKey{
		ProgramID: uuid.New(),
		Level:     tuitionModel.LevelBachelor,
		Semester:  tuitionModel.SemesterFirst,
		Year:      1,
	}
	_, err := tuitionSvc.NewFeeScheduleService(st).Define(context.Background(), key, dec(amount))
	require.NoError(t, err)
	l, err := tuitionSvc.NewLedgerService(st).GetOrCreate(context.Background(), uuid.New(), key)
	require.NoError(t, err)
	return l
}

func TestOpenAssignsUniqueToken(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		inv, err := svc.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: dec("500.00")})
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusOpen, inv.InvoiceStatus)
		assert.NotEmpty(t, inv.InvoiceToken)
		assert.False(t, seen[inv.InvoiceToken], "token terpakai ulang: %s", inv.InvoiceToken)
		seen[inv.InvoiceToken] = true
	}
}

// Nominal pecahan + gateway = ditolak di muka. Dibulatkan diam-diam berarti
// customer ditagih 501 untuk invoice 500.50 yang tidak akan pernah completed.
func TestOpenRejectsFractionalWithGateway(t *testing.T) {
	st := store.NewMemoryStore()
	ad := &fakeAdapter{}
	svc := NewInvoiceService(st, ad)

	_, err := svc.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: dec("500.50")})
	assert.ErrorIs(t, err, ErrNonIntegralAmount)
	// tidak ada charge yang sempat dibuat
	assert.Empty(t, ad.calls)

	// tanpa gateway, nominal pecahan sah (pembayaran manual 2 desimal)
	manual := NewInvoiceService(st, nil)
	inv, err := manual.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: dec("500.50")})
	require.NoError(t, err)
	assert.True(t, inv.InvoiceAmount.Equal(dec("500.50")))
}

func TestOpenRejectsNonPositive(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)
	_, err := svc.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestOpenWithGateway(t *testing.T) {
	st := store.NewMemoryStore()
	ad := &fakeAdapter{}
	svc := NewInvoiceService(st, ad)

	inv, err := svc.Open(context.Background(), OpenInput{
		UserID:      uuid.New(),
		Amount:      dec("500.00"),
		Description: "SPP semester 1",
	})
	require.NoError(t, err)
	require.Len(t, ad.calls, 1)
	// order_id gateway = token invoice
	assert.Equal(t, inv.InvoiceToken, ad.calls[0].Token)
	require.NotNil(t, inv.InvoiceGatewayProvider)
	assert.Equal(t, "midtrans", *inv.InvoiceGatewayProvider)
	require.NotNil(t, inv.InvoiceCheckoutURL)

	// hasil inisiasi ikut tersimpan
	stored, err := st.InvoiceByID(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, stored.InvoiceGatewayReference)
	assert.Equal(t, "snap-"+inv.InvoiceToken, *stored.InvoiceGatewayReference)
}

func TestLinkToLedger(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)
	l := seedLedger(t, st, "5000.00")

	first, err := svc.Open(context.Background(), OpenInput{UserID: l.TuitionLedgerStudentID, Amount: dec("5000.00")})
	require.NoError(t, err)
	require.NoError(t, svc.LinkToLedger(context.Background(), first.InvoiceID, l.TuitionLedgerID))

	// link ulang invoice yang sama = no-op
	require.NoError(t, svc.LinkToLedger(context.Background(), first.InvoiceID, l.TuitionLedgerID))

	// invoice lain selagi yang pertama masih open → konflik
	second, err := svc.Open(context.Background(), OpenInput{UserID: l.TuitionLedgerStudentID, Amount: dec("5000.00")})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.LinkToLedger(context.Background(), second.InvoiceID, l.TuitionLedgerID), ErrAlreadyLinked)

	// setelah invoice pertama terminal, link boleh ditimpa
	_, err = svc.Complete(context.Background(), first.InvoiceID)
	require.NoError(t, err)
	require.NoError(t, svc.LinkToLedger(context.Background(), second.InvoiceID, l.TuitionLedgerID))

	got, err := st.LedgerByID(context.Background(), l.TuitionLedgerID)
	require.NoError(t, err)
	require.NotNil(t, got.TuitionLedgerInvoiceID)
	assert.Equal(t, second.InvoiceID, *got.TuitionLedgerInvoiceID)
}

// Link ledger dievaluasi sebelum charge gateway: konflik membatalkan invoice
// sekaligus, tidak ada invoice yatim ber-checkout URL yang masih bisa dibayar.
func TestOpenWithLedgerLinksBeforeCharge(t *testing.T) {
	st := store.NewMemoryStore()
	ad := &fakeAdapter{}
	svc := NewInvoiceService(st, ad)
	l := seedLedger(t, st, "5000.00")

	first, err := svc.Open(context.Background(), OpenInput{
		UserID:   l.TuitionLedgerStudentID,
		Amount:   dec("5000"),
		LedgerID: &l.TuitionLedgerID,
	})
	require.NoError(t, err)
	require.Len(t, ad.calls, 1)

	got, err := st.LedgerByID(context.Background(), l.TuitionLedgerID)
	require.NoError(t, err)
	require.NotNil(t, got.TuitionLedgerInvoiceID)
	assert.Equal(t, first.InvoiceID, *got.TuitionLedgerInvoiceID)

	// invoice pertama masih open → Open kedua konflik SEBELUM charge:
	// gateway tidak dipanggil lagi, link lama tetap utuh
	_, err = svc.Open(context.Background(), OpenInput{
		UserID:   l.TuitionLedgerStudentID,
		Amount:   dec("5000"),
		LedgerID: &l.TuitionLedgerID,
	})
	assert.ErrorIs(t, err, ErrAlreadyLinked)
	assert.Len(t, ad.calls, 1)

	got, err = st.LedgerByID(context.Background(), l.TuitionLedgerID)
	require.NoError(t, err)
	assert.Equal(t, first.InvoiceID, *got.TuitionLedgerInvoiceID)
}

func TestLinkToLedgerUnknownInvoice(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)
	l := seedLedger(t, st, "5000.00")
	assert.ErrorIs(t, svc.LinkToLedger(context.Background(), uuid.New(), l.TuitionLedgerID), ErrInvoiceNotFound)
}

func TestCompleteIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)

	inv, err := svc.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: dec("500.00")})
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCompleted, done.InvoiceStatus)
	require.NotNil(t, done.InvoiceCompletedAt)
	firstAt := *done.InvoiceCompletedAt

	// complete kedua: no-op, timestamp tidak bergeser
	again, err := svc.Complete(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, again.InvoiceCompletedAt)
	assert.Equal(t, firstAt, *again.InvoiceCompletedAt)
}

func TestCompleteFailedInvoice(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewInvoiceService(st, nil)

	inv, err := svc.Open(context.Background(), OpenInput{UserID: uuid.New(), Amount: dec("500.00")})
	require.NoError(t, err)

	// tandai failed langsung di store (jalur reconcile)
	stored, err := st.InvoiceByID(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	stored.InvoiceStatus = model.InvoiceStatusFailed
	require.NoError(t, st.SaveInvoice(context.Background(), stored))

	_, err = svc.Complete(context.Background(), inv.InvoiceID)
	assert.ErrorIs(t, err, ErrInvoiceFailed)
}
