// file: internals/features/finance/reconcile/service/engine.go
package service

import (
	"context"
	"log"
	"time"

	"gorm.io/datatypes"

	"kampusku_backend/internals/features/finance/gateway"
	invoiceModel "kampusku_backend/internals/features/finance/invoices/model"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	"kampusku_backend/internals/features/finance/store"
	tuitionModel "kampusku_backend/internals/features/finance/tuition/model"
	tuitionSvc "kampusku_backend/internals/features/finance/tuition/service"
)

/* =========================================================
   ReconciliationEngine
   Mencocokkan notifikasi gateway ke invoice dan menerapkan
   efeknya ke ledger TEPAT SEKALI. Aman terhadap redelivery
   dan reordering antar token.
========================================================= */

type Engine struct {
	Store store.Store
}

func NewEngine(st store.Store) *Engine {
	return &Engine{Store: st}
}

// Result = hasil satu kali reconcile.
type Result struct {
	// Duplicate = notifikasi untuk invoice yang sudah terminal; tidak ada
	// mutasi apa pun (replay protection).
	Duplicate bool
	Invoice   *invoiceModel.InvoiceModel
	// Ledger terisi bila pembayaran diterapkan pada ledger tertaut.
	Ledger *tuitionModel.TuitionLedgerModel
}

// Reconcile menjalankan state machine di §invoice: open → completed|failed.
// Seluruh keputusan + mutasi (invoice terminal, ledger apply) berjalan dalam
// SATU transaksi store: keduanya terlihat bersama atau tidak sama sekali.
// Crash di tengah → notifikasi di-redeliver dan jalur duplicate menjaganya
// idempoten.
func (e *Engine) Reconcile(ctx context.Context, n gateway.Notification) (Result, error) {
	var res Result

	txErr := e.Store.RunInTx(ctx, func(tx store.Store) error {
		inv, err := tx.InvoiceByTokenForUpdate(ctx, n.Token)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrUnknownInvoice
			}
			return err
		}

		// Replay: invoice sudah final → sukses dengan marker duplicate,
		// tanpa mutasi lanjutan.
		if inv.IsTerminal() {
			res = Result{Duplicate: true, Invoice: inv}
			return nil
		}

		now := time.Now()

		if n.Outcome == gateway.OutcomeFailed {
			inv.InvoiceStatus = invoiceModel.InvoiceStatusFailed
			inv.InvoiceFailedAt = &now
			if err := tx.SaveInvoice(ctx, inv); err != nil {
				return err
			}
			res = Result{Invoice: inv}
			return nil
		}

		// succeeded: amount wajib sama persis — selisih berapa pun berarti
		// review manual, invoice tetap open.
		if !n.Amount.Equal(inv.InvoiceAmount) {
			return ErrAmountMismatch
		}

		inv.InvoiceStatus = invoiceModel.InvoiceStatusCompleted
		inv.InvoiceCompletedAt = &now
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}
		res = Result{Invoice: inv}

		// Ledger tertaut → terapkan pembayaran dalam transaksi yang sama.
		// Invoice tanpa ledger tetap complete (invoice non-SPP).
		l, err := e.linkedLedger(ctx, tx, inv)
		if err != nil {
			return err
		}
		if l == nil {
			return nil
		}
		sched, err := tx.ScheduleByID(ctx, l.TuitionLedgerFeeScheduleID)
		if err != nil {
			return err
		}
		if err := tuitionSvc.Apply(l, sched.FeeScheduleAmount, n.Amount); err != nil {
			return err
		}
		if err := tx.SaveLedger(ctx, l); err != nil {
			return err
		}
		res.Ledger = l
		return nil
	})

	e.audit(ctx, n, res, txErr)

	if txErr != nil {
		return Result{}, txErr
	}
	return res, nil
}

// linkedLedger mencari ledger yang menunjuk invoice ini. Weak reference ada
// di sisi ledger, jadi dicari dari sana — absent = invoice non-tuition.
func (e *Engine) linkedLedger(ctx context.Context, tx store.Store, inv *invoiceModel.InvoiceModel) (*tuitionModel.TuitionLedgerModel, error) {
	l, err := tx.LedgerByInvoiceIDForUpdate(ctx, inv.InvoiceID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// audit mencatat setiap notifikasi ke payment_gateway_events, apa pun
// hasilnya. Best-effort: kegagalan log tidak membatalkan rekonsiliasi.
func (e *Engine) audit(ctx context.Context, n gateway.Notification, res Result, txErr error) {
	now := time.Now()
	evType := string(n.Outcome)
	token := n.Token
	ev := &reconModel.GatewayEventModel{
		GatewayEventProvider:    string(n.Provider),
		GatewayEventType:        &evType,
		GatewayEventToken:       &token,
		GatewayEventPayload:     datatypes.JSON(n.RawPayload),
		GatewayEventStatus:      reconModel.GatewayEventStatusProcessed,
		GatewayEventProcessedAt: &now,
	}
	if res.Invoice != nil {
		ev.GatewayEventInvoiceID = &res.Invoice.InvoiceID
	}
	switch {
	case txErr != nil:
		msg := txErr.Error()
		ev.GatewayEventStatus = reconModel.GatewayEventStatusFailed
		ev.GatewayEventError = &msg
	case res.Duplicate:
		msg := "duplicate delivery, invoice already terminal"
		ev.GatewayEventStatus = reconModel.GatewayEventStatusIgnored
		ev.GatewayEventError = &msg
	}
	if err := e.Store.LogGatewayEvent(ctx, ev); err != nil {
		log.Printf("[RECONCILE] gateway event log failed token=%s: %v", n.Token, err)
	}
}
