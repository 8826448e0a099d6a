// file: internals/features/finance/invoices/service/invoice_service.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"kampusku_backend/internals/features/finance/gateway"
	"kampusku_backend/internals/features/finance/invoices/model"
	"kampusku_backend/internals/features/finance/store"
)

// InvoiceService = lifecycle invoice: open → (completed | failed).
// Adapter boleh nil (invoice manual / non-gateway).
type InvoiceService struct {
	Store   store.Store
	Adapter gateway.Adapter
}

func NewInvoiceService(st store.Store, adapter gateway.Adapter) *InvoiceService {
	return &InvoiceService{Store: st, Adapter: adapter}
}

type OpenInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	Customer    gateway.Customer
	Meta        datatypes.JSONMap

	// Opsional: langsung tautkan ke ledger SPP. Link terjadi di transaksi
	// yang sama dengan insert invoice, SEBELUM charge gateway — konflik
	// (ledger sudah punya invoice terbuka lain) membatalkan semuanya,
	// tidak ada invoice yatim yang bisa dibayar.
	LedgerID *uuid.UUID
}

// Open membuat invoice dengan token idempoten baru (uuid4 = 128-bit random,
// collision-free), lalu — bila adapter tersedia — menginisiasi charge di
// gateway dan menyimpan checkout URL + referensi provider.
// Token dibangkitkan tepat sekali di sini dan tidak pernah dipakai ulang.
func (s *InvoiceService) Open(ctx context.Context, in OpenInput) (*model.InvoiceModel, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	// midtrans menagih gross_amount rupiah bulat; nominal pecahan tidak
	// boleh lolos ke gateway — pembulatan diam-diam bikin amount callback
	// tidak pernah cocok dengan invoice.
	if s.Adapter != nil && !in.Amount.IsInteger() {
		return nil, ErrNonIntegralAmount
	}

	inv := &model.InvoiceModel{
		InvoiceUserID: in.UserID,
		InvoiceAmount: in.Amount,
		InvoiceToken:  uuid.NewString(),
		InvoiceStatus: model.InvoiceStatusOpen,
		InvoiceMeta:   in.Meta,
	}
	if in.Description != "" {
		inv.InvoiceDescription = &in.Description
	}
	err := s.Store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		if in.LedgerID != nil {
			return linkLocked(ctx, tx, inv, *in.LedgerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Adapter != nil {
		handle, err := s.Adapter.Initiate(ctx, gateway.ChargeRequest{
			Token:       inv.InvoiceToken,
			Amount:      inv.InvoiceAmount,
			Description: in.Description,
			Customer:    in.Customer,
		})
		if err != nil {
			// invoice tetap open; charge bisa diinisiasi ulang dengan token
			// yang sama (idempoten di sisi provider via order_id)
			log.Printf("[INVOICE] gateway initiate failed token=%s: %v", inv.InvoiceToken, err)
			return nil, err
		}
		prov := string(handle.Provider)
		inv.InvoiceGatewayProvider = &prov
		if handle.Reference != "" {
			inv.InvoiceGatewayReference = &handle.Reference
		}
		if handle.CheckoutURL != "" {
			inv.InvoiceCheckoutURL = &handle.CheckoutURL
		}
		if err := s.Store.SaveInvoice(ctx, inv); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// LinkToLedger menautkan invoice ke ledger: ledger hanya boleh menunjuk satu
// invoice terbuka. Link ke invoice yang sama = no-op; link lama yang sudah
// terminal boleh ditimpa.
func (s *InvoiceService) LinkToLedger(ctx context.Context, invoiceID, ledgerID uuid.UUID) error {
	return s.Store.RunInTx(ctx, func(tx store.Store) error {
		inv, err := tx.InvoiceByID(ctx, invoiceID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrInvoiceNotFound
			}
			return err
		}

		return linkLocked(ctx, tx, inv, ledgerID)
	})
}

// linkLocked = inti aturan link, dipanggil di dalam transaksi: ledger hanya
// boleh menunjuk satu invoice terbuka. Link ke invoice yang sama = no-op;
// link lama yang sudah terminal/hilang boleh ditimpa.
func linkLocked(ctx context.Context, tx store.Store, inv *model.InvoiceModel, ledgerID uuid.UUID) error {
	l, err := tx.LedgerByIDForUpdate(ctx, ledgerID)
	if err != nil {
		return err
	}

	if l.TuitionLedgerInvoiceID != nil && *l.TuitionLedgerInvoiceID != inv.InvoiceID {
		prev, err := tx.InvoiceByID(ctx, *l.TuitionLedgerInvoiceID)
		if err != nil && !store.IsNotFound(err) {
			return err
		}
		// invoice lama masih open → konflik; sudah terminal/hilang → timpa
		if err == nil && prev.IsOpen() {
			return ErrAlreadyLinked
		}
	}

	l.TuitionLedgerInvoiceID = &inv.InvoiceID
	return tx.SaveLedger(ctx, l)
}

// Complete menandai invoice selesai. Idempoten: sudah completed → no-op
// (mendukung at-least-once delivery sinyal completion).
func (s *InvoiceService) Complete(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceModel, error) {
	var out *model.InvoiceModel
	err := s.Store.RunInTx(ctx, func(tx store.Store) error {
		inv, err := tx.InvoiceByID(ctx, invoiceID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrInvoiceNotFound
			}
			return err
		}
		switch inv.InvoiceStatus {
		case model.InvoiceStatusCompleted:
			out = inv
			return nil
		case model.InvoiceStatusFailed:
			return ErrInvoiceFailed
		}
		now := time.Now()
		inv.InvoiceStatus = model.InvoiceStatusCompleted
		inv.InvoiceCompletedAt = &now
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
