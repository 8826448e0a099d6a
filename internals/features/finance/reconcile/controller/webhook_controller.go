// file: internals/features/finance/reconcile/controller/webhook_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/finance/gateway"
	midtransAdapter "kampusku_backend/internals/features/finance/gateway/midtrans"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	svc "kampusku_backend/internals/features/finance/reconcile/service"
	"kampusku_backend/internals/features/finance/store"
)

/* =======================================================================
   Webhook Midtrans → ReconciliationEngine
======================================================================= */

type WebhookController struct {
	Store   store.Store
	Engine  *svc.Engine
	Adapter *midtransAdapter.Adapter
}

func NewWebhookController(db *gorm.DB, adapter *midtransAdapter.Adapter) *WebhookController {
	st := store.NewGormStore(db)
	return &WebhookController{
		Store:   st,
		Engine:  svc.NewEngine(st),
		Adapter: adapter,
	}
}

type midtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"` // = invoice token
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}

// POST /api/payments/midtrans/webhook
func (h *WebhookController) MidtransWebhook(c *fiber.Ctx) error {
	// 1) Parse payload
	var notif midtransNotif
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	// 2) Verify signature — SHA512(order_id + status_code + gross_amount + ServerKey)
	if !h.Adapter.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
	}

	rawPayload, _ := json.Marshal(notif)

	// 3) Map transaction_status → outcome final.
	// pending / capture-challenge belum final: catat event, jangan reconcile.
	outcome, final := midtransAdapter.MapTransactionStatus(notif.TransactionStatus, notif.FraudStatus)
	if !final {
		h.logNonFinal(c, notif, rawPayload)
		return c.JSON(fiber.Map{"status": "ok", "note": "non-final status logged"})
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(notif.GrossAmount))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gross_amount: "+err.Error())
	}

	// 4) Reconcile
	res, err := h.Engine.Reconcile(c.UserContext(), gateway.Notification{
		Provider:   gateway.ProviderMidtrans,
		Token:      notif.OrderID,
		Outcome:    outcome,
		Amount:     amount,
		RawPayload: datatypes.JSON(rawPayload),
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrUnknownInvoice):
			// Balas 200 agar midtrans berhenti retry; event sudah tercatat
			// untuk audit, tidak ada mutasi apa pun.
			log.Printf("[WEBHOOK] unknown order_id=%s", notif.OrderID)
			return c.JSON(fiber.Map{"status": "ignored", "reason": "invoice not found"})
		case errors.Is(err, svc.ErrAmountMismatch):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "reconcile failed: "+err.Error())
	}

	body := fiber.Map{
		"status":             "ok",
		"invoice_id":         res.Invoice.InvoiceID,
		"invoice_status":     res.Invoice.InvoiceStatus,
		"transaction_status": notif.TransactionStatus,
		"duplicate":          res.Duplicate,
	}
	if res.Ledger != nil {
		body["tuition_ledger_id"] = res.Ledger.TuitionLedgerID
		body["tuition_ledger_status"] = res.Ledger.TuitionLedgerStatus
	}
	return c.JSON(body)
}

// logNonFinal mencatat notifikasi berstatus belum-final (audit only).
func (h *WebhookController) logNonFinal(c *fiber.Ctx, notif midtransNotif, rawPayload []byte) {
	headers := map[string]string{}
	for k, v := range c.GetReqHeaders() {
		headers[k] = strings.Join(v, ",")
	}
	headersJSON, _ := json.Marshal(headers)

	now := time.Now()
	evType := notif.TransactionStatus
	token := notif.OrderID
	sig := notif.SignatureKey
	ev := &reconModel.GatewayEventModel{
		GatewayEventProvider:    string(gateway.ProviderMidtrans),
		GatewayEventType:        &evType,
		GatewayEventToken:       &token,
		GatewayEventHeaders:     datatypes.JSON(headersJSON),
		GatewayEventPayload:     datatypes.JSON(rawPayload),
		GatewayEventSignature:   &sig,
		GatewayEventStatus:      reconModel.GatewayEventStatusReceived,
		GatewayEventProcessedAt: &now,
	}
	if notif.TransactionID != "" {
		ref := notif.TransactionID
		ev.GatewayEventRef = &ref
	}
	if err := h.Store.LogGatewayEvent(c.UserContext(), ev); err != nil {
		log.Printf("[WEBHOOK] event log failed order_id=%s: %v", notif.OrderID, err)
	}
}
