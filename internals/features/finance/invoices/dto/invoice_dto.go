// file: internals/features/finance/invoices/dto/invoice_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"kampusku_backend/internals/features/finance/gateway"
	"kampusku_backend/internals/features/finance/invoices/model"
)

/* ===================== Requests ===================== */

type OpenInvoiceRequest struct {
	InvoiceAmount      decimal.Decimal `json:"invoice_amount" validate:"required"`
	InvoiceDescription string          `json:"invoice_description,omitempty"`

	// Opsional: langsung tautkan ke ledger SPP (satu invoice terbuka per
	// ledger; konflik → 409).
	TuitionLedgerID *uuid.UUID `json:"tuition_ledger_id,omitempty"`

	// Info customer untuk halaman checkout gateway (best-effort)
	Customer *CustomerInput `json:"customer,omitempty"`

	InvoiceMeta map[string]any `json:"invoice_meta,omitempty"`
}

type CustomerInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
}

func (c *CustomerInput) ToGateway() gateway.Customer {
	if c == nil {
		return gateway.Customer{}
	}
	return gateway.Customer{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

func (r *OpenInvoiceRequest) Meta() datatypes.JSONMap {
	if len(r.InvoiceMeta) == 0 {
		return nil
	}
	return datatypes.JSONMap(r.InvoiceMeta)
}

/* ===================== Responses ===================== */

type InvoiceResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceUserID uuid.UUID       `json:"invoice_user_id"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	InvoiceToken  string          `json:"invoice_token"`
	InvoiceStatus string          `json:"invoice_status"`

	InvoiceGatewayProvider  *string `json:"invoice_gateway_provider,omitempty"`
	InvoiceGatewayReference *string `json:"invoice_gateway_reference,omitempty"`
	InvoiceCheckoutURL      *string `json:"invoice_checkout_url,omitempty"`

	InvoiceDescription *string    `json:"invoice_description,omitempty"`
	InvoiceCompletedAt *time.Time `json:"invoice_completed_at,omitempty"`
	InvoiceFailedAt    *time.Time `json:"invoice_failed_at,omitempty"`
	InvoiceCreatedAt   time.Time  `json:"invoice_created_at"`
}

func FromInvoiceModel(m *model.InvoiceModel) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:               m.InvoiceID,
		InvoiceUserID:           m.InvoiceUserID,
		InvoiceAmount:           m.InvoiceAmount,
		InvoiceToken:            m.InvoiceToken,
		InvoiceStatus:           string(m.InvoiceStatus),
		InvoiceGatewayProvider:  m.InvoiceGatewayProvider,
		InvoiceGatewayReference: m.InvoiceGatewayReference,
		InvoiceCheckoutURL:      m.InvoiceCheckoutURL,
		InvoiceDescription:      m.InvoiceDescription,
		InvoiceCompletedAt:      m.InvoiceCompletedAt,
		InvoiceFailedAt:         m.InvoiceFailedAt,
		InvoiceCreatedAt:        m.InvoiceCreatedAt,
	}
}

func FromInvoiceModels(ms []model.InvoiceModel) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromInvoiceModel(&ms[i]))
	}
	return out
}
