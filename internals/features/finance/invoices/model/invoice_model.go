// file: internals/features/finance/invoices/model/invoice_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enum status ===================== */
/* State machine: open → completed | failed (terminal, tidak ada transisi lanjut) */

type InvoiceStatus string

const (
	InvoiceStatusOpen      InvoiceStatus = "open"
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusFailed    InvoiceStatus = "failed"
)

/* ===================== Model ===================== */

// InvoiceModel = satu permintaan bayar dengan token idempoten unik.
// Token dibangkitkan sekali saat create (uuid4, 128-bit random), dipakai
// gateway sebagai order_id dan di-echo balik di tiap callback.
type InvoiceModel struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;default:gen_random_uuid();primaryKey" json:"invoice_id"`

	InvoiceUserID uuid.UUID `gorm:"column:invoice_user_id;type:uuid;not null;index:idx_invoices_user" json:"invoice_user_id"`

	InvoiceAmount decimal.Decimal `gorm:"column:invoice_amount;type:numeric(12,2);not null" json:"invoice_amount"`

	// Token idempoten: assigned exactly once, never reused
	InvoiceToken string `gorm:"column:invoice_token;type:varchar(64);not null;uniqueIndex:uq_invoices_token" json:"invoice_token"`

	InvoiceStatus      InvoiceStatus `gorm:"column:invoice_status;type:invoice_status;not null;default:'open'" json:"invoice_status"`
	InvoiceCompletedAt *time.Time    `gorm:"column:invoice_completed_at" json:"invoice_completed_at,omitempty"`
	InvoiceFailedAt    *time.Time    `gorm:"column:invoice_failed_at" json:"invoice_failed_at,omitempty"`

	// Hasil inisiasi di gateway (opsional untuk invoice non-gateway)
	InvoiceGatewayProvider  *string `gorm:"column:invoice_gateway_provider" json:"invoice_gateway_provider,omitempty"`
	InvoiceGatewayReference *string `gorm:"column:invoice_gateway_reference" json:"invoice_gateway_reference,omitempty"`
	InvoiceCheckoutURL      *string `gorm:"column:invoice_checkout_url" json:"invoice_checkout_url,omitempty"`

	InvoiceDescription *string           `gorm:"column:invoice_description" json:"invoice_description,omitempty"`
	InvoiceMeta        datatypes.JSONMap `gorm:"column:invoice_meta;type:jsonb" json:"invoice_meta,omitempty"`

	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;autoUpdateTime" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"invoice_deleted_at,omitempty"`
}

func (InvoiceModel) TableName() string { return "invoices" }

/* ===================== Helpers ===================== */

func (i *InvoiceModel) IsTerminal() bool {
	return i.InvoiceStatus == InvoiceStatusCompleted || i.InvoiceStatus == InvoiceStatusFailed
}

func (i *InvoiceModel) IsCompleted() bool {
	return i.InvoiceStatus == InvoiceStatusCompleted
}

func (i *InvoiceModel) IsOpen() bool {
	return i.InvoiceStatus == InvoiceStatusOpen
}
