// file: internals/features/finance/reconcile/model/gateway_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/*
  payment_gateway_events = LOG WEBHOOK / CALLBACK PAYMENT GATEWAY
  - Bisa banyak row per 1 invoice (tiap callback / redelivery)
  - Nyimpen raw headers, payload, signature, status processing.
  - Audit only: idempotensi rekonsiliasi TIDAK dibangun di atas tabel ini,
    melainkan di status terminal invoice.
*/

type GatewayEventStatus string

const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusIgnored   GatewayEventStatus = "ignored"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

type GatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`

	GatewayEventInvoiceID *uuid.UUID `gorm:"column:gateway_event_invoice_id;type:uuid;index:idx_gateway_events_invoice" json:"gateway_event_invoice_id,omitempty"`

	// Provider & identitas event
	GatewayEventProvider string  `gorm:"column:gateway_event_provider;not null" json:"gateway_event_provider"`
	GatewayEventType     *string `gorm:"column:gateway_event_type" json:"gateway_event_type,omitempty"`
	GatewayEventToken    *string `gorm:"column:gateway_event_token;index:idx_gateway_events_token" json:"gateway_event_token,omitempty"`
	GatewayEventRef      *string `gorm:"column:gateway_event_ref" json:"gateway_event_ref,omitempty"`

	// Raw data (buat debug / replay)
	GatewayEventHeaders   datatypes.JSON `gorm:"column:gateway_event_headers;type:jsonb" json:"gateway_event_headers,omitempty"`
	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload,omitempty"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature" json:"gateway_event_signature,omitempty"`

	// Status processing internal
	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:gateway_event_status;not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;autoCreateTime" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (GatewayEventModel) TableName() string { return "payment_gateway_events" }
