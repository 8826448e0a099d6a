// file: internals/features/finance/gateway/adapter.go
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

/* =========================================================
   Boundary ke payment gateway (midtrans, dst.)
   Core ledger hanya tahu ChargeRequest keluar dan
   Notification masuk — detail provider di adapter.
========================================================= */

type Provider string

const (
	ProviderMidtrans Provider = "midtrans"
	ProviderManual   Provider = "manual"
)

// Outcome = hasil final sebuah charge menurut gateway.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Customer dipakai provider untuk halaman checkout (best-effort, boleh kosong).
type Customer struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ChargeRequest dihasilkan saat invoice dibuka. Token = idempotency token
// invoice; provider WAJIB meng-echo token ini di setiap callback (order_id).
type ChargeRequest struct {
	Token       string
	Amount      decimal.Decimal
	Description string
	Customer    Customer
}

// ProviderHandle = hasil inisiasi charge di provider.
type ProviderHandle struct {
	Provider    Provider
	Reference   string // transaction id / snap token di provider
	CheckoutURL string
}

// Notification = callback provider yang sudah dinormalisasi adapter.
// Input untrusted: engine memvalidasi token & amount sebelum mutasi apa pun.
// RawPayload disimpan apa adanya untuk audit.
type Notification struct {
	Provider   Provider
	Token      string
	Outcome    Outcome
	Amount     decimal.Decimal
	RawPayload datatypes.JSON
}

// Adapter = satu provider konkret. parseCallback tidak masuk interface karena
// tiap provider punya bentuk webhook sendiri; controller webhook memanggil
// helper adapter masing-masing.
type Adapter interface {
	Initiate(ctx context.Context, req ChargeRequest) (ProviderHandle, error)
}
