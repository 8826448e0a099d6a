// file: internals/features/finance/gateway/midtrans/midtrans.go
package midtrans

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"kampusku_backend/internals/features/finance/gateway"
)

/* =========================================================
   Adapter Midtrans (Snap)
   - order_id = idempotency token invoice
   - signature webhook: SHA512(order_id + status_code + gross_amount + ServerKey)
========================================================= */

// ErrNonIntegralAmount: gross_amount midtrans adalah rupiah bulat.
var ErrNonIntegralAmount = errors.New("midtrans gross amount must be integral")

type Adapter struct {
	snapClient snap.Client
	serverKey  string
}

func NewAdapter(serverKey string, useProd bool) *Adapter {
	env := midtrans.Sandbox
	if useProd {
		env = midtrans.Production
	}
	a := &Adapter{serverKey: serverKey}
	a.snapClient.New(serverKey, env)
	return a
}

// Initiate membuat Snap transaction; GrossAmt midtrans = int64 rupiah bulat.
// Nominal pecahan ditolak, bukan dibulatkan: tagihan yang digeser satu rupiah
// pun tidak akan pernah cocok lagi dengan amount invoice saat callback.
func (a *Adapter) Initiate(ctx context.Context, req gateway.ChargeRequest) (gateway.ProviderHandle, error) {
	if !req.Amount.IsInteger() {
		return gateway.ProviderHandle{}, ErrNonIntegralAmount
	}
	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Token,
			GrossAmt: req.Amount.IntPart(),
		},
	}
	if req.Customer.FirstName != "" || req.Customer.Email != "" {
		sreq.CustomerDetail = &midtrans.CustomerDetails{
			FName: req.Customer.FirstName,
			LName: req.Customer.LastName,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	resp, err := a.snapClient.CreateTransaction(sreq)
	if err != nil {
		return gateway.ProviderHandle{}, err
	}
	return gateway.ProviderHandle{
		Provider:    gateway.ProviderMidtrans,
		Reference:   resp.Token,
		CheckoutURL: resp.RedirectURL,
	}, nil
}

// VerifySignature mengecek signature_key notifikasi midtrans.
func (a *Adapter) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	want := strings.ToLower(strings.TrimSpace(signatureKey))
	if want == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + a.serverKey))
	return hex.EncodeToString(sum[:]) == want
}

// MapTransactionStatus memetakan transaction_status (+fraud_status) midtrans
// ke Outcome final. final=false artinya event belum menentukan (pending /
// capture-challenge) → dicatat saja, tidak direkonsiliasi.
func MapTransactionStatus(transactionStatus, fraudStatus string) (gateway.Outcome, bool) {
	ts := strings.ToLower(transactionStatus)
	fraud := strings.ToLower(fraudStatus)
	switch ts {
	case "capture":
		if fraud == "accept" {
			return gateway.OutcomeSucceeded, true
		}
		if fraud == "challenge" {
			return "", false
		}
		return gateway.OutcomeFailed, true
	case "settlement":
		return gateway.OutcomeSucceeded, true
	case "deny", "cancel", "expire", "failure":
		return gateway.OutcomeFailed, true
	}
	// pending & status lain: belum final
	return "", false
}
