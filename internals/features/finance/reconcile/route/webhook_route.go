// file: internals/features/finance/reconcile/route/webhook_route.go
package route

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	midtransAdapter "kampusku_backend/internals/features/finance/gateway/midtrans"
	reconcileController "kampusku_backend/internals/features/finance/reconcile/controller"
)

/*
Public routes: payment gateway callbacks (tanpa JWT, verifikasi via signature).
Contoh mount: WebhookRoutes(app.Group("/api/payments"), db)
Final path: POST /api/payments/midtrans/webhook
*/
func WebhookRoutes(r fiber.Router, db *gorm.DB) {
	useProd := strings.EqualFold(configs.GetEnv("MIDTRANS_USE_PROD"), "true")
	adapter := midtransAdapter.NewAdapter(configs.GetEnv("MIDTRANS_SERVER_KEY"), useProd)

	ctl := reconcileController.NewWebhookController(db, adapter)

	r.Post("/midtrans/webhook", ctl.MidtransWebhook)
}
