// file: internals/features/finance/invoices/route/user_route.go
package route

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	"kampusku_backend/internals/features/finance/gateway"
	midtransAdapter "kampusku_backend/internals/features/finance/gateway/midtrans"
	invoiceController "kampusku_backend/internals/features/finance/invoices/controller"
)

/*
User routes: Invoices
Contoh mount: InvoiceUserRoutes(app.Group("/api/u"), db)
Final paths:
- /api/u/invoices ...
*/
func InvoiceUserRoutes(r fiber.Router, db *gorm.DB) {
	var adapter gateway.Adapter
	if key := configs.GetEnv("MIDTRANS_SERVER_KEY"); key != "" {
		useProd := strings.EqualFold(configs.GetEnv("MIDTRANS_USE_PROD"), "true")
		adapter = midtransAdapter.NewAdapter(key, useProd)
	}

	ctl := invoiceController.NewInvoiceController(db, adapter)

	invoices := r.Group("/invoices")
	{
		invoices.Post("/", ctl.Open)
		invoices.Get("/", ctl.ListMine)
		invoices.Get("/:id", ctl.Detail)
	}
}
