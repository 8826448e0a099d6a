// file: internals/features/finance/tuition/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tuitionController "kampusku_backend/internals/features/finance/tuition/controller"
)

/*
Admin routes: FeeSchedules + TuitionLedgers
Contoh mount: TuitionAdminRoutes(app.Group("/api/a"), db)
Final paths:
- /api/a/fee-schedules ...
- /api/a/tuition-ledgers ...
*/
func TuitionAdminRoutes(r fiber.Router, db *gorm.DB) {
	feeCtl := tuitionController.NewFeeScheduleController(db)
	ledgerCtl := tuitionController.NewTuitionLedgerController(db)

	fees := r.Group("/fee-schedules")
	{
		fees.Post("/", feeCtl.Create)
		fees.Get("/", feeCtl.List)
	}

	ledgers := r.Group("/tuition-ledgers")
	{
		ledgers.Get("/", ledgerCtl.List)
		// pembayaran manual (transfer bank / kasir)
		ledgers.Post("/:id/payments", ledgerCtl.ManualPayment)
	}
}
