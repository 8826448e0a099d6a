// file: internals/features/finance/tuition/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tuitionController "kampusku_backend/internals/features/finance/tuition/controller"
)

// Mahasiswa: lihat & buka ledger miliknya sendiri.
func TuitionUserRoutes(r fiber.Router, db *gorm.DB) {
	ledgerCtl := tuitionController.NewTuitionLedgerController(db)

	ledgers := r.Group("/tuition-ledgers")
	{
		ledgers.Get("/me", ledgerCtl.ListMine)
		ledgers.Post("/me", ledgerCtl.GetOrCreateMine)
	}
}
