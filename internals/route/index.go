// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "kampusku_backend/internals/middlewares/auth"

	invoiceRoute "kampusku_backend/internals/features/finance/invoices/route"
	reconcileRoute "kampusku_backend/internals/features/finance/reconcile/route"
	tuitionRoute "kampusku_backend/internals/features/finance/tuition/route"
	"kampusku_backend/internals/middlewares"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// koneksi db tersedia di Locals untuk handler yang butuh
	app.Use(middlewares.DBMiddleware(db))

	BaseRoutes(app, db)

	// ===================== GROUPS =====================

	// PRIVATE (USER) → JWT wajib
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	// ADMIN → JWT + role admin keuangan
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		authMiddleware.AdminOnly(),
	)

	// PUBLIC → callback gateway, tanpa JWT (diverifikasi via signature)
	log.Println("[INFO] Setting up PAYMENTS (webhook) group...")
	payments := app.Group("/api/payments", middlewares.WebhookRateLimiter())

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Tuition routes...")
	tuitionRoute.TuitionAdminRoutes(admin, db)
	tuitionRoute.TuitionUserRoutes(user, db)

	log.Println("[INFO] Mounting Invoice routes...")
	invoiceRoute.InvoiceUserRoutes(user, db)

	log.Println("[INFO] Mounting Webhook routes...")
	reconcileRoute.WebhookRoutes(payments, db)
}
