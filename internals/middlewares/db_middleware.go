// file: internals/middlewares/db_middleware.go
package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DBMiddleware menaruh koneksi gorm di Locals("db") — dipakai handler
// yang tidak di-wire lewat controller (mis. /health).
func DBMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("db", db.WithContext(c.UserContext()))
		return c.Next()
	}
}
