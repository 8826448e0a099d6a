// file: internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/finance/gateway"
	"kampusku_backend/internals/features/finance/invoices/dto"
	"kampusku_backend/internals/features/finance/invoices/model"
	svc "kampusku_backend/internals/features/finance/invoices/service"
	"kampusku_backend/internals/features/finance/store"
	helper "kampusku_backend/internals/helpers"
)

/* =======================================================================
   Controller: invoice
======================================================================= */

type InvoiceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.InvoiceService
}

func NewInvoiceController(db *gorm.DB, adapter gateway.Adapter) *InvoiceController {
	return &InvoiceController{
		DB:        db,
		Validator: validator.New(),
		Service:   svc.NewInvoiceService(store.NewGormStore(db), adapter),
	}
}

// POST /api/u/invoices
// Buka invoice (token idempoten baru + inisiasi gateway bila ada adapter);
// opsional langsung ditautkan ke ledger SPP.
func (h *InvoiceController) Open(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.OpenInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Link ledger terjadi DI DALAM Open (satu transaksi, sebelum charge
	// gateway) — konflik link tidak meninggalkan invoice yang bisa dibayar.
	inv, err := h.Service.Open(c.UserContext(), svc.OpenInput{
		UserID:      userID,
		Amount:      req.InvoiceAmount,
		Description: req.InvoiceDescription,
		Customer:    req.Customer.ToGateway(),
		Meta:        req.Meta(),
		LedgerID:    req.TuitionLedgerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvalidAmount), errors.Is(err, svc.ErrNonIntegralAmount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, svc.ErrAlreadyLinked):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, "open invoice failed: "+err.Error())
	}

	return helper.JsonCreated(c, "Invoice dibuat", dto.FromInvoiceModel(inv))
}

// GET /api/u/invoices
func (h *InvoiceController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.InvoiceModel{}).
		Where("invoice_user_id = ?", userID)
	if v := c.Query("status"); v != "" {
		q = q.Where("invoice_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.InvoiceModel
	if err := q.Order("invoice_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "OK", dto.FromInvoiceModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/invoices/:id
func (h *InvoiceController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var inv model.InvoiceModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&inv, "invoice_id = ? AND invoice_user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FromInvoiceModel(&inv))
}
