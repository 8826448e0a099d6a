// file: internals/features/finance/tuition/controller/tuition_ledger_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/finance/store"
	"kampusku_backend/internals/features/finance/tuition/dto"
	"kampusku_backend/internals/features/finance/tuition/model"
	svc "kampusku_backend/internals/features/finance/tuition/service"
	helper "kampusku_backend/internals/helpers"
)

/* =======================================================================
   Controller: ledger SPP
======================================================================= */

type TuitionLedgerController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.LedgerService
}

func NewTuitionLedgerController(db *gorm.DB) *TuitionLedgerController {
	return &TuitionLedgerController{
		DB:        db,
		Validator: validator.New(),
		Service:   svc.NewLedgerService(store.NewGormStore(db)),
	}
}

// POST /api/u/tuition-ledgers/me
// Student melihat ledger periode yang diminta; dibuat lazily bila belum ada.
func (h *TuitionLedgerController) GetOrCreateMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.GetOrCreateLedgerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	l, err := h.Service.GetOrCreate(c.UserContext(), studentID, req.Key())
	if err != nil {
		if errors.Is(err, svc.ErrScheduleNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FromTuitionLedgerModel(l))
}

// GET /api/u/tuition-ledgers/me
// Riwayat semua ledger milik student (payment history view).
func (h *TuitionLedgerController) ListMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var rows []model.TuitionLedgerModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("tuition_ledger_student_id = ?", studentID).
		Order("tuition_ledger_created_at DESC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FromTuitionLedgerModels(rows))
}

// GET /api/a/tuition-ledgers
// Admin reporting. Filter: ?student_id= &status= + paging standar.
func (h *TuitionLedgerController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	q := h.DB.WithContext(c.UserContext()).Model(&model.TuitionLedgerModel{})
	if v := c.Query("student_id"); v != "" {
		q = q.Where("tuition_ledger_student_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("tuition_ledger_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.TuitionLedgerModel
	if err := q.Order("tuition_ledger_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "OK", dto.FromTuitionLedgerModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /api/a/tuition-ledgers/:id/payments
// Admin mencatat pembayaran manual (bank transfer / kas) langsung ke ledger,
// tanpa invoice & gateway.
func (h *TuitionLedgerController) ManualPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.ManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	l, err := h.Service.ApplyPayment(c.UserContext(), id, req.Amount, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrLedgerNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, svc.ErrInvalidAmount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Pembayaran dicatat", dto.FromTuitionLedgerModel(l))
}
