// file: internals/features/finance/tuition/controller/fee_schedule_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/finance/store"
	"kampusku_backend/internals/features/finance/tuition/dto"
	"kampusku_backend/internals/features/finance/tuition/model"
	svc "kampusku_backend/internals/features/finance/tuition/service"
	helper "kampusku_backend/internals/helpers"
)

/* =======================================================================
   Controller (admin): tarif SPP
======================================================================= */

type FeeScheduleController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.FeeScheduleService
}

func NewFeeScheduleController(db *gorm.DB) *FeeScheduleController {
	return &FeeScheduleController{
		DB:        db,
		Validator: validator.New(),
		Service:   svc.NewFeeScheduleService(store.NewGormStore(db)),
	}
}

// POST /api/a/fee-schedules
func (h *FeeScheduleController) Create(c *fiber.Ctx) error {
	var req dto.CreateFeeScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := h.Service.Define(c.UserContext(), req.Key(), req.FeeScheduleAmount)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrDuplicateSchedule):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, svc.ErrInvalidAmount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Tarif berhasil dibuat", dto.FromFeeScheduleModel(m))
}

// GET /api/a/fee-schedules
// Filter: ?program_id= &level= &semester= &year=  + paging standar.
func (h *FeeScheduleController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	q := h.DB.WithContext(c.UserContext()).Model(&model.FeeScheduleModel{})
	if v := c.Query("program_id"); v != "" {
		q = q.Where("fee_schedule_program_id = ?", v)
	}
	if v := c.Query("level"); v != "" {
		q = q.Where("fee_schedule_level = ?", v)
	}
	if v := c.Query("semester"); v != "" {
		q = q.Where("fee_schedule_semester = ?", v)
	}
	if v := c.QueryInt("year"); v > 0 {
		q = q.Where("fee_schedule_year = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.FeeScheduleModel
	if err := q.Order("fee_schedule_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromFeeScheduleModels(rows), helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}
