package accountant

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"concrete-reservation/controllers/common"
	"concrete-reservation/logger"
	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/types"
	reservationTypes "concrete-reservation/types/reservation"
	"concrete-reservation/utils"
)

// AccountantController handles the financial workflow over confirmed
// reservations.
type AccountantController struct {
	Store  reservationService.Store
	Engine *reservationService.Engine
}

// NewAccountantController creates a new accountant controller
func NewAccountantController(store reservationService.Store, engine *reservationService.Engine) *AccountantController {
	return &AccountantController{
		Store:  store,
		Engine: engine,
	}
}

// Dashboard lists confirmed reservations with their financial totals,
// optionally narrowed by the sign of the remaining balance.
func (ac *AccountantController) Dashboard(c *fiber.Ctx) error {
	financialStatus := reservationService.FinancialStatus(c.Query("financial_status"))
	switch financialStatus {
	case reservationService.FinancialAny, reservationService.FinancialRemaining,
		reservationService.FinancialPaid, reservationService.FinancialPending:
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "Unknown financial status filter",
			Data:    nil,
		})
	}

	reservations, err := ac.Store.Filter(reservationService.Filter{
		ConfirmedOnly:   true,
		FinancialStatus: financialStatus,
	})
	if err != nil {
		logger.Error("Failed to filter reservations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	for i := range reservations {
		ac.Engine.CheckConsistency(&reservations[i])
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Accountant dashboard",
		Data: fiber.Map{
			"reservations":     reservations,
			"totals":           reservationService.ComputeTotals(reservations),
			"financial_status": financialStatus,
		},
	})
}

// UpdateFinancialDetails sets the finalized pricing for a reservation.
func (ac *AccountantController) UpdateFinancialDetails(c *fiber.Ctx) error {
	var req reservationTypes.FinancialDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	record, err := common.FindByParamID(c, ac.Store)
	if err != nil {
		return common.RespondParamError(c, err)
	}

	completionDate, err := utils.ParseDate(req.CompletionDate)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	details := reservationService.FinancialDetails{
		PricePerUnit:     req.PricePerUnit,
		Discount:         req.Discount,
		Payments:         req.Payments,
		ConcreteQuantity: req.ConcreteQuantity,
		ConcreteType:     reservationModel.ConcreteGrade(req.ConcreteType),
		IsCompleted:      req.IsCompleted,
		CompletionDate:   completionDate,
	}
	if req.AccountantNotes != "" {
		details.AccountantNotes = &req.AccountantNotes
	}

	if err := ac.Engine.ApplyFinancialDetails(record, details); err != nil {
		return ac.respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Financial details updated for reservation %s", record.ReservationNumber))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Financial details for reservation %s updated successfully", record.ReservationNumber),
		Data:    record,
	})
}

// RecordPayment records one payment against a reservation. Completion
// happens automatically when the balance reaches zero.
func (ac *AccountantController) RecordPayment(c *fiber.Ctx) error {
	var req reservationTypes.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	record, err := common.FindByParamID(c, ac.Store)
	if err != nil {
		return common.RespondParamError(c, err)
	}

	if err := ac.Engine.RecordPayment(record, req.PaymentAmount); err != nil {
		return ac.respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Payment of %s recorded for reservation %s", req.PaymentAmount, record.ReservationNumber))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Payment of %s recorded for reservation %s", req.PaymentAmount, record.ReservationNumber),
		Data:    record,
	})
}

func (ac *AccountantController) respondEngineError(c *fiber.Ctx, err error) error {
	switch {
	case reservationService.IsValidation(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	case errors.Is(err, reservationService.ErrInvalidState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	case errors.Is(err, reservationService.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Reservation was changed by someone else, reload and retry",
			Data:    nil,
		})
	default:
		logger.Error("Failed to save reservation", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save reservation",
			Data:    nil,
		})
	}
}
