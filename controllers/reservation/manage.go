package reservation

import (
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

// Manage lists reservations for staff, filtered by status and
// reservation date.
func (rc *ReservationController) Manage(c *fiber.Ctx) error {
	filter := reservationService.Filter{}

	if status := c.Query("status"); status != "" {
		parsed := reservationModel.Status(status)
		if !parsed.IsValid() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
				Status:  fiber.StatusUnprocessableEntity,
				Message: "Unknown status filter",
				Data:    nil,
			})
		}
		filter.Status = parsed
	}

	if dateStr := c.Query("reservation_date"); dateStr != "" {
		date, err := utils.ParseDate(dateStr)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
				Status:  fiber.StatusUnprocessableEntity,
				Message: err.Error(),
				Data:    nil,
			})
		}
		filter.ReservationDate = date
	}

	reservations, err := rc.store.Filter(filter)
	if err != nil {
		logger.Error("Failed to filter reservations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservations listed",
		Data:    reservations,
	})
}

// Approve marks a reservation approved with an optional approval date
// and message.
func (rc *ReservationController) Approve(c *fiber.Ctx) error {
	var req reservationTypes.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	record, err := common.FindByParamID(c, rc.store)
	if err != nil {
		return common.RespondParamError(c, err)
	}

	approvalDate, err := utils.ParseDate(req.ApprovalDate)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	record.IsApproved = true
	record.IsRejected = false
	record.ApprovalDate = approvalDate
	if req.ApprovalMessage != "" {
		record.ApprovalMessage = &req.ApprovalMessage
	}

	if err := rc.Engine.NormalizeAndSave(record); err != nil {
		return respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Reservation %s approved", record.ReservationNumber))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Reservation %s approved successfully", record.ReservationNumber),
		Data:    record,
	})
}

// Reject marks a reservation rejected.
func (rc *ReservationController) Reject(c *fiber.Ctx) error {
	record, err := common.FindByParamID(c, rc.store)
	if err != nil {
		return common.RespondParamError(c, err)
	}

	record.IsApproved = false
	record.IsRejected = true

	if err := rc.Engine.NormalizeAndSave(record); err != nil {
		return respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Reservation %s rejected", record.ReservationNumber))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Reservation %s rejected", record.ReservationNumber),
		Data:    record,
	})
}

// ConfirmList shows the reservations awaiting confirmation: approved
// but not yet confirmed.
func (rc *ReservationController) ConfirmList(c *fiber.Ctx) error {
	reservations, err := rc.store.Filter(reservationService.Filter{Status: reservationModel.StatusApproved})
	if err != nil {
		logger.Error("Failed to filter reservations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservations awaiting confirmation",
		Data:    reservations,
	})
}

// Confirm finalizes quantity and grade after approval, the prerequisite
// for accounting.
func (rc *ReservationController) Confirm(c *fiber.Ctx) error {
	var req reservationTypes.ConfirmRequest
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

	record, err := common.FindByParamID(c, rc.store)
	if err != nil {
		return common.RespondParamError(c, err)
	}

	record.ConcreteQuantity = req.ConcreteQuantity
	record.ConcreteType = reservationModel.ConcreteGrade(req.ConcreteType)
	record.IsConfirmed = true
	record.IsCompleted = req.IsCompleted

	if err := rc.Engine.NormalizeAndSave(record); err != nil {
		return respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Reservation %s confirmed", record.ReservationNumber))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Reservation %s confirmed successfully", record.ReservationNumber),
		Data:    record,
	})
}
