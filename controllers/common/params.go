package common

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"concrete-reservation/logger"
	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/types"
)

// ParamError carries the HTTP status for a failed :id lookup.
type ParamError struct {
	Status  int
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}

// FindByParamID loads the reservation addressed by the :id route param.
// Failures come back as a ParamError for RespondParamError.
func FindByParamID(c *fiber.Ctx, store reservationService.Store) (*reservationModel.Reservation, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, &ParamError{Status: fiber.StatusBadRequest, Message: "Invalid reservation id"}
	}
	record, err := store.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, reservationService.ErrNotFound) {
			return nil, &ParamError{Status: fiber.StatusNotFound, Message: "Reservation not found"}
		}
		logger.Error("Failed to find reservation", err)
		return nil, &ParamError{Status: fiber.StatusInternalServerError, Message: "Database error"}
	}
	return record, nil
}

// RespondParamError maps a FindByParamID failure onto the response
// envelope.
func RespondParamError(c *fiber.Ctx, err error) error {
	var pe *ParamError
	if errors.As(err, &pe) {
		return c.Status(pe.Status).JSON(types.ApiResponse{
			Status:  pe.Status,
			Message: pe.Message,
			Data:    nil,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Data:    nil,
	})
}
