package reservation

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"concrete-reservation/logger"
	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/types"
	reservationTypes "concrete-reservation/types/reservation"
	"concrete-reservation/utils"
)

// ReservationController handles the customer-facing reservation flows
// and the staff manage/confirm views.
type ReservationController struct {
	store  reservationService.Store
	Engine *reservationService.Engine
}

// NewReservationController creates a new reservation controller
func NewReservationController(store reservationService.Store, engine *reservationService.Engine) *ReservationController {
	return &ReservationController{
		store:  store,
		Engine: engine,
	}
}

// Store creates a new reservation from a customer submission. All
// lifecycle flags start false, so the record lands in pending.
func (rc *ReservationController) Store(c *fiber.Ctx) error {
	var req reservationTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
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

	record := reservationModel.Reservation{
		CustomerName:      req.CustomerName,
		CarpenterName:     req.CarpenterName,
		ConcreteType:      reservationModel.ConcreteGrade(req.ConcreteType),
		ConcreteQuantity:  req.ConcreteQuantity,
		SiteLocation:      req.SiteLocation,
		EstimatedDistance: req.EstimatedDistance,
		PhoneNumber:       req.PhoneNumber,
	}
	if req.AdditionalNotes != "" {
		record.AdditionalNotes = &req.AdditionalNotes
	}

	if err := rc.Engine.NormalizeAndSave(&record); err != nil {
		return respondEngineError(c, err)
	}

	logger.Success(fmt.Sprintf("Reservation %s created for %s", record.ReservationNumber, record.CustomerName))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Reservation created successfully",
		Data:    record,
	})
}

// Lookup finds reservations by phone number (with financial totals) or
// a single reservation by its number. Public, read-only.
func (rc *ReservationController) Lookup(c *fiber.Ctx) error {
	var req reservationTypes.LookupRequest
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

	if req.PhoneNumber != "" {
		reservations, err := rc.store.Filter(reservationService.Filter{PhoneNumber: req.PhoneNumber})
		if err != nil {
			logger.Error("Failed to filter reservations", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
				Data:    nil,
			})
		}
		if len(reservations) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "No reservations recorded for this phone number",
				Data:    nil,
			})
		}
		for i := range reservations {
			rc.Engine.CheckConsistency(&reservations[i])
		}
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Reservations found",
			Data: fiber.Map{
				"reservations": reservations,
				"totals":       reservationService.ComputeTotals(reservations),
			},
		})
	}

	record, err := rc.store.FindByNumber(req.ReservationNumber)
	if err != nil {
		if errors.Is(err, reservationService.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Reservation number not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find reservation", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	rc.Engine.CheckConsistency(record)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservation found",
		Data:    record,
	})
}

// respondEngineError maps lifecycle-engine errors onto the response
// envelope.
func respondEngineError(c *fiber.Ctx, err error) error {
	switch {
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
	case errors.Is(err, reservationService.ErrGenerationExhausted):
		logger.Error("Reservation number generation exhausted", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Could not allocate a reservation number",
			Data:    nil,
		})
	case reservationService.IsValidation(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
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
