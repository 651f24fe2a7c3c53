package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"concrete-reservation/constants"
	"concrete-reservation/controllers/accountant"
	"concrete-reservation/controllers/auth"
	"concrete-reservation/controllers/export"
	reservationCtrl "concrete-reservation/controllers/reservation"
	"concrete-reservation/logger"
	"concrete-reservation/middleware"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/storage"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	store := storage.NewReservationStore(db)
	engine := reservationService.NewEngine(store)

	authController := auth.NewAuthController(db)
	reservationController := reservationCtrl.NewReservationController(store, engine)
	accountantController := accountant.NewAccountantController(store, engine)
	exportController := export.NewExportController(store, engine)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Use(middleware.RequestLogger(asyncLogger))
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/logout", middleware.RequireAuthentication(), authController.LogOut)

	api.Post("/reservations", reservationController.Store)
	api.Post("/reservations/lookup", reservationController.Lookup)
	api.Post("/export/customer", exportController.ExportCustomerReservations)

	/*=============================================================================
	| Reservation Management Routes
	===============================================================================*/
	manage := api.Group("/manage").Use(middleware.RequirePermissions(
		constants.PermManagerFull,
	))
	manage.Get("/reservations", reservationController.Manage)
	manage.Post("/reservations/:id/approve", reservationController.Approve)
	manage.Post("/reservations/:id/reject", reservationController.Reject)

	api.Get("/export/reservations", middleware.RequirePermissions(
		constants.PermManagerFull,
	), exportController.ExportReservations)

	/*=============================================================================
	| Confirmation Routes
	===============================================================================*/
	confirm := api.Group("/confirm").Use(middleware.RequirePermissions(
		constants.PermConfirmerFull,
	))
	confirm.Get("/reservations", reservationController.ConfirmList)
	confirm.Post("/reservations/:id", reservationController.Confirm)

	/*=============================================================================
	| Accountant Routes
	===============================================================================*/
	acct := api.Group("/accountant").Use(middleware.RequirePermissions(
		constants.PermAccountantFull,
	))
	acct.Get("/dashboard", accountantController.Dashboard)
	acct.Put("/reservations/:id/financial", accountantController.UpdateFinancialDetails)
	acct.Post("/reservations/:id/payments", accountantController.RecordPayment)
}
