package export

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"concrete-reservation/logger"
	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/types"
	reservationTypes "concrete-reservation/types/reservation"
	"concrete-reservation/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController produces spreadsheet exports of the reservation
// book. Read-only: financial columns come from the pure helpers.
type ExportController struct {
	Store  reservationService.Store
	Engine *reservationService.Engine
}

// NewExportController creates a new export controller
func NewExportController(store reservationService.Store, engine *reservationService.Engine) *ExportController {
	return &ExportController{
		Store:  store,
		Engine: engine,
	}
}

// ExportReservations streams the full reservation book as a styled
// xlsx workbook with a totals row.
func (ec *ExportController) ExportReservations(c *fiber.Ctx) error {
	reservations, err := ec.Store.Filter(reservationService.Filter{})
	if err != nil {
		logger.Error("Failed to load reservations for export", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	workbook, err := ec.buildWorkbook("Reservations", fullColumns, reservations)
	if err != nil {
		logger.Error("Failed to generate Excel file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to generate Excel file",
			Data:    nil,
		})
	}

	return sendWorkbook(c, workbook, fmt.Sprintf("reservations_%s.xlsx", time.Now().Format("20060102_150405")))
}

// ExportCustomerReservations streams one customer's reservations,
// selected by phone number.
func (ec *ExportController) ExportCustomerReservations(c *fiber.Ctx) error {
	var req reservationTypes.LookupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if req.PhoneNumber == "" || !utils.IsValidPhone(req.PhoneNumber) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "A valid phone_number is required",
			Data:    nil,
		})
	}

	reservations, err := ec.Store.Filter(reservationService.Filter{PhoneNumber: req.PhoneNumber})
	if err != nil {
		logger.Error("Failed to load reservations for export", err)
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

	workbook, err := ec.buildWorkbook("Customer Reservations", customerColumns, reservations)
	if err != nil {
		logger.Error("Failed to generate Excel file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to generate Excel file",
			Data:    nil,
		})
	}

	return sendWorkbook(c, workbook, fmt.Sprintf("customer_reservations_%s.xlsx", req.PhoneNumber))
}

// column describes one export column: header label, cell value and
// whether the totals row sums it.
type column struct {
	label string
	value func(r *reservationModel.Reservation) interface{}
	total func(totals reservationService.Totals) *decimal.Decimal
}

var fullColumns = []column{
	{label: "Reservation Number", value: func(r *reservationModel.Reservation) interface{} { return r.ReservationNumber }},
	{label: "Customer Name", value: func(r *reservationModel.Reservation) interface{} { return r.CustomerName }},
	{label: "Carpenter Name", value: func(r *reservationModel.Reservation) interface{} { return r.CarpenterName }},
	{label: "Concrete Grade", value: func(r *reservationModel.Reservation) interface{} { return r.ConcreteType.String() }},
	{label: "Quantity (m3)", value: func(r *reservationModel.Reservation) interface{} { return r.ConcreteQuantity.InexactFloat64() }},
	{label: "Site Location", value: func(r *reservationModel.Reservation) interface{} { return r.SiteLocation }},
	{label: "Estimated Distance (km)", value: func(r *reservationModel.Reservation) interface{} { return r.EstimatedDistance.InexactFloat64() }},
	{label: "Reservation Date", value: func(r *reservationModel.Reservation) interface{} { return formatDate(r.ReservationDate) }},
	{label: "Approval Date", value: func(r *reservationModel.Reservation) interface{} { return formatDate(r.ApprovalDate) }},
	{label: "Approval Message", value: func(r *reservationModel.Reservation) interface{} { return stringOrEmpty(r.ApprovalMessage) }},
	{label: "Price Per Unit (USD)", value: func(r *reservationModel.Reservation) interface{} { return nullDecimalValue(r.PricePerUnit) }},
	{label: "Discount (USD)", value: func(r *reservationModel.Reservation) interface{} { return r.Discount.InexactFloat64() }},
	{label: "Total Cost (USD)", value: func(r *reservationModel.Reservation) interface{} { return nullDecimalValue(r.TotalCost) }},
	{label: "Accountant Notes", value: func(r *reservationModel.Reservation) interface{} { return stringOrEmpty(r.AccountantNotes) }},
	{
		label: "Payments (USD)",
		value: func(r *reservationModel.Reservation) interface{} { return r.Payments.InexactFloat64() },
		total: func(t reservationService.Totals) *decimal.Decimal { return &t.PaymentsTotal },
	},
	{
		label: "Remaining Balance (USD)",
		value: func(r *reservationModel.Reservation) interface{} { return reservationService.RemainingBalance(r).InexactFloat64() },
		total: func(t reservationService.Totals) *decimal.Decimal { return &t.RemainingTotal },
	},
	{label: "Completed", value: func(r *reservationModel.Reservation) interface{} { return yesNo(r.IsCompleted) }},
	{label: "Completion Date", value: func(r *reservationModel.Reservation) interface{} { return formatDate(r.CompletionDate) }},
	{label: "Status", value: func(r *reservationModel.Reservation) interface{} { return r.Status.String() }},
}

var customerColumns = []column{
	{label: "Reservation Number", value: func(r *reservationModel.Reservation) interface{} { return r.ReservationNumber }},
	{label: "Customer Name", value: func(r *reservationModel.Reservation) interface{} { return r.CustomerName }},
	{label: "Carpenter Name", value: func(r *reservationModel.Reservation) interface{} { return r.CarpenterName }},
	{label: "Concrete Grade", value: func(r *reservationModel.Reservation) interface{} { return r.ConcreteType.String() }},
	{label: "Quantity (m3)", value: func(r *reservationModel.Reservation) interface{} { return r.ConcreteQuantity.InexactFloat64() }},
	{label: "Price Per Unit (USD)", value: func(r *reservationModel.Reservation) interface{} { return nullDecimalValue(r.PricePerUnit) }},
	{label: "Discount (USD)", value: func(r *reservationModel.Reservation) interface{} { return r.Discount.InexactFloat64() }},
	{label: "Total Cost (USD)", value: func(r *reservationModel.Reservation) interface{} { return nullDecimalValue(r.TotalCost) }},
	{label: "Accountant Notes", value: func(r *reservationModel.Reservation) interface{} { return stringOrEmpty(r.AccountantNotes) }},
	{
		label: "Payments (USD)",
		value: func(r *reservationModel.Reservation) interface{} { return r.Payments.InexactFloat64() },
		total: func(t reservationService.Totals) *decimal.Decimal { return &t.PaymentsTotal },
	},
	{
		label: "Remaining Balance (USD)",
		value: func(r *reservationModel.Reservation) interface{} { return reservationService.RemainingBalance(r).InexactFloat64() },
		total: func(t reservationService.Totals) *decimal.Decimal { return &t.RemainingTotal },
	},
	{label: "Completed", value: func(r *reservationModel.Reservation) interface{} { return yesNo(r.IsCompleted) }},
	{label: "Completion Date", value: func(r *reservationModel.Reservation) interface{} { return formatDate(r.CompletionDate) }},
	{label: "Status", value: func(r *reservationModel.Reservation) interface{} { return r.Status.String() }},
}

func (ec *ExportController) buildWorkbook(sheetName string, columns []column, reservations []reservationModel.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4F81BD"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder("000000"),
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder("CCCCCC"),
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "FF0000",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D9EAD3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder("000000"),
	})

	for colIdx, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, col.label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		name, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, name, name, 20)
	}

	for rowIdx := range reservations {
		r := &reservations[rowIdx]
		ec.Engine.CheckConsistency(r)
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, col.value(r))
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	// Totals row, one blank row below the data.
	totals := reservationService.ComputeTotals(reservations)
	totalRow := len(reservations) + 3
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	f.SetCellValue(sheetName, labelCell, "Total:")
	f.SetCellStyle(sheetName, labelCell, labelCell, totalStyle)
	for colIdx, col := range columns {
		if col.total == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, totalRow)
		f.SetCellValue(sheetName, cell, col.total(totals).InexactFloat64())
		f.SetCellStyle(sheetName, cell, cell, totalStyle)
	}

	return f, nil
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, filename string) error {
	buffer, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write Excel file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to write Excel file",
			Data:    nil,
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Status(fiber.StatusOK).Send(buffer.Bytes())
}

func thinBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func nullDecimalValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
