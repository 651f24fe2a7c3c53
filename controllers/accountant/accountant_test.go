package accountant_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"concrete-reservation/controllers/accountant"
	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
	"concrete-reservation/types"
)

// stubStore implements reservationService.Store in memory.
type stubStore struct {
	records map[uint]reservationModel.Reservation
	nextID  uint
}

func newStubStore() *stubStore {
	return &stubStore{records: make(map[uint]reservationModel.Reservation), nextID: 1}
}

func (s *stubStore) FindByID(id uint) (*reservationModel.Reservation, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, reservationService.ErrNotFound
	}
	copied := r
	return &copied, nil
}

func (s *stubStore) FindByNumber(number string) (*reservationModel.Reservation, error) {
	for _, r := range s.records {
		if r.ReservationNumber == number {
			copied := r
			return &copied, nil
		}
	}
	return nil, reservationService.ErrNotFound
}

func (s *stubStore) ExistsByNumber(number string) (bool, error) {
	_, err := s.FindByNumber(number)
	if errors.Is(err, reservationService.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *stubStore) Save(r *reservationModel.Reservation) error {
	if r.ID == 0 {
		r.ID = s.nextID
		s.nextID++
		r.Version = 1
	} else {
		r.Version++
	}
	s.records[r.ID] = *r
	return nil
}

func (s *stubStore) Filter(f reservationService.Filter) ([]reservationModel.Reservation, error) {
	var out []reservationModel.Reservation
	for _, r := range s.records {
		if f.ConfirmedOnly && !r.IsConfirmed {
			continue
		}
		if f.FinancialStatus != reservationService.FinancialAny {
			if !r.RemainingBalance.Valid {
				continue
			}
			remaining := r.RemainingBalance.Decimal
			switch f.FinancialStatus {
			case reservationService.FinancialRemaining:
				if !remaining.IsPositive() {
					continue
				}
			case reservationService.FinancialPaid:
				if !remaining.IsZero() {
					continue
				}
			case reservationService.FinancialPending:
				if !remaining.IsNegative() {
					continue
				}
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func setupApp(store *stubStore) *fiber.App {
	engine := reservationService.NewEngine(store)
	controller := accountant.NewAccountantController(store, engine)

	app := fiber.New()
	app.Get("/api/accountant/dashboard", controller.Dashboard)
	app.Put("/api/accountant/reservations/:id/financial", controller.UpdateFinancialDetails)
	app.Post("/api/accountant/reservations/:id/payments", controller.RecordPayment)
	return app
}

// seedConfirmed plants one confirmed reservation with finalized pricing
// and returns its id.
func seedConfirmed(t *testing.T, store *stubStore, engine *reservationService.Engine) uint {
	t.Helper()

	r := &reservationModel.Reservation{
		CustomerName:      "Abu Khalid",
		CarpenterName:     "Sami",
		ConcreteType:      reservationModel.Grade300,
		ConcreteQuantity:  decimal.NewFromInt(2),
		SiteLocation:      "North district",
		EstimatedDistance: decimal.NewFromInt(12),
		PhoneNumber:       "+963991234567",
		IsApproved:        true,
		IsConfirmed:       true,
		PricePerUnit:      decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	require.NoError(t, engine.NormalizeAndSave(r))
	return r.ID
}

func request(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, types.ApiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestRecordPaymentCompletes(t *testing.T) {
	store := newStubStore()
	engine := reservationService.NewEngine(store)
	app := setupApp(store)
	id := seedConfirmed(t, store, engine)

	resp, _ := request(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/accountant/reservations/%d/payments", id),
		fiber.Map{"payment_amount": 200})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	saved, err := store.FindByID(id)
	require.NoError(t, err)
	require.True(t, saved.IsCompleted)
	require.Equal(t, reservationModel.StatusCompleted, saved.Status)
	require.True(t, saved.RemainingBalance.Decimal.IsZero())
}

func TestRecordPaymentOverBalanceRejected(t *testing.T) {
	store := newStubStore()
	engine := reservationService.NewEngine(store)
	app := setupApp(store)
	id := seedConfirmed(t, store, engine)

	resp, parsed := request(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/accountant/reservations/%d/payments", id),
		fiber.Map{"payment_amount": 500})

	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "payment exceeds remaining balance", parsed.Message)

	saved, err := store.FindByID(id)
	require.NoError(t, err)
	require.True(t, saved.Payments.IsZero())
	require.False(t, saved.IsCompleted)
}

func TestRecordPaymentUnknownReservation(t *testing.T) {
	store := newStubStore()
	app := setupApp(store)

	resp, _ := request(t, app, fiber.MethodPost,
		"/api/accountant/reservations/42/payments",
		fiber.Map{"payment_amount": 10})

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecordPaymentBadIDParam(t *testing.T) {
	store := newStubStore()
	app := setupApp(store)

	resp, parsed := request(t, app, fiber.MethodPost,
		"/api/accountant/reservations/abc/payments",
		fiber.Map{"payment_amount": 10})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid reservation id", parsed.Message)

	resp, parsed = request(t, app, fiber.MethodPost,
		"/api/accountant/reservations/0/payments",
		fiber.Map{"payment_amount": 10})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid reservation id", parsed.Message)
}

func TestUpdateFinancialDetails(t *testing.T) {
	store := newStubStore()
	engine := reservationService.NewEngine(store)
	app := setupApp(store)
	id := seedConfirmed(t, store, engine)

	resp, _ := request(t, app, fiber.MethodPut,
		fmt.Sprintf("/api/accountant/reservations/%d/financial", id),
		fiber.Map{
			"price_per_unit":    120,
			"discount":          40,
			"payments":          100,
			"accountant_notes":  "half paid up front",
			"concrete_quantity": 3,
			"concrete_type":     "400",
		})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	saved, err := store.FindByID(id)
	require.NoError(t, err)
	require.True(t, saved.TotalCost.Decimal.Equal(decimal.NewFromInt(360)))
	require.True(t, saved.RemainingBalance.Decimal.Equal(decimal.NewFromInt(220)))
	require.Equal(t, reservationModel.Grade400, saved.ConcreteType)
}

func TestUpdateFinancialDetailsOverCapPayments(t *testing.T) {
	store := newStubStore()
	engine := reservationService.NewEngine(store)
	app := setupApp(store)
	id := seedConfirmed(t, store, engine)

	resp, parsed := request(t, app, fiber.MethodPut,
		fmt.Sprintf("/api/accountant/reservations/%d/financial", id),
		fiber.Map{
			"price_per_unit":    100,
			"discount":          50,
			"payments":          160,
			"concrete_quantity": 2,
			"concrete_type":     "300",
		})

	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "payments exceed discounted cost", parsed.Message)
}

func TestDashboardFiltersByFinancialStatus(t *testing.T) {
	store := newStubStore()
	engine := reservationService.NewEngine(store)
	app := setupApp(store)

	paidID := seedConfirmed(t, store, engine)
	paid, err := store.FindByID(paidID)
	require.NoError(t, err)
	require.NoError(t, engine.RecordPayment(paid, decimal.NewFromInt(200)))

	seedConfirmed(t, store, engine) // remaining balance of 200

	resp, parsed := request(t, app, fiber.MethodGet,
		"/api/accountant/dashboard?financial_status=paid", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, ok := parsed.Data.(map[string]interface{})
	require.True(t, ok)
	reservations, ok := data["reservations"].([]interface{})
	require.True(t, ok)
	require.Len(t, reservations, 1)

	resp, _ = request(t, app, fiber.MethodGet,
		"/api/accountant/dashboard?financial_status=bogus", nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
