package reservation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
)

// MockStore implements reservationService.Store in memory.
type MockStore struct {
	records      map[uint]reservationModel.Reservation
	nextID       uint
	saveErr      error
	saveCalls    int
	existsAlways bool
}

func NewMockStore() *MockStore {
	return &MockStore{records: make(map[uint]reservationModel.Reservation), nextID: 1}
}

func (m *MockStore) FindByID(id uint) (*reservationModel.Reservation, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, reservationService.ErrNotFound
	}
	copied := r
	return &copied, nil
}

func (m *MockStore) FindByNumber(number string) (*reservationModel.Reservation, error) {
	for _, r := range m.records {
		if r.ReservationNumber == number {
			copied := r
			return &copied, nil
		}
	}
	return nil, reservationService.ErrNotFound
}

func (m *MockStore) ExistsByNumber(number string) (bool, error) {
	if m.existsAlways {
		return true, nil
	}
	_, err := m.FindByNumber(number)
	if errors.Is(err, reservationService.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *MockStore) Save(r *reservationModel.Reservation) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if r.ID == 0 {
		r.ID = m.nextID
		m.nextID++
		r.Version = 1
	} else {
		r.Version++
	}
	m.records[r.ID] = *r
	return nil
}

func (m *MockStore) Filter(f reservationService.Filter) ([]reservationModel.Reservation, error) {
	var out []reservationModel.Reservation
	for _, r := range m.records {
		if f.PhoneNumber != "" && r.PhoneNumber != f.PhoneNumber {
			continue
		}
		if f.ConfirmedOnly && !r.IsConfirmed {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

var testDay = time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)

func newTestEngine(store *MockStore) *reservationService.Engine {
	return reservationService.NewEngineWithClock(store, func() time.Time { return testDay })
}

func newSubmission() *reservationModel.Reservation {
	return &reservationModel.Reservation{
		CustomerName:      "Abu Khalid",
		CarpenterName:     "Sami",
		ConcreteType:      reservationModel.Grade300,
		ConcreteQuantity:  decimal.NewFromInt(2),
		SiteLocation:      "North district, block 7",
		EstimatedDistance: decimal.NewFromInt(12),
		PhoneNumber:       "+963991234567",
	}
}

func TestNormalizeAndSaveNewSubmission(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	require.NoError(t, engine.NormalizeAndSave(r))

	require.Len(t, r.ReservationNumber, 6)
	require.NotEqual(t, byte('0'), r.ReservationNumber[0])
	require.NotNil(t, r.ReservationDate)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), r.ReservationDate.UTC())
	require.Equal(t, reservationModel.StatusPending, r.Status)
	require.False(t, r.TotalCost.Valid)
	require.False(t, r.RemainingBalance.Valid)
	require.Equal(t, 1, store.saveCalls)
}

func TestNormalizeAndSaveKeepsExistingNumberAndDate(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	require.NoError(t, engine.NormalizeAndSave(r))
	number := r.ReservationNumber
	date := *r.ReservationDate

	r.CustomerName = "Renamed"
	require.NoError(t, engine.NormalizeAndSave(r))
	require.Equal(t, number, r.ReservationNumber)
	require.Equal(t, date, *r.ReservationDate)
}

func TestNormalizeRejectsApprovedAndRejected(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	r.IsApproved = true
	r.IsRejected = true

	err := engine.NormalizeAndSave(r)
	require.ErrorIs(t, err, reservationService.ErrInvalidState)
	require.Zero(t, store.saveCalls)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	r := newSubmission()
	r.ReservationNumber = "123456"
	r.IsApproved = true
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))

	require.NoError(t, engine.Normalize(r))
	first := *r
	require.NoError(t, engine.Normalize(r))
	require.Equal(t, first, *r)
}

func TestRecomputeDerivedFields(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	r := newSubmission()
	r.ReservationNumber = "123456"
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	r.ConcreteQuantity = decimal.NewFromInt(2)

	require.NoError(t, engine.Normalize(r))
	require.True(t, r.TotalCost.Valid)
	require.True(t, r.TotalCost.Decimal.Equal(decimal.NewFromInt(200)))
	require.True(t, r.RemainingBalance.Valid)
	require.True(t, r.RemainingBalance.Decimal.Equal(decimal.NewFromInt(200)))
}

func TestNormalizeLeavesTotalCostAloneWithoutPrice(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	r := newSubmission()
	r.ReservationNumber = "123456"
	r.TotalCost = decimal.NewNullDecimal(decimal.NewFromInt(500))
	r.Payments = decimal.NewFromInt(100)

	require.NoError(t, engine.Normalize(r))
	// No price means step 4 is skipped, but the balance still follows
	// the stored total.
	require.True(t, r.TotalCost.Decimal.Equal(decimal.NewFromInt(500)))
	require.True(t, r.RemainingBalance.Decimal.Equal(decimal.NewFromInt(400)))
}

func TestStatusRuleTable(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	cases := []struct {
		name                                             string
		approved, rejected, confirmed, completed         bool
		want                                             reservationModel.Status
	}{
		{"fresh submission", false, false, false, false, reservationModel.StatusPending},
		{"approved", true, false, false, false, reservationModel.StatusApproved},
		{"approved and confirmed", true, false, true, false, reservationModel.StatusPending},
		{"rejected", false, true, false, false, reservationModel.StatusRejected},
		{"completed", true, false, true, true, reservationModel.StatusCompleted},
		{"completed wins over rejected", false, true, false, true, reservationModel.StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSubmission()
			r.ReservationNumber = "123456"
			r.IsApproved = tc.approved
			r.IsRejected = tc.rejected
			r.IsConfirmed = tc.confirmed
			r.IsCompleted = tc.completed

			require.NoError(t, engine.Normalize(r))
			require.Equal(t, tc.want, r.Status)
		})
	}
}

func TestCompletionDateSetOnceAndCleared(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	r := newSubmission()
	r.ReservationNumber = "123456"
	r.IsCompleted = true

	require.NoError(t, engine.Normalize(r))
	require.NotNil(t, r.CompletionDate)
	firstDate := *r.CompletionDate

	// Already set, a later normalize must not move it.
	require.NoError(t, engine.Normalize(r))
	require.Equal(t, firstDate, *r.CompletionDate)

	r.IsCompleted = false
	require.NoError(t, engine.Normalize(r))
	require.Nil(t, r.CompletionDate)
}

func TestRecordPaymentCompletesReservation(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	r.IsApproved = true
	r.IsConfirmed = true
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	r.ConcreteQuantity = decimal.NewFromInt(2)
	require.NoError(t, engine.NormalizeAndSave(r))
	require.True(t, r.RemainingBalance.Decimal.Equal(decimal.NewFromInt(200)))

	require.NoError(t, engine.RecordPayment(r, decimal.NewFromInt(200)))

	require.True(t, r.Payments.Equal(decimal.NewFromInt(200)))
	require.True(t, r.RemainingBalance.Decimal.IsZero())
	require.True(t, r.IsCompleted)
	require.NotNil(t, r.CompletionDate)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), r.CompletionDate.UTC())
	require.Equal(t, reservationModel.StatusCompleted, r.Status)
}

func TestRecordPaymentPartialKeepsStatus(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	r.IsApproved = true
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	require.NoError(t, engine.NormalizeAndSave(r))

	require.NoError(t, engine.RecordPayment(r, decimal.NewFromInt(50)))
	require.True(t, r.Payments.Equal(decimal.NewFromInt(50)))
	require.True(t, r.RemainingBalance.Decimal.Equal(decimal.NewFromInt(150)))
	require.False(t, r.IsCompleted)
	require.Equal(t, reservationModel.StatusApproved, r.Status)
}

func TestRecordPaymentExceedingBalanceLeavesRecordUntouched(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	require.NoError(t, engine.NormalizeAndSave(r))
	before := *r
	saves := store.saveCalls

	err := engine.RecordPayment(r, decimal.NewFromInt(300))
	require.Error(t, err)
	require.True(t, reservationService.IsValidation(err))
	require.EqualError(t, err, "payment exceeds remaining balance")
	require.Equal(t, before, *r)
	require.Equal(t, saves, store.saveCalls)
}

func TestRecordPaymentNegativeRejected(t *testing.T) {
	engine := newTestEngine(NewMockStore())

	r := newSubmission()
	err := engine.RecordPayment(r, decimal.NewFromInt(-1))
	require.True(t, reservationService.IsValidation(err))
}

func TestRecordPaymentWithoutPricingRejected(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	// No pricing yet, so the remaining balance is treated as zero.
	r := newSubmission()
	require.NoError(t, engine.NormalizeAndSave(r))

	err := engine.RecordPayment(r, decimal.NewFromInt(10))
	require.True(t, reservationService.IsValidation(err))
}

func TestApplyFinancialDetailsRecomputes(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	r.IsApproved = true
	r.IsConfirmed = true
	require.NoError(t, engine.NormalizeAndSave(r))

	notes := "half paid up front"
	require.NoError(t, engine.ApplyFinancialDetails(r, reservationService.FinancialDetails{
		PricePerUnit:     decimal.NewFromInt(120),
		Discount:         decimal.NewFromInt(40),
		Payments:         decimal.NewFromInt(100),
		AccountantNotes:  &notes,
		ConcreteQuantity: decimal.NewFromInt(3),
		ConcreteType:     reservationModel.Grade400,
	}))

	require.True(t, r.TotalCost.Decimal.Equal(decimal.NewFromInt(360)))
	require.True(t, r.RemainingBalance.Decimal.Equal(decimal.NewFromInt(220)))
	require.Equal(t, reservationModel.Grade400, r.ConcreteType)
	require.Equal(t, &notes, r.AccountantNotes)
}

func TestApplyFinancialDetailsOverCapPaymentsRejected(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	require.NoError(t, engine.NormalizeAndSave(r))
	before := *r

	err := engine.ApplyFinancialDetails(r, reservationService.FinancialDetails{
		PricePerUnit:     decimal.NewFromInt(100),
		Discount:         decimal.NewFromInt(50),
		Payments:         decimal.NewFromInt(160),
		ConcreteQuantity: decimal.NewFromInt(2),
		ConcreteType:     reservationModel.Grade300,
	})
	require.True(t, reservationService.IsValidation(err))
	require.EqualError(t, err, "payments exceed discounted cost")
	require.Equal(t, before, *r)
}

func TestNormalizeAndSavePropagatesConflict(t *testing.T) {
	store := NewMockStore()
	engine := newTestEngine(store)

	r := newSubmission()
	require.NoError(t, engine.NormalizeAndSave(r))

	store.saveErr = reservationService.ErrConflict
	err := engine.NormalizeAndSave(r)
	require.ErrorIs(t, err, reservationService.ErrConflict)
}

func TestPureHelpers(t *testing.T) {
	r := newSubmission()
	r.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	r.ConcreteQuantity = decimal.NewFromInt(2)
	r.Discount = decimal.NewFromInt(30)
	r.Payments = decimal.NewFromInt(50)

	require.True(t, reservationService.TotalCost(r).Equal(decimal.NewFromInt(200)))
	require.True(t, reservationService.RemainingBalance(r).Equal(decimal.NewFromInt(120)))

	// Unset price counts as zero.
	r.PricePerUnit = decimal.NullDecimal{}
	require.True(t, reservationService.TotalCost(r).IsZero())
}

func TestComputeTotals(t *testing.T) {
	a := *newSubmission()
	a.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(100))
	a.ConcreteQuantity = decimal.NewFromInt(2)
	a.Payments = decimal.NewFromInt(50)

	b := *newSubmission()
	b.PricePerUnit = decimal.NewNullDecimal(decimal.NewFromInt(80))
	b.ConcreteQuantity = decimal.NewFromInt(1)
	b.Discount = decimal.NewFromInt(10)

	totals := reservationService.ComputeTotals([]reservationModel.Reservation{a, b})
	require.True(t, totals.GrossTotal.Equal(decimal.NewFromInt(280)))
	require.True(t, totals.DiscountTotal.Equal(decimal.NewFromInt(10)))
	require.True(t, totals.PaymentsTotal.Equal(decimal.NewFromInt(50)))
	require.True(t, totals.RemainingTotal.Equal(decimal.NewFromInt(220)))
}
