package reservation

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"concrete-reservation/logger"
	reservationModel "concrete-reservation/models/reservation"
)

// Engine owns the reservation lifecycle rules: derived-field
// recomputation, status transitions and the payment-recording
// transaction. All three mutating operations funnel through the same
// recompute routine, so the stored derived fields can never drift from
// the formulas the reporting helpers use.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewEngineWithClock pins the clock, for tests.
func NewEngineWithClock(store Store, clock func() time.Time) *Engine {
	return &Engine{store: store, now: clock}
}

func (e *Engine) today() time.Time {
	return now.With(e.now()).BeginningOfDay()
}

// Normalize applies the lifecycle rules to the record in memory without
// persisting it: flag exclusivity, reservation-date default and the
// derived-field recomputation. Independent of any storage technology.
func (e *Engine) Normalize(r *reservationModel.Reservation) error {
	if r.IsApproved && r.IsRejected {
		return ErrInvalidState
	}

	if r.ReservationDate == nil {
		today := e.today()
		r.ReservationDate = &today
	}

	e.recompute(r)
	return nil
}

// NormalizeAndSave runs before every persist: generates the reservation
// number if missing, normalizes the record and writes it as one unit.
func (e *Engine) NormalizeAndSave(r *reservationModel.Reservation) error {
	if r.ReservationNumber == "" {
		number, err := e.generateNumber()
		if err != nil {
			return err
		}
		r.ReservationNumber = number
	}

	if err := e.Normalize(r); err != nil {
		return err
	}

	return e.store.Save(r)
}

// RecordPayment adds amount to the running payment sum, recomputes the
// balance and auto-completes the reservation once nothing is owed. The
// record is left untouched when validation fails.
func (e *Engine) RecordPayment(r *reservationModel.Reservation, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{Reason: "payment amount must not be negative"}
	}

	remaining := decimal.Zero
	if r.RemainingBalance.Valid {
		remaining = r.RemainingBalance.Decimal
	}
	if amount.GreaterThan(remaining) {
		return &ValidationError{Reason: "payment exceeds remaining balance"}
	}

	r.Payments = r.Payments.Add(amount)
	e.recompute(r)

	if r.RemainingBalance.Valid && !r.RemainingBalance.Decimal.IsPositive() && !r.IsCompleted {
		r.IsCompleted = true
		e.recompute(r)
	}

	return e.store.Save(r)
}

// FinancialDetails carries the accountant's finalized pricing for a
// confirmed reservation.
type FinancialDetails struct {
	PricePerUnit     decimal.Decimal
	Discount         decimal.Decimal
	Payments         decimal.Decimal
	AccountantNotes  *string
	ConcreteQuantity decimal.Decimal
	ConcreteType     reservationModel.ConcreteGrade
	IsCompleted      bool
	CompletionDate   *time.Time
}

// ApplyFinancialDetails sets the finalized pricing and quantities and
// reruns the recomputation. Rejects payment sums above the discounted
// cost before touching the record.
func (e *Engine) ApplyFinancialDetails(r *reservationModel.Reservation, details FinancialDetails) error {
	if !details.PricePerUnit.IsZero() && !details.ConcreteQuantity.IsZero() {
		discounted := details.PricePerUnit.Mul(details.ConcreteQuantity).Sub(details.Discount)
		if details.Payments.GreaterThan(discounted) {
			return &ValidationError{Reason: "payments exceed discounted cost"}
		}
	}

	r.PricePerUnit = decimal.NullDecimal{Decimal: details.PricePerUnit, Valid: !details.PricePerUnit.IsZero()}
	r.Discount = details.Discount
	r.Payments = details.Payments
	r.AccountantNotes = details.AccountantNotes
	r.ConcreteQuantity = details.ConcreteQuantity
	r.ConcreteType = details.ConcreteType
	r.IsCompleted = details.IsCompleted
	r.CompletionDate = details.CompletionDate

	if err := e.Normalize(r); err != nil {
		return err
	}

	return e.store.Save(r)
}

// recompute derives total cost, remaining balance, completion date and
// status from the current field values. The single source of the
// derivation rules.
func (e *Engine) recompute(r *reservationModel.Reservation) {
	if r.PricePerUnit.Valid && !r.PricePerUnit.Decimal.IsZero() && !r.ConcreteQuantity.IsZero() {
		r.TotalCost = decimal.NullDecimal{Decimal: TotalCost(r), Valid: true}
	}

	if r.TotalCost.Valid {
		r.RemainingBalance = decimal.NullDecimal{
			Decimal: remainingFrom(r.TotalCost.Decimal, r.Discount, r.Payments),
			Valid:   true,
		}
	}

	if r.IsCompleted && r.CompletionDate == nil {
		today := e.today()
		r.CompletionDate = &today
	}
	if !r.IsCompleted {
		r.CompletionDate = nil
	}

	switch {
	case r.IsApproved && !r.IsRejected && !r.IsConfirmed && !r.IsCompleted:
		r.Status = reservationModel.StatusApproved
	case r.IsCompleted:
		r.Status = reservationModel.StatusCompleted
	case r.IsRejected:
		r.Status = reservationModel.StatusRejected
	default:
		r.Status = reservationModel.StatusPending
	}
}

// CheckConsistency compares the stored derived fields against a fresh
// recomputation and logs a warning on divergence. Records mutated
// outside the engine are surfaced here instead of silently trusted.
func (e *Engine) CheckConsistency(r *reservationModel.Reservation) {
	if r.TotalCost.Valid && !r.TotalCost.Decimal.Equal(TotalCost(r)) {
		logger.Warning(fmt.Sprintf(
			"reservation %s: stored total cost %s diverges from recomputed %s",
			r.ReservationNumber, r.TotalCost.Decimal, TotalCost(r)))
	}
	if r.RemainingBalance.Valid && !r.RemainingBalance.Decimal.Equal(RemainingBalance(r)) {
		logger.Warning(fmt.Sprintf(
			"reservation %s: stored remaining balance %s diverges from recomputed %s",
			r.ReservationNumber, r.RemainingBalance.Decimal, RemainingBalance(r)))
	}
}
