package reservation

import (
	"github.com/shopspring/decimal"

	reservationModel "concrete-reservation/models/reservation"
)

// TotalCost is the pure reporting helper: price per unit times
// quantity, treating unset price as zero. No side effects.
func TotalCost(r *reservationModel.Reservation) decimal.Decimal {
	price := decimal.Zero
	if r.PricePerUnit.Valid {
		price = r.PricePerUnit.Decimal
	}
	return price.Mul(r.ConcreteQuantity)
}

// RemainingBalance is the pure reporting helper: total cost minus
// discount minus payments received so far.
func RemainingBalance(r *reservationModel.Reservation) decimal.Decimal {
	return remainingFrom(TotalCost(r), r.Discount, r.Payments)
}

// remainingFrom is the one place the balance formula lives; both the
// persisted recomputation and the ad-hoc reporting helpers go through
// it.
func remainingFrom(total, discount, payments decimal.Decimal) decimal.Decimal {
	return total.Sub(discount).Sub(payments)
}

// Totals aggregates the financial columns over a reservation listing
// for the customer and accountant views.
type Totals struct {
	GrossTotal     decimal.Decimal `json:"gross_total"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
	PaymentsTotal  decimal.Decimal `json:"payments_total"`
	RemainingTotal decimal.Decimal `json:"remaining_total"`
}

// ComputeTotals sums the pure helpers over a listing. Read-only.
func ComputeTotals(reservations []reservationModel.Reservation) Totals {
	totals := Totals{
		GrossTotal:     decimal.Zero,
		DiscountTotal:  decimal.Zero,
		PaymentsTotal:  decimal.Zero,
		RemainingTotal: decimal.Zero,
	}
	for i := range reservations {
		r := &reservations[i]
		totals.GrossTotal = totals.GrossTotal.Add(TotalCost(r))
		totals.DiscountTotal = totals.DiscountTotal.Add(r.Discount)
		totals.PaymentsTotal = totals.PaymentsTotal.Add(r.Payments)
		totals.RemainingTotal = totals.RemainingTotal.Add(RemainingBalance(r))
	}
	return totals
}
