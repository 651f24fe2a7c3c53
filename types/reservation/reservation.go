package reservation

import (
	"fmt"

	"github.com/shopspring/decimal"

	reservationModel "concrete-reservation/models/reservation"
)

// CreateRequest is the customer-facing submission payload.
type CreateRequest struct {
	CustomerName      string          `json:"customer_name" validate:"required,min=1,max=100"`
	CarpenterName     string          `json:"carpenter_name" validate:"required,min=1,max=100"`
	ConcreteType      string          `json:"concrete_type" validate:"required"`
	ConcreteQuantity  decimal.Decimal `json:"concrete_quantity"`
	SiteLocation      string          `json:"site_location" validate:"required,min=1,max=255"`
	EstimatedDistance decimal.Decimal `json:"estimated_distance"`
	AdditionalNotes   string          `json:"additional_notes" validate:"omitempty"`
	PhoneNumber       string          `json:"phone_number" validate:"required,phone"`
}

func (r CreateRequest) Validate() error {
	if !reservationModel.ConcreteGrade(r.ConcreteType).IsValid() {
		return fmt.Errorf("concrete_type must be one of the fixed grade codes")
	}
	if r.ConcreteQuantity.IsNegative() {
		return fmt.Errorf("concrete_quantity must not be negative")
	}
	if r.EstimatedDistance.IsNegative() {
		return fmt.Errorf("estimated_distance must not be negative")
	}
	return nil
}

// LookupRequest asks for reservations by phone number, or one
// reservation by its number. Exactly one of the two must be supplied.
type LookupRequest struct {
	PhoneNumber       string `json:"phone_number" validate:"omitempty,phone"`
	ReservationNumber string `json:"reservation_number" validate:"omitempty,len=6,numeric"`
}

func (r LookupRequest) Validate() error {
	if r.PhoneNumber == "" && r.ReservationNumber == "" {
		return fmt.Errorf("phone_number or reservation_number is required")
	}
	return nil
}

// ApproveRequest carries the staff approval details.
type ApproveRequest struct {
	ApprovalDate    string `json:"approval_date" validate:"omitempty"`
	ApprovalMessage string `json:"approval_message" validate:"omitempty"`
}

// ConfirmRequest finalizes quantity and grade after approval.
type ConfirmRequest struct {
	ConcreteQuantity decimal.Decimal `json:"concrete_quantity"`
	ConcreteType     string          `json:"concrete_type" validate:"required"`
	IsCompleted      bool            `json:"is_completed"`
}

func (r ConfirmRequest) Validate() error {
	if !reservationModel.ConcreteGrade(r.ConcreteType).IsValid() {
		return fmt.Errorf("concrete_type must be one of the fixed grade codes")
	}
	if r.ConcreteQuantity.IsNegative() {
		return fmt.Errorf("concrete_quantity must not be negative")
	}
	return nil
}

// FinancialDetailsRequest is the accountant's pricing update.
type FinancialDetailsRequest struct {
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	Discount         decimal.Decimal `json:"discount"`
	Payments         decimal.Decimal `json:"payments"`
	AccountantNotes  string          `json:"accountant_notes" validate:"omitempty"`
	ConcreteQuantity decimal.Decimal `json:"concrete_quantity"`
	ConcreteType     string          `json:"concrete_type" validate:"required"`
	IsCompleted      bool            `json:"is_completed"`
	CompletionDate   string          `json:"completion_date" validate:"omitempty"`
}

func (r FinancialDetailsRequest) Validate() error {
	if !reservationModel.ConcreteGrade(r.ConcreteType).IsValid() {
		return fmt.Errorf("concrete_type must be one of the fixed grade codes")
	}
	if r.PricePerUnit.IsNegative() || r.Discount.IsNegative() || r.Payments.IsNegative() {
		return fmt.Errorf("financial amounts must not be negative")
	}
	if r.ConcreteQuantity.IsNegative() {
		return fmt.Errorf("concrete_quantity must not be negative")
	}
	return nil
}

// PaymentRequest records a single payment against a reservation.
type PaymentRequest struct {
	PaymentAmount decimal.Decimal `json:"payment_amount"`
}

func (r PaymentRequest) Validate() error {
	if r.PaymentAmount.IsNegative() {
		return fmt.Errorf("payment_amount must not be negative")
	}
	return nil
}
