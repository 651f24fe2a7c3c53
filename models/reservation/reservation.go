package reservation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation represents one customer's request for a concrete pour,
// including logistics and financial tracking. The derived fields
// (TotalCost, RemainingBalance, CompletionDate, Status) are recomputed
// by the lifecycle engine on every save and must not be written directly.
type Reservation struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Six digits, never starting with 0. Generated on first save and
	// immutable afterwards.
	ReservationNumber string `gorm:"type:varchar(6);unique" json:"reservation_number"`

	CustomerName      string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	CarpenterName     string          `gorm:"type:varchar(100);not null" json:"carpenter_name"`
	ConcreteType      ConcreteGrade   `gorm:"type:varchar(10);not null" json:"concrete_type"`
	ConcreteQuantity  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"concrete_quantity"`
	SiteLocation      string          `gorm:"type:varchar(255);not null" json:"site_location"`
	EstimatedDistance decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"estimated_distance"`
	AdditionalNotes   *string         `gorm:"type:text" json:"additional_notes,omitempty"`
	PhoneNumber       string          `gorm:"type:varchar(15);not null;index" json:"phone_number"`

	IsApproved  bool `gorm:"default:false" json:"is_approved"`
	IsRejected  bool `gorm:"default:false" json:"is_rejected"`
	IsConfirmed bool `gorm:"default:false" json:"is_confirmed"`
	IsCompleted bool `gorm:"default:false" json:"is_completed"`

	ReservationDate *time.Time `gorm:"type:date" json:"reservation_date,omitempty"`
	ApprovalDate    *time.Time `gorm:"type:date" json:"approval_date,omitempty"`
	ApprovalMessage *string    `gorm:"type:text" json:"approval_message,omitempty"`

	PricePerUnit     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price_per_unit"`
	Discount         decimal.Decimal     `gorm:"type:numeric(10,2);default:0" json:"discount"`
	TotalCost        decimal.NullDecimal `gorm:"type:numeric(15,2)" json:"total_cost"`
	AccountantNotes  *string             `gorm:"type:text" json:"accountant_notes,omitempty"`
	Payments         decimal.Decimal     `gorm:"type:numeric(15,2);default:0;not null" json:"payments"`
	RemainingBalance decimal.NullDecimal `gorm:"type:numeric(15,2)" json:"remaining_balance"`

	CompletionDate *time.Time `gorm:"type:date" json:"completion_date,omitempty"`

	Status Status `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	// Optimistic concurrency counter, bumped by the store on every
	// successful save. Two accountants racing on the same record lose
	// cleanly instead of silently dropping a payment.
	Version int64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reservation) String() string {
	return fmt.Sprintf("%s - %s", r.CustomerName, r.ReservationNumber)
}
