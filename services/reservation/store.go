package reservation

import (
	"time"

	reservationModel "concrete-reservation/models/reservation"
)

// FinancialStatus narrows a dashboard listing by the sign of the stored
// remaining balance.
type FinancialStatus string

const (
	FinancialAny       FinancialStatus = ""
	FinancialRemaining FinancialStatus = "remaining" // balance still owed
	FinancialPaid      FinancialStatus = "paid"      // balance exactly settled
	FinancialPending   FinancialStatus = "pending"   // overpaid, balance below zero
)

// Filter selects reservations for the staff listings. Zero values mean
// "no constraint".
type Filter struct {
	Status          reservationModel.Status
	ReservationDate *time.Time
	PhoneNumber     string
	ConfirmedOnly   bool
	FinancialStatus FinancialStatus
}

// Store is the storage collaborator for the lifecycle engine. Save must
// be an atomic single-record upsert: no partial writes become visible
// to readers, and a concurrent update to the same record fails with
// ErrConflict.
type Store interface {
	FindByID(id uint) (*reservationModel.Reservation, error)
	FindByNumber(number string) (*reservationModel.Reservation, error)
	ExistsByNumber(number string) (bool, error)
	Save(r *reservationModel.Reservation) error
	Filter(f Filter) ([]reservationModel.Reservation, error)
}
