package storage

import (
	"errors"

	"gorm.io/gorm"

	reservationModel "concrete-reservation/models/reservation"
	reservationService "concrete-reservation/services/reservation"
)

// ReservationStore is the gorm/postgres implementation of the engine's
// storage collaborator.
type ReservationStore struct {
	db *gorm.DB
}

func NewReservationStore(db *gorm.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

var _ reservationService.Store = (*ReservationStore)(nil)

func (s *ReservationStore) FindByID(id uint) (*reservationModel.Reservation, error) {
	var r reservationModel.Reservation
	if err := s.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservationService.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *ReservationStore) FindByNumber(number string) (*reservationModel.Reservation, error) {
	var r reservationModel.Reservation
	if err := s.db.Where("reservation_number = ?", number).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservationService.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *ReservationStore) ExistsByNumber(number string) (bool, error) {
	var count int64
	err := s.db.Model(&reservationModel.Reservation{}).
		Where("reservation_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the record as one unit. Updates carry an optimistic
// version check: a concurrent writer bumps the version first and this
// save fails with ErrConflict instead of silently losing a payment.
func (s *ReservationStore) Save(r *reservationModel.Reservation) error {
	if r.ID == 0 {
		r.Version = 1
		return s.db.Create(r).Error
	}

	previous := r.Version
	r.Version = previous + 1

	result := s.db.Model(&reservationModel.Reservation{}).
		Where("id = ? AND version = ?", r.ID, previous).
		Select("*").
		Omit("id", "created_at").
		Updates(r)
	if result.Error != nil {
		r.Version = previous
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.Version = previous
		return reservationService.ErrConflict
	}
	return nil
}

func (s *ReservationStore) Filter(f reservationService.Filter) ([]reservationModel.Reservation, error) {
	query := s.db.Model(&reservationModel.Reservation{})

	// The flag combinations mirror the status rule table rather than the
	// stored status column, so stale rows still land in the right bucket.
	switch f.Status {
	case reservationModel.StatusPending:
		query = query.Where("is_approved = ? AND is_rejected = ? AND is_confirmed = ?", false, false, false)
	case reservationModel.StatusApproved:
		query = query.Where("is_approved = ? AND is_confirmed = ?", true, false)
	case reservationModel.StatusRejected:
		query = query.Where("is_rejected = ?", true)
	case reservationModel.StatusCompleted:
		query = query.Where("is_completed = ?", true)
	}

	if f.ReservationDate != nil {
		query = query.Where("reservation_date = ?", f.ReservationDate.Format("2006-01-02"))
	}
	if f.PhoneNumber != "" {
		query = query.Where("phone_number = ?", f.PhoneNumber)
	}
	if f.ConfirmedOnly {
		query = query.Where("is_confirmed = ?", true)
	}

	switch f.FinancialStatus {
	case reservationService.FinancialRemaining:
		query = query.Where("remaining_balance > 0")
	case reservationService.FinancialPaid:
		query = query.Where("remaining_balance = 0")
	case reservationService.FinancialPending:
		query = query.Where("remaining_balance < 0")
	}

	var reservations []reservationModel.Reservation
	if err := query.Order("id").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
