package repository

import (
	"context"
	"fmt"

	"github.com/Eursukkul/train-reservation/internal/models"
	"gorm.io/gorm"
)

type postgresLedgerStore struct {
	db *gorm.DB
}

// NewPostgresLedgerStore mirrors the ledger into the bookings table with the
// same full-rewrite semantics as the csv store.
func NewPostgresLedgerStore(db *gorm.DB) LedgerStore {
	return &postgresLedgerStore{db: db}
}

func (s *postgresLedgerStore) Load(ctx context.Context) ([]models.Booking, models.LoadReport, error) {
	var report models.LoadReport
	var records []models.BookingRecord
	if err := s.db.WithContext(ctx).Order("position ASC, id ASC").Find(&records).Error; err != nil {
		return nil, report, fmt.Errorf("%w: query bookings: %v", ErrIOUnavailable, err)
	}

	bookings := make([]models.Booking, len(records))
	for i, r := range records {
		bookings[i] = r.ToBooking()
	}
	report.Rows = len(bookings)
	return bookings, report, nil
}

func (s *postgresLedgerStore) SaveAll(ctx context.Context, bookings []models.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM bookings").Error; err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		if len(bookings) == 0 {
			return nil
		}

		records := make([]models.BookingRecord, len(bookings))
		for i, b := range bookings {
			records[i] = models.ToBookingRecord(b, i)
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert bookings: %w", err)
		}
		return nil
	})
}
