package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Eursukkul/train-reservation/internal/models"
)

var ErrPersistence = errors.New("persist ledger")

// LedgerStore is the durable side of the ledger. SaveAll always rewrites
// the whole collection.
type LedgerStore interface {
	Load(ctx context.Context) ([]models.Booking, models.LoadReport, error)
	SaveAll(ctx context.Context, bookings []models.Booking) error
}

type BookingLedger interface {
	Load(ctx context.Context) (models.LoadReport, error)
	SaveAll(ctx context.Context) error
	Append(booking models.Booking)
	Remove(pnr string) (models.Booking, int, bool)
	InsertAt(index int, booking models.Booking)
	RemoveAt(index int)
	FindAll() []models.Booking
	FindByPNR(pnr string) []models.Booking
	HasPNR(pnr string) bool
	CountByTrainAndClass(trainNo, classType string) int
	SeatsTaken(trainNo, classType string) map[int]bool
	Len() int
}

type slotKey struct {
	trainNo   string
	classType string
}

type bookingLedger struct {
	mu       sync.RWMutex
	store    LedgerStore
	bookings []models.Booking
	counts   map[slotKey]int
	pnrs     map[string]int
}

func NewBookingLedger(store LedgerStore) BookingLedger {
	return &bookingLedger{
		store:  store,
		counts: make(map[slotKey]int),
		pnrs:   make(map[string]int),
	}
}

// Load replaces the in-memory bookings with the stored ones. A failed load
// leaves the current bookings in place.
func (l *bookingLedger) Load(ctx context.Context) (models.LoadReport, error) {
	bookings, report, err := l.store.Load(ctx)
	if err != nil {
		return report, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = bookings
	l.counts = make(map[slotKey]int)
	l.pnrs = make(map[string]int)
	for _, b := range bookings {
		if l.pnrs[b.PNR] > 0 {
			report.Duplicates++
		}
		l.index(b, 1)
	}
	return report, nil
}

func (l *bookingLedger) SaveAll(ctx context.Context) error {
	l.mu.RLock()
	snapshot := slices.Clone(l.bookings)
	l.mu.RUnlock()

	if err := l.store.SaveAll(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (l *bookingLedger) Append(booking models.Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = append(l.bookings, booking)
	l.index(booking, 1)
}

// Remove deletes the first booking with the given PNR and reports its
// former position.
func (l *bookingLedger) Remove(pnr string) (models.Booking, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.bookings, func(b models.Booking) bool { return b.PNR == pnr })
	if i < 0 {
		return models.Booking{}, -1, false
	}
	removed := l.bookings[i]
	l.bookings = slices.Delete(l.bookings, i, i+1)
	l.index(removed, -1)
	return removed, i, true
}

func (l *bookingLedger) InsertAt(index int, booking models.Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	index = min(max(index, 0), len(l.bookings))
	l.bookings = slices.Insert(l.bookings, index, booking)
	l.index(booking, 1)
}

func (l *bookingLedger) RemoveAt(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.bookings) {
		return
	}
	removed := l.bookings[index]
	l.bookings = slices.Delete(l.bookings, index, index+1)
	l.index(removed, -1)
}

func (l *bookingLedger) FindAll() []models.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.bookings)
}

func (l *bookingLedger) FindByPNR(pnr string) []models.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := []models.Booking{}
	for _, b := range l.bookings {
		if b.PNR == pnr {
			result = append(result, b)
		}
	}
	return result
}

func (l *bookingLedger) HasPNR(pnr string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pnrs[pnr] > 0
}

func (l *bookingLedger) CountByTrainAndClass(trainNo, classType string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[slotKey{trainNo, classType}]
}

func (l *bookingLedger) SeatsTaken(trainNo, classType string) map[int]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	taken := make(map[int]bool)
	for _, b := range l.bookings {
		if b.TrainNo == trainNo && b.ClassType == classType {
			taken[b.SeatNo] = true
		}
	}
	return taken
}

func (l *bookingLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}

// index must be called with mu held.
func (l *bookingLedger) index(b models.Booking, delta int) {
	key := slotKey{b.TrainNo, b.ClassType}
	l.counts[key] += delta
	if l.counts[key] <= 0 {
		delete(l.counts, key)
	}
	l.pnrs[b.PNR] += delta
	if l.pnrs[b.PNR] <= 0 {
		delete(l.pnrs, b.PNR)
	}
}
