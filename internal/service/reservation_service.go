package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/train-reservation/internal/models"
	"github.com/Eursukkul/train-reservation/internal/repository"
)

var (
	ErrTrainNotFound    = errors.New("train not found")
	ErrClassNotOffered  = errors.New("class is not offered on this train")
	ErrUnknownClass     = errors.New("class has no fare or capacity entry")
	ErrCapacityExceeded = errors.New("no seats available in this class")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidPassenger = errors.New("passenger name must be a non-empty single line")
	ErrPNRExhausted     = errors.New("could not allocate a unique PNR")
	ErrPersistence      = repository.ErrPersistence
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type ReservationService interface {
	Trains() []models.Train
	FindTrain(trainNo string) (*models.Train, error)
	SearchByRoute(from, to string) []models.Train
	SearchByName(name string) []models.Train
	ReloadCatalog(ctx context.Context) (models.LoadReport, error)
	LoadBookings(ctx context.Context) (models.LoadReport, error)

	BookedCount(trainNo, classCode string) int
	AvailableSeats(trainNo, classCode string) (int, error)
	NextSeatNumber(trainNo, classCode string) int
	Availability(trainNo string) (*models.TrainAvailability, error)
	GeneratePNR() (string, error)

	CreateBooking(ctx context.Context, passengerName string, age int, trainNo, classCode string) (*models.Booking, error)
	CancelBooking(ctx context.Context, pnr string) (*models.Booking, error)
	FindBookingsByPNR(pnr string) []models.Booking
}

type Option func(*reservationService)

// WithPublisher sends booking events after each successful create or cancel.
func WithPublisher(p EventPublisher) Option {
	return func(s *reservationService) { s.publisher = p }
}

func WithRand(r *rand.Rand) Option {
	return func(s *reservationService) { s.rng = r }
}

func WithCatalogPath(path string) Option {
	return func(s *reservationService) { s.catalogPath = path }
}

type reservationService struct {
	// mu serializes availability check, seat allocation, append and persist.
	mu sync.Mutex

	trainRepo   repository.TrainRepository
	ledger      repository.BookingLedger
	fares       models.FareTable
	publisher   EventPublisher
	rng         *rand.Rand
	catalogPath string
	now         func() time.Time
}

func NewReservationService(trainRepo repository.TrainRepository, ledger repository.BookingLedger, fares models.FareTable, opts ...Option) ReservationService {
	s := &reservationService{
		trainRepo:   trainRepo,
		ledger:      ledger,
		fares:       fares,
		catalogPath: repository.DefaultCatalogFile,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRand()
	}
	return s
}

func (s *reservationService) Trains() []models.Train {
	return s.trainRepo.FindAll()
}

func (s *reservationService) FindTrain(trainNo string) (*models.Train, error) {
	train, err := s.trainRepo.FindByNumber(trainNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTrainNotFound, trainNo)
	}
	return train, err
}

func (s *reservationService) SearchByRoute(from, to string) []models.Train {
	return s.trainRepo.SearchByRoute(from, to)
}

func (s *reservationService) SearchByName(name string) []models.Train {
	return s.trainRepo.SearchByName(name)
}

func (s *reservationService) ReloadCatalog(ctx context.Context) (models.LoadReport, error) {
	return s.trainRepo.Load(ctx, s.catalogPath)
}

func (s *reservationService) LoadBookings(ctx context.Context) (models.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Load(ctx)
}

func (s *reservationService) BookedCount(trainNo, classCode string) int {
	return s.ledger.CountByTrainAndClass(trainNo, classCode)
}

// AvailableSeats may be negative after an overbooking; callers treat any
// non-positive value as sold out.
func (s *reservationService) AvailableSeats(trainNo, classCode string) (int, error) {
	entry, ok := s.fares.Lookup(classCode)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClass, classCode)
	}
	return entry.Capacity - s.BookedCount(trainNo, classCode), nil
}

// NextSeatNumber returns the lowest seat number not held by a booking of the
// same train and class. Without cancellations this is BookedCount + 1.
func (s *reservationService) NextSeatNumber(trainNo, classCode string) int {
	taken := s.ledger.SeatsTaken(trainNo, classCode)
	seat := 1
	for taken[seat] {
		seat++
	}
	return seat
}

func (s *reservationService) Availability(trainNo string) (*models.TrainAvailability, error) {
	train, err := s.FindTrain(trainNo)
	if err != nil {
		return nil, err
	}

	classes := make([]models.ClassAvailability, 0, len(train.Classes))
	for _, class := range train.Classes {
		booked := s.BookedCount(train.Number, class)
		entry, ok := s.fares.Lookup(class)
		classes = append(classes, models.ClassAvailability{
			Class:     class,
			Capacity:  entry.Capacity,
			Booked:    booked,
			Available: entry.Capacity - booked,
			Fare:      entry.Fare,
			Unknown:   !ok,
		})
	}
	return &models.TrainAvailability{
		TrainNo:   train.Number,
		TrainName: train.Name,
		Classes:   classes,
	}, nil
}

func (s *reservationService) GeneratePNR() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nextPNR(s.rng, s.ledger.HasPNR)
}

// CreateBooking trims the passenger name, train number and class code so the
// stored booking matches what a ledger reload produces.
func (s *reservationService) CreateBooking(ctx context.Context, passengerName string, age int, trainNo, classCode string) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passengerName = strings.TrimSpace(passengerName)
	trainNo = strings.TrimSpace(trainNo)
	classCode = strings.TrimSpace(classCode)
	if passengerName == "" || strings.ContainsAny(passengerName, "\r\n") {
		return nil, ErrInvalidPassenger
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	train, err := s.FindTrain(trainNo)
	if err != nil {
		return nil, err
	}
	if !train.Offers(classCode) {
		return nil, fmt.Errorf("%w: %s on %s", ErrClassNotOffered, classCode, train.Number)
	}
	entry, ok := s.fares.Lookup(classCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, classCode)
	}
	if entry.Capacity-s.BookedCount(train.Number, classCode) <= 0 {
		return nil, ErrCapacityExceeded
	}

	pnr, err := nextPNR(s.rng, s.ledger.HasPNR)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		PNR:       pnr,
		Name:      passengerName,
		Age:       age,
		TrainNo:   train.Number,
		TrainName: train.Name,
		ClassType: classCode,
		SeatNo:    s.NextSeatNumber(train.Number, classCode),
		Fare:      entry.Fare,
		Departure: train.Departure,
	}

	index := s.ledger.Len()
	s.ledger.Append(booking)
	if err := s.ledger.SaveAll(ctx); err != nil {
		s.ledger.RemoveAt(index)
		return nil, err
	}

	s.publish(EventBookingCreated, booking)
	return &booking, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, pnr string) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, index, ok := s.ledger.Remove(pnr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, pnr)
	}
	if err := s.ledger.SaveAll(ctx); err != nil {
		s.ledger.InsertAt(index, removed)
		return nil, err
	}

	s.publish(EventBookingCancelled, removed)
	return &removed, nil
}

func (s *reservationService) FindBookingsByPNR(pnr string) []models.Booking {
	return s.ledger.FindByPNR(pnr)
}

func (s *reservationService) publish(eventType string, b models.Booking) {
	if s.publisher == nil {
		return
	}
	// the booking is already durable; a lost event does not undo it
	_ = s.publisher.Publish(eventType, models.BookingEvent{
		Type:       eventType,
		BookingID:  b.BookingID(),
		Booking:    b,
		OccurredAt: s.now().UTC(),
	})
}
