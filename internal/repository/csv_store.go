package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Eursukkul/train-reservation/internal/models"
)

// DefaultLedgerFile is used when the caller supplies no ledger path.
const DefaultLedgerFile = "booking.csv"

const bookingFields = 9

var ErrNumericParse = errors.New("numeric field parse failure")

var ledgerHeader = []string{"pnr", "name", "age", "trainNo", "trainName", "classType", "seatNo", "fare", "departure"}

type csvLedgerStore struct {
	path string
}

func NewCSVLedgerStore(path string) LedgerStore {
	if path == "" {
		path = DefaultLedgerFile
	}
	return &csvLedgerStore{path: path}
}

// Load reads the ledger file. A missing file means no bookings yet. A
// numeric field that does not parse fails the whole load.
func (s *csvLedgerStore) Load(ctx context.Context) ([]models.Booking, models.LoadReport, error) {
	var report models.LoadReport
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Booking{}, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("%w: open ledger: %v", ErrIOUnavailable, err)
	}
	defer f.Close()

	bookings := []models.Booking{}
	isHeader := func(record []string) bool {
		return strings.HasPrefix(strings.TrimSpace(record[0]), "pnr")
	}
	err = readRows(f, isHeader, func(line int, raw string, record []string) error {
		if len(record) < bookingFields {
			report.Skip(line, raw)
			return nil
		}
		b, err := parseBooking(record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		bookings = append(bookings, b)
		report.Rows++
		return nil
	})
	if errors.Is(err, ErrNumericParse) {
		return nil, report, err
	}
	if err != nil {
		return nil, report, fmt.Errorf("%w: read ledger: %v", ErrIOUnavailable, err)
	}
	return bookings, report, nil
}

func parseBooking(record []string) (models.Booking, error) {
	field := func(i int) string { return strings.TrimSpace(record[i]) }
	number := func(i int) (int, error) {
		n, err := strconv.Atoi(field(i))
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q", ErrNumericParse, ledgerHeader[i], field(i))
		}
		return n, nil
	}

	age, err := number(2)
	if err != nil {
		return models.Booking{}, err
	}
	seat, err := number(6)
	if err != nil {
		return models.Booking{}, err
	}
	fare, err := number(7)
	if err != nil {
		return models.Booking{}, err
	}
	return models.Booking{
		PNR:       field(0),
		Name:      field(1),
		Age:       age,
		TrainNo:   field(3),
		TrainName: field(4),
		ClassType: field(5),
		SeatNo:    seat,
		Fare:      fare,
		Departure: field(8),
	}, nil
}

// SaveAll writes the header and every booking to a temporary file next to
// the ledger and renames it into place, so a failed write leaves the
// previous file intact.
func (s *csvLedgerStore) SaveAll(ctx context.Context, bookings []models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".booking-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeBookings(tmp, bookings); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func writeBookings(f *os.File, bookings []models.Booking) error {
	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, b := range bookings {
		row := []string{
			b.PNR,
			b.Name,
			strconv.Itoa(b.Age),
			b.TrainNo,
			b.TrainName,
			b.ClassType,
			strconv.Itoa(b.SeatNo),
			strconv.Itoa(b.Fare),
			b.Departure,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write booking %s: %w", b.PNR, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}
